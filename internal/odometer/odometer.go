// Package odometer interprets G-code motion commands one line at a time and
// accumulates the distance traveled by each axis and extruder.
//
// Travel is true path length: a move to X5 and back to X0 adds 10mm, not 0.
// Malformed input never fails; unparseable parameters are treated as absent
// and unknown commands leave the state untouched.
package odometer

import "math"

const inchScale = 25.4

// Options configures the interpreter.
type Options struct {
	Extruders       int  // initial number of extruders, at least 1
	MaxExtruders    int  // upper bound for Extruders
	G90Extruder     bool // G90/G91 also switch the extruder mode
	DuplicationMode bool // mirror tool 0 extrusion onto every other extruder
}

// DefaultOptions returns a single-extruder setup.
func DefaultOptions() Options {
	return Options{
		Extruders:    1,
		MaxExtruders: 10,
	}
}

// Odometer holds interpreter state and cumulative travel totals. It is not
// safe for concurrent use; callers serialize access.
type Odometer struct {
	opts Options

	pos     Vector3
	lastPos Vector3
	bank    extruderBank
	tool    int

	relativeMode bool
	relativeE    bool
	duplication  bool
	scale        float64

	axisTravel Vector3
}

// New creates an odometer seeded with previously accumulated totals.
// extrusionTravel may be nil. When it holds more entries than opts.Extruders
// the bank grows to fit so no persisted total is dropped.
func New(opts Options, axisTravel Vector3, extrusionTravel []float64) *Odometer {
	if opts.MaxExtruders < 1 {
		opts.MaxExtruders = DefaultOptions().MaxExtruders
	}
	n := opts.Extruders
	if n < 1 {
		n = 1
	}
	if n > opts.MaxExtruders {
		n = opts.MaxExtruders
	}
	if len(extrusionTravel) > n {
		n = len(extrusionTravel)
	}

	o := &Odometer{
		opts:       opts,
		bank:       newExtruderBank(n),
		axisTravel: axisTravel,
	}
	copy(o.bank.travel, extrusionTravel)
	o.Reset()
	return o
}

// Reset clears position, extrusion and mode state. Travel totals are kept.
func (o *Odometer) Reset() {
	o.pos = Vector3{}
	o.lastPos = Vector3{}
	o.bank.clear()
	o.tool = 0
	o.relativeMode = false
	o.relativeE = false
	o.duplication = o.opts.DuplicationMode
	o.scale = 1.0
}

// ProcessLine interprets one line of G-code.
func (o *Odometer) ProcessLine(line string) {
	o.lastPos = o.pos
	o.bank.mark()

	move := false
	cmd := ParseCommand(line)
	switch cmd.Kind {
	case CmdLinearMove:
		move = o.linearMove(line)
	case CmdInches:
		o.scale = inchScale
	case CmdMillimeters:
		o.scale = 1.0
	case CmdHome:
		o.home(line)
	case CmdAbsolute:
		o.relativeMode = false
		if o.opts.G90Extruder {
			o.relativeE = false
		}
	case CmdRelative:
		o.relativeMode = true
		if o.opts.G90Extruder {
			o.relativeE = true
		}
	case CmdSetPosition:
		o.setPosition(line)
	case CmdExtruderAbsolute:
		o.relativeE = false
	case CmdExtruderRelative:
		o.relativeE = true
	case CmdArcMove, CmdToolSelect, CmdOther, CmdNone:
		// not interpreted
	}

	if move {
		o.axisTravel = o.axisTravel.Add(o.pos.Sub(o.lastPos).Abs())
	}
	o.bank.accumulateTravel()
}

func (o *Odometer) linearMove(line string) bool {
	x, hasX := Param(line, 'X')
	y, hasY := Param(line, 'Y')
	z, hasZ := Param(line, 'Z')

	if o.relativeMode {
		var d Vector3
		if hasX {
			d.X = x * o.scale
		}
		if hasY {
			d.Y = y * o.scale
		}
		if hasZ {
			d.Z = z * o.scale
		}
		o.pos = o.pos.Add(d)
	} else {
		if hasX {
			o.pos.X = x * o.scale
		}
		if hasY {
			o.pos.Y = y * o.scale
		}
		if hasZ {
			o.pos.Z = z * o.scale
		}
	}

	if e, ok := Param(line, 'E'); ok {
		if !o.relativeMode && !o.relativeE {
			e -= o.bank.current[o.tool]
		}
		o.bank.extrude(o.tool, e)
		if o.duplication && o.tool == 0 && o.bank.len() > 1 {
			for i := 1; i < o.bank.len(); i++ {
				o.bank.extrude(i, e)
			}
		}
	}

	return hasX || hasY || hasZ
}

func (o *Odometer) home(line string) {
	_, hasX := Param(line, 'X')
	_, hasY := Param(line, 'Y')
	_, hasZ := Param(line, 'Z')
	if !hasX && !hasY && !hasZ {
		o.pos = Vector3{}
		return
	}
	if hasX {
		o.pos.X = 0
	}
	if hasY {
		o.pos.Y = 0
	}
	if hasZ {
		o.pos.Z = 0
	}
}

// setPosition redefines the coordinate origin. Values are taken as given,
// without unit scaling, and never count as travel.
func (o *Odometer) setPosition(line string) {
	x, hasX := Param(line, 'X')
	y, hasY := Param(line, 'Y')
	z, hasZ := Param(line, 'Z')
	e, hasE := Param(line, 'E')

	if !hasX && !hasY && !hasZ && !hasE {
		o.bank.current[o.tool] = 0
		o.pos = Vector3{}
		return
	}
	if hasE {
		o.bank.current[o.tool] = e
	}
	if hasX {
		o.pos.X = x
	}
	if hasY {
		o.pos.Y = y
	}
	if hasZ {
		o.pos.Z = z
	}
}

// TotalAxisTraveling returns the accumulated path length per axis.
func (o *Odometer) TotalAxisTraveling() Vector3 {
	return o.axisTravel
}

// TotalExtrusionTraveling returns a copy of the accumulated extrusion
// travel per extruder.
func (o *Odometer) TotalExtrusionTraveling() []float64 {
	return cloneFloats(o.bank.travel)
}

// Position returns the current resolved position.
func (o *Odometer) Position() Vector3 { return o.pos }

// CurrentExtrusion returns a copy of the per-extruder E positions.
func (o *Odometer) CurrentExtrusion() []float64 { return cloneFloats(o.bank.current) }

// MaxExtrusion returns a copy of the highest signed extrusion reached per extruder.
func (o *Odometer) MaxExtrusion() []float64 { return cloneFloats(o.bank.max) }

func (o *Odometer) Scale() float64          { return o.scale }
func (o *Odometer) RelativeMode() bool      { return o.relativeMode }
func (o *Odometer) RelativeExtrusion() bool { return o.relativeE }
func (o *Odometer) Tool() int               { return o.tool }

// extruderBank keeps parallel per-extruder slices indexed by tool.
type extruderBank struct {
	current   []float64 // E position, absolute or relative origin
	total     []float64 // signed cumulative extrusion
	lastTotal []float64 // total as of the start of the current line
	max       []float64
	travel    []float64 // sum of |delta total| across lines
}

func newExtruderBank(n int) extruderBank {
	return extruderBank{
		current:   make([]float64, n),
		total:     make([]float64, n),
		lastTotal: make([]float64, n),
		max:       make([]float64, n),
		travel:    make([]float64, n),
	}
}

func (b *extruderBank) len() int { return len(b.current) }

func (b *extruderBank) clear() {
	for i := range b.current {
		b.current[i] = 0
		b.total[i] = 0
		b.lastTotal[i] = 0
		b.max[i] = 0
	}
}

func (b *extruderBank) mark() {
	copy(b.lastTotal, b.total)
}

func (b *extruderBank) extrude(i int, delta float64) {
	b.total[i] += delta
	b.current[i] += delta
	b.max[i] = math.Max(b.max[i], b.total[i])
}

func (b *extruderBank) accumulateTravel() {
	for i := range b.total {
		b.travel[i] += math.Abs(b.total[i] - b.lastTotal[i])
	}
}

func cloneFloats(s []float64) []float64 {
	out := make([]float64, len(s))
	copy(out, s)
	return out
}
