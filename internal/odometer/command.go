package odometer

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/edouard-claude/printmeter/internal/utils"
)

// CommandKind classifies a parsed G-code command.
type CommandKind int

const (
	CmdNone CommandKind = iota // line carries no command token
	CmdLinearMove
	CmdArcMove
	CmdInches
	CmdMillimeters
	CmdHome
	CmdAbsolute
	CmdRelative
	CmdSetPosition
	CmdExtruderAbsolute
	CmdExtruderRelative
	CmdToolSelect
	CmdOther
)

var kindNames = [...]string{
	CmdNone:             "none",
	CmdLinearMove:       "linear-move",
	CmdArcMove:          "arc-move",
	CmdInches:           "inches",
	CmdMillimeters:      "millimeters",
	CmdHome:             "home",
	CmdAbsolute:         "absolute",
	CmdRelative:         "relative",
	CmdSetPosition:      "set-position",
	CmdExtruderAbsolute: "extruder-absolute",
	CmdExtruderRelative: "extruder-relative",
	CmdToolSelect:       "tool-select",
	CmdOther:            "other",
}

func (k CommandKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Command is the leading command token of a G-code line.
type Command struct {
	Kind   CommandKind
	Letter byte // 'G', 'M' or 'T'
	Code   int  // G/M number, or tool index for T
	Sub    int  // subcode after the dot, 0 when absent
}

var commandRe = utils.NewLazyRegex(`^\s*(?:([GM])(\d+)(?:\.(\d+))?|T(\d+))`)

// ParseCommand extracts the command token from line. Lines that do not start
// with a G, M or T word yield a Command of kind CmdNone.
func ParseCommand(line string) Command {
	m := commandRe.Submatch(line)
	if m == nil {
		return Command{Kind: CmdNone}
	}

	if m[4] != "" {
		tool, err := strconv.Atoi(m[4])
		if err != nil {
			return Command{Kind: CmdNone}
		}
		return Command{Kind: CmdToolSelect, Letter: 'T', Code: tool}
	}

	code, err := strconv.Atoi(m[2])
	if err != nil {
		return Command{Kind: CmdNone}
	}
	cmd := Command{Letter: m[1][0], Code: code}
	if m[3] != "" {
		cmd.Sub, _ = strconv.Atoi(m[3])
	}
	cmd.Kind = classify(cmd.Letter, cmd.Code)
	return cmd
}

func classify(letter byte, code int) CommandKind {
	if letter == 'M' {
		switch code {
		case 82:
			return CmdExtruderAbsolute
		case 83:
			return CmdExtruderRelative
		}
		return CmdOther
	}
	switch code {
	case 0, 1:
		return CmdLinearMove
	case 2, 3:
		return CmdArcMove
	case 20:
		return CmdInches
	case 21:
		return CmdMillimeters
	case 28:
		return CmdHome
	case 90:
		return CmdAbsolute
	case 91:
		return CmdRelative
	case 92:
		return CmdSetPosition
	}
	return CmdOther
}

// Param reads the numeric value following the first occurrence of letter in
// line, up to the next whitespace. Missing letters, unparseable numbers, NaN
// and infinities all report ok=false.
func Param(line string, letter byte) (float64, bool) {
	i := strings.IndexByte(line, letter)
	if i < 0 {
		return 0, false
	}
	raw := line[i+1:]
	if end := strings.IndexFunc(raw, unicode.IsSpace); end >= 0 {
		raw = raw[:end]
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
