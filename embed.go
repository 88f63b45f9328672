package printmeter

import "embed"

//go:embed events/*.yaml
var EmbeddedEvents embed.FS
