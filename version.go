package talebox

import _ "embed"

// Version is the release of the player.
//
//go:embed VERSION
var Version string
