// Package gamedata loads the static game content: the weapon catalog from its
// pipe-delimited text file and the embedded enemy bestiary.
package gamedata

import "embed"

// dataFS embeds the JSON content files from this directory at build time.
//
//go:embed *.json
var dataFS embed.FS
