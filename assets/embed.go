// Package assets embeds the default copy shipped with the binary.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed phrases.txt
var FS embed.FS

// DefaultPhrases is the name of the embedded phrase catalog.
const DefaultPhrases = "phrases.txt"

// Open opens an embedded file.
func Open(name string) (fs.File, error) {
	return FS.Open(name)
}
