package sdkgen

import (
	"embed"
	"io/fs"
)

//go:embed templates
var embeddedTemplates embed.FS

// EmbeddedTemplates exposes the built-in per-target templates so callers can
// reuse or extend them without reaching into the repository layout.
func EmbeddedTemplates() fs.FS {
	fsys, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(err)
	}
	return fsys
}
