// Package contacts provides embedded runtime resources (the reply message
// catalog) and an overlay filesystem that checks local disk first, falling
// back to embedded.
package contacts

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed templates/messages.yaml
var rawTemplates embed.FS

// Messages is the embedded templates filesystem with the "templates/" prefix
// stripped. It holds messages.yaml.
var Messages = mustSub(rawTemplates, "templates")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// OverlayFS returns a filesystem that checks localDir on disk first,
// falling back to the embedded filesystem for files not found locally.
func OverlayFS(localDir string, embedded fs.FS) fs.FS {
	return overlayFS{localDir: localDir, embedded: embedded}
}

type overlayFS struct {
	localDir string
	embedded fs.FS
}

// Open serves name from localDir when that file exists there. Names that are
// not valid fs paths (rooted, or containing ".." elements) are refused before
// touching the disk, so an overlay never reads outside localDir.
func (o overlayFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	f, err := os.Open(filepath.Join(o.localDir, filepath.FromSlash(name)))
	if err == nil {
		return f, nil
	}
	return o.embedded.Open(name)
}
