// Package asset bundles the ASCII art drawn by the terminal backend, so the demos run
// from any working directory.
package asset

import (
	"embed"
	"io/fs"
	"log/slog"
	"os"
)

//go:embed *.txt
var art embed.FS

// Art returns the bundled art, one <name>.txt per image
func Art() fs.FS {
	return art
}

// Resolve prefers the art directory dir and falls back to the bundled art when dir is
// empty or missing
func Resolve(dir string) fs.FS {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return os.DirFS(dir)
		}
		slog.Debug("asset dir unavailable, using bundled art", "dir", dir)
	}
	return art
}
