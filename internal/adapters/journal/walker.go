// Package journal manages the local archive of fetched printer files:
// directory layout, sidecar metadata and the walker feeding the scanner
package journal

import (
	"io/fs"
	"path/filepath"
	"strings"

	perr "kaucja/internal/platform/errors"
)

// FileRef points at one journal file found under the archive root
// Location and Printer come from the first two path segments under root
type FileRef struct {
	Path     string
	Location string
	Printer  string
}

// SigPath returns the signature sibling of a journal file
func SigPath(binPath string) string {
	return strings.TrimSuffix(binPath, filepath.Ext(binPath)) + ".SIG"
}

// MetaPath returns the metadata sidecar of a journal file
func MetaPath(binPath string) string {
	return binPath + ".meta.json"
}

// FindBIN walks root and returns every .BIN journal file
// The walk itself is fatal only when root cannot be read at all; unreadable
// subtrees are skipped so one bad directory cannot sink the scan
func FindBIN(root string) ([]FileRef, error) {
	var out []FileRef
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return fs.SkipDir
		}
		if d.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".bin") {
			return nil
		}
		ref := FileRef{Path: path}
		if rel, rerr := filepath.Rel(root, path); rerr == nil {
			parts := strings.Split(rel, string(filepath.Separator))
			if len(parts) > 0 {
				ref.Location = parts[0]
			}
			if len(parts) > 1 {
				ref.Printer = parts[1]
			}
		}
		out = append(out, ref)
		return nil
	})
	if walkErr != nil {
		return nil, perr.Wrap(walkErr, perr.ErrorCodeUnavailable, "walk archive root")
	}
	return out, nil
}
