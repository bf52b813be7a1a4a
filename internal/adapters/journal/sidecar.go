package journal

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	perr "kaucja/internal/platform/errors"
)

// Meta is the sidecar written next to every fetched file
type Meta struct {
	OriginalPath string    `json:"original_path"`
	SavedPath    string    `json:"saved_path"`
	Size         int64     `json:"size"`
	SHA256       string    `json:"sha256"`
	SavedAt      time.Time `json:"saved_at"`
}

// Archive is the local store of fetched printer files
type Archive struct {
	Root string
}

// NewArchive constructs an Archive rooted at root
func NewArchive(root string) *Archive { return &Archive{Root: root} }

// Save writes data under root/<location>/<printer>/<remotePath>, atomically
// via a temp file and rename, then writes the metadata sidecar
func (a *Archive) Save(location, printer, remotePath string, data []byte) (Meta, error) {
	parts := strings.Split(strings.Trim(remotePath, "/"), "/")
	target := filepath.Join(append([]string{a.Root, location, printer}, parts...)...)

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Meta{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "mkdir archive")
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return Meta{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "write temp file")
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return Meta{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "rename temp file")
	}

	sum := sha256.Sum256(data)
	meta := Meta{
		OriginalPath: remotePath,
		SavedPath:    target,
		Size:         int64(len(data)),
		SHA256:       hex.EncodeToString(sum[:]),
		SavedAt:      time.Now().UTC(),
	}
	if err := WriteMeta(target, meta); err != nil {
		return Meta{}, err
	}
	return meta, nil
}

// WriteMeta writes the sidecar for binPath
func WriteMeta(binPath string, meta Meta) error {
	b, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "marshal sidecar")
	}
	if err := os.WriteFile(MetaPath(binPath), b, 0o644); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "write sidecar")
	}
	return nil
}

// ReadMeta loads the sidecar for binPath; NotFound when the sidecar is absent
func ReadMeta(binPath string) (Meta, error) {
	b, err := os.ReadFile(MetaPath(binPath))
	if err != nil {
		if os.IsNotExist(err) {
			return Meta{}, perr.NotFoundf("no sidecar for %s", filepath.Base(binPath))
		}
		return Meta{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "read sidecar")
	}
	var m Meta
	if err := json.Unmarshal(b, &m); err != nil {
		return Meta{}, perr.Wrap(err, perr.ErrorCodeJSON, "unmarshal sidecar")
	}
	return m, nil
}

// VerifySidecar cross-checks data against the stored sha256
// Returns (false, nil) when there is no sidecar to check against
func VerifySidecar(binPath string, data []byte) (bool, error) {
	m, err := ReadMeta(binPath)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return false, nil
		}
		return false, err
	}
	sum := sha256.Sum256(data)
	if hex.EncodeToString(sum[:]) != m.SHA256 {
		return false, perr.Decodef("sidecar sha256 mismatch for %s", filepath.Base(binPath))
	}
	return true, nil
}

// HasSig reports whether the signature sibling exists
func HasSig(binPath string) bool {
	_, err := os.Stat(SigPath(binPath))
	return err == nil
}
