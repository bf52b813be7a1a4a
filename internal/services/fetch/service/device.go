package service

import (
	"context"

	"kaucja/internal/adapters/fsp"
	"kaucja/internal/services/fetch/domain"
)

// fspDevice adapts the FSP client to the device port
type fspDevice struct {
	c *fsp.Client
}

// NewDevice wraps an FSP client as a domain.DevicePort
func NewDevice(c *fsp.Client) domain.DevicePort { return &fspDevice{c: c} }

func (d *fspDevice) ListDir(ctx context.Context, path string) ([]domain.RemoteEntry, error) {
	entries, err := d.c.ListDir(ctx, path)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RemoteEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, domain.RemoteEntry{Name: e.Name, Size: e.Size, Dir: e.Dir})
	}
	return out, nil
}

func (d *fspDevice) ReadFile(ctx context.Context, path string) ([]byte, error) {
	return d.c.ReadFile(ctx, path)
}
