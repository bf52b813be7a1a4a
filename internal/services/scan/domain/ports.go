package domain

import (
	"context"

	"github.com/google/uuid"
)

// RunnerPort is the external port for the scan job
type RunnerPort interface {
	Run(ctx context.Context, in Input) (Result, error)
}

// RecorderPort persists scan runs and their extracted rows
type RecorderPort interface {
	// RecordRun writes the run header and returns its id
	RecordRun(ctx context.Context, in Input, res Result) (uuid.UUID, error)

	// RecordRows writes the detail rows for a run.
	// Returns number of rows written (after ON CONFLICT DO NOTHING)
	RecordRows(ctx context.Context, runID uuid.UUID, rows []DetailRow) (int, error)
}
