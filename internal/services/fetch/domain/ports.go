package domain

import "context"

// RunnerPort is the external port for the fetch job
type RunnerPort interface {
	Run(ctx context.Context, in Input) (Result, error)
}

// DevicePort abstracts the printer's file service
type DevicePort interface {
	ListDir(ctx context.Context, path string) ([]RemoteEntry, error)
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// LedgerPort persists fetch runs so later runs resume where one left off
type LedgerPort interface {
	// LastIndex returns the highest saved BIN index for a printer,
	// -1 when the printer has never been fetched
	LastIndex(ctx context.Context, location, prefix string) (int, error)

	// RecordRun writes the run outcome
	RecordRun(ctx context.Context, in Input, res Result) error
}
