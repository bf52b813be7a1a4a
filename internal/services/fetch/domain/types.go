// Package domain defines the core types and interfaces for the fetch service
package domain

// Input controls one acquisition run against a printer
type Input struct {
	Addr       string // printer host:port
	Location   string // archive location the printer belongs to
	Root       string // local archive root
	StartDir   string // device journal root, EJ0 by default
	StartIndex int    // first BIN index to fetch, -1 resumes from the ledger
}

// Medium is the decoded registration state of the printer
type Medium struct {
	Model      string
	Prefix     string // registration prefix, empty when not fiscalized
	MediumNo   uint32
	Registry   string
	NIP        string
	Fiscalized bool
}

// RemoteEntry is one entry of a device directory listing
type RemoteEntry struct {
	Name string
	Size uint32
	Dir  bool
}

// Result is the outcome of one fetch run
type Result struct {
	Medium    Medium
	Found     int // journal files seen on the device
	Saved     int
	Skipped   int // files below the start index
	LastIndex int // highest numeric BIN index saved, -1 when none
}
