// Package antivirus scans uploaded content before it is stored.
package antivirus

import (
	"context"
	"io"
)

// Verdict is the outcome of a completed scan.
type Verdict struct {
	Infected bool
	Threat   string // signature name when Infected
}

// Scanner inspects a stream for malware. An error means the scan did not
// complete and the content must not be trusted.
type Scanner interface {
	Scan(ctx context.Context, r io.Reader) (Verdict, error)
}
