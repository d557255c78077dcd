package domain

import "time"

// BuildInfo records the last successful build of a package.
type BuildInfo struct {
	Package     string    `json:"package,omitzero"`
	Kind        Kind      `json:"kind,omitzero"`
	Fingerprint string    `json:"fingerprint,omitzero"`
	Path        string    `json:"path,omitzero"`
	OutputHash  string    `json:"output_hash,omitzero"`
	Size        int       `json:"size,omitzero"`
	Timestamp   time.Time `json:"timestamp,omitzero"`
}
