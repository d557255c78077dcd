package domain

import (
	"sort"
	"time"
)

// FingerprintStrategy selects how file sets are fingerprinted.
type FingerprintStrategy string

const (
	// FingerprintMTime derives the fingerprint from the newest modification time.
	FingerprintMTime FingerprintStrategy = "mtime"
	// FingerprintContent derives the fingerprint from file contents.
	FingerprintContent FingerprintStrategy = "content"
)

// DefaultProbeTimeout bounds remote existence probes.
const DefaultProbeTimeout = 3 * time.Second

// DefaultIgnore lists the route segment patterns ignored when none are configured.
var DefaultIgnore = []string{".*", "_*"}

// Mount serves the files of a local directory under a route prefix.
type Mount struct {
	Route string
	From  string
}

// Engine names a compression engine and its options.
type Engine struct {
	Name    string
	Options map[string]string
}

// Remote describes an S3 bucket holding published bundles.
type Remote struct {
	Bucket   string
	Region   string
	Prefix   string
	Endpoint string
}

// Config is the read-only configuration shared by every package.
type Config struct {
	// Root is the directory the configuration was loaded from.
	Root string

	Mode         Mode
	Host         string
	OutputDir    string
	Strict       bool
	Ignore       []string
	Fingerprint  FingerprintStrategy
	ProbeTimeout time.Duration

	// Source is an optional base URL to fetch served source files from.
	Source string

	Mounts  []Mount
	Engines map[Kind]Engine
	Remote  *Remote

	Packages []Package
}

// Package returns the definition with the given name.
func (c *Config) Package(name string) (Package, bool) {
	for _, p := range c.Packages {
		if p.Name == name {
			return p, true
		}
	}
	return Package{}, false
}

// PackageNames returns all package names in sorted order.
func (c *Config) PackageNames() []string {
	names := make([]string, 0, len(c.Packages))
	for _, p := range c.Packages {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

// EngineFor returns the engine configured for kind, defaulting to "none".
func (c *Config) EngineFor(kind Kind) Engine {
	if e, ok := c.Engines[kind]; ok && e.Name != "" {
		return e
	}
	return Engine{Name: "none"}
}
