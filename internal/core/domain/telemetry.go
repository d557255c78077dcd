package domain

import "strings"

// BuildStatus represents the outcome of scheduling one package.
type BuildStatus string

const (
	// BuildStatusPending indicates the package is waiting to be built.
	BuildStatusPending BuildStatus = "pending"
	// BuildStatusBuilt indicates a fresh bundle was produced.
	BuildStatusBuilt BuildStatus = "built"
	// BuildStatusCached indicates the bundle already existed locally or remotely.
	BuildStatusCached BuildStatus = "cached"
	// BuildStatusFailed indicates the build failed.
	BuildStatusFailed BuildStatus = "failed"
)

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// IsTerminal reports whether the status is final.
func (s BuildStatus) IsTerminal() bool {
	switch s {
	case BuildStatusBuilt, BuildStatusCached, BuildStatusFailed:
		return true
	default:
		return false
	}
}

// NormalizeBuildStatus converts a string to a BuildStatus, defaulting to pending if unknown.
func NormalizeBuildStatus(s string) BuildStatus {
	switch strings.ToLower(s) {
	case string(BuildStatusBuilt):
		return BuildStatusBuilt
	case string(BuildStatusCached):
		return BuildStatusCached
	case string(BuildStatusFailed):
		return BuildStatusFailed
	default:
		return BuildStatusPending
	}
}
