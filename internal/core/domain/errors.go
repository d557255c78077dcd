package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrUnreadableSource is returned when a source file cannot be stat'ed or read.
	ErrUnreadableSource = zerr.New("unreadable source file")

	// ErrInvalidConfig is returned when the configuration file is malformed or inconsistent.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrUnknownEngine is returned when a compression engine name is not registered
	// or does not support the requested asset kind.
	ErrUnknownEngine = zerr.New("unknown compression engine")

	// ErrInvalidFilespec is returned when a filespec is not a valid glob pattern.
	ErrInvalidFilespec = zerr.New("invalid filespec")

	// ErrNoMatches is returned in strict mode when a filespec matches no files.
	ErrNoMatches = zerr.New("filespec matched no files")

	// ErrUnknownKind is returned when a package declares an unsupported asset kind.
	ErrUnknownKind = zerr.New("unknown asset kind")

	// ErrProbeFailed marks a failed remote existence check. It is logged, never returned
	// to callers of AlreadyBuilt.
	ErrProbeFailed = zerr.New("remote probe failed")

	// ErrPackageNotFound is returned when a requested package is not defined.
	ErrPackageNotFound = zerr.New("package not found")

	// ErrNoPackagesSpecified is returned when a command needs at least one package name.
	ErrNoPackagesSpecified = zerr.New("no packages specified")

	// ErrBuildFailed is returned when at least one package failed to build.
	ErrBuildFailed = zerr.New("build failed")
)

// IsConfigurationError reports whether err is one of the setup-time configuration errors.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrUnknownEngine) ||
		errors.Is(err, ErrInvalidFilespec) ||
		errors.Is(err, ErrNoMatches) ||
		errors.Is(err, ErrUnknownKind)
}
