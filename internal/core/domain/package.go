package domain

// Package is the declarative definition of a named asset bundle.
type Package struct {
	// Name identifies the package (e.g. "site").
	Name string

	// Kind is the asset kind, fixed for the package lifetime.
	Kind Kind

	// Path is the logical output route of the bundle (e.g. "/css/site.css").
	Path string

	// Filespecs are route globs, in the order their matches are combined.
	Filespecs []string
}

// Mode selects development or production behavior.
type Mode string

const (
	// ModeDevelopment recomputes fingerprints on every access.
	ModeDevelopment Mode = "development"
	// ModeProduction memoizes fingerprints for the process lifetime.
	ModeProduction Mode = "production"
)

// IsProduction reports whether m is the production mode.
func (m Mode) IsProduction() bool {
	return m == ModeProduction
}
