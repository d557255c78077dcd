package ports

import "go.trai.ch/assetpack/internal/core/domain"

// GlobResolver expands route globs into local files.
//
//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type GlobResolver interface {
	// Resolve expands the filespecs in order into a route -> local file mapping,
	// dropping ignored routes and duplicate routes.
	Resolve(specs []string) (*domain.FileSet, error)

	// LocalFileFor maps a route path to an existing local file.
	LocalFileFor(route string) (string, bool)

	// Ignored reports whether the route is excluded by the ignore rules.
	Ignored(route string) bool
}
