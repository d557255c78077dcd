package ports

// Verifier checks whether built outputs exist locally.
//
//go:generate go run go.uber.org/mock/mockgen -source=verifier.go -destination=mocks/mock_verifier.go -package=mocks
type Verifier interface {
	// Exists reports whether the route exists as a regular file under root.
	Exists(root, route string) (bool, error)
}
