package ports

// Buster computes cache-busting fingerprints for file sets.
//
//go:generate go run go.uber.org/mock/mockgen -source=buster.go -destination=mocks/mock_buster.go -package=mocks
type Buster interface {
	// Fingerprint returns a deterministic token for the given local files.
	Fingerprint(files []string) (string, error)

	// Bust inserts the fingerprint of files before the extension of path.
	Bust(path string, files []string) (string, error)
}
