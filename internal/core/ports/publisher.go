package ports

import "context"

// Publisher uploads built bundles to remote storage.
//
//go:generate go run go.uber.org/mock/mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks
type Publisher interface {
	// Put stores content at path. It reports false when the object already existed.
	Put(ctx context.Context, path string, content []byte, contentType string) (bool, error)
}
