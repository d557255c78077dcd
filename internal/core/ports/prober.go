package ports

import "context"

// RemoteProber checks whether a busted path was already published remotely.
//
// Implementations never return errors: any failure, including timeouts and
// transport errors, means "not built".
//
//go:generate go run go.uber.org/mock/mockgen -source=prober.go -destination=mocks/mock_prober.go -package=mocks
type RemoteProber interface {
	Exists(ctx context.Context, path string) bool
}
