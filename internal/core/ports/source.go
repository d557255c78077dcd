package ports

import (
	"context"

	"go.trai.ch/assetpack/internal/core/domain"
)

// SourceFetcher reads the content of one resolved source file.
//
//go:generate go run go.uber.org/mock/mockgen -source=source.go -destination=mocks/mock_source.go -package=mocks
type SourceFetcher interface {
	Fetch(ctx context.Context, entry domain.Entry) ([]byte, error)
}
