package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/assetpack/internal/adapters/compress"           //nolint:depguard // Wired in app layer
	"go.trai.ch/assetpack/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/assetpack/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/assetpack/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/assetpack/internal/adapters/metrics"            //nolint:depguard // Wired in app layer
	"go.trai.ch/assetpack/internal/adapters/source"             //nolint:depguard // Wired in app layer
	"go.trai.ch/assetpack/internal/adapters/telemetry"          //nolint:depguard // Wired in app layer
	"go.trai.ch/assetpack/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/assetpack/internal/core/ports"
	"go.trai.ch/assetpack/internal/engine/scheduler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			progrock.NodeID,
			scheduler.NodeID,
			compress.NodeID,
			fs.WalkerNodeID,
			fs.VerifierNodeID,
			fs.WriterNodeID,
			source.DiskNodeID,
			metrics.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	var (
		adapters Adapters
		err      error
	)

	if adapters.Loader, err = graft.Dep[ports.ConfigLoader](ctx); err != nil {
		return nil, err
	}
	if adapters.Logger, err = graft.Dep[ports.Logger](ctx); err != nil {
		return nil, err
	}
	if adapters.Tracer, err = graft.Dep[ports.Tracer](ctx); err != nil {
		return nil, err
	}
	if adapters.Telemetry, err = graft.Dep[ports.Telemetry](ctx); err != nil {
		return nil, err
	}
	if adapters.Scheduler, err = graft.Dep[*scheduler.Scheduler](ctx); err != nil {
		return nil, err
	}
	if adapters.Engines, err = graft.Dep[*compress.Registry](ctx); err != nil {
		return nil, err
	}
	if adapters.Walker, err = graft.Dep[*fs.Walker](ctx); err != nil {
		return nil, err
	}
	if adapters.Verifier, err = graft.Dep[ports.Verifier](ctx); err != nil {
		return nil, err
	}
	if adapters.Writer, err = graft.Dep[*fs.Writer](ctx); err != nil {
		return nil, err
	}
	if adapters.Fetcher, err = graft.Dep[*source.Disk](ctx); err != nil {
		return nil, err
	}
	if adapters.Metrics, err = graft.Dep[*metrics.Metrics](ctx); err != nil {
		return nil, err
	}

	return New(adapters), nil
}
