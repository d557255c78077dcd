package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/assetpack/internal/adapters/logger"            //nolint:depguard // Wired in engine wiring
	"go.trai.ch/assetpack/internal/adapters/metrics"           //nolint:depguard // Wired in engine wiring
	"go.trai.ch/assetpack/internal/adapters/telemetry"         //nolint:depguard // Wired in engine wiring
	"go.trai.ch/assetpack/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/assetpack/internal/core/ports"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			telemetry.TracerNodeID,
			progrock.NodeID,
			logger.NodeID,
			metrics.NodeID,
		},
		Run: func(ctx context.Context) (*Scheduler, error) {
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			progress, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			m, err := graft.Dep[*metrics.Metrics](ctx)
			if err != nil {
				return nil, err
			}

			return NewScheduler(tracer, progress, log, m), nil
		},
	})
}
