// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/assetpack/internal/adapters/compress"
	_ "go.trai.ch/assetpack/internal/adapters/config"
	_ "go.trai.ch/assetpack/internal/adapters/fs"
	_ "go.trai.ch/assetpack/internal/adapters/logger"
	_ "go.trai.ch/assetpack/internal/adapters/metrics"
	_ "go.trai.ch/assetpack/internal/adapters/shell"
	_ "go.trai.ch/assetpack/internal/adapters/source"
	_ "go.trai.ch/assetpack/internal/adapters/telemetry"
	_ "go.trai.ch/assetpack/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/assetpack/internal/app"
	_ "go.trai.ch/assetpack/internal/engine/scheduler"
)
