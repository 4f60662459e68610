// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/owlcache/internal/adapters/cas"
	_ "go.trai.ch/owlcache/internal/adapters/config"
	_ "go.trai.ch/owlcache/internal/adapters/fs"
	_ "go.trai.ch/owlcache/internal/adapters/logger"
	_ "go.trai.ch/owlcache/internal/adapters/telemetry"
	_ "go.trai.ch/owlcache/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/owlcache/internal/app"
	_ "go.trai.ch/owlcache/internal/engine/session"
)
