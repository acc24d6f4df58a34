// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/nuance/internal/adapters/cache"
	_ "go.trai.ch/nuance/internal/adapters/config"
	_ "go.trai.ch/nuance/internal/adapters/git"
	_ "go.trai.ch/nuance/internal/adapters/logger"
	_ "go.trai.ch/nuance/internal/adapters/modfile"
	_ "go.trai.ch/nuance/internal/adapters/refs"
	// Register app and engine nodes.
	_ "go.trai.ch/nuance/internal/app"
	_ "go.trai.ch/nuance/internal/engine/installer"
	_ "go.trai.ch/nuance/internal/engine/resolver"
)
