// Package engine provides the execution side of the bootstrap: a Registry
// that hands out system catalogs and accepts worlds, and a Runtime that ticks
// every registered world on its own goroutine.
package engine

import (
	"github.com/rs/zerolog"

	"github.com/hexlade/multiworld/system"
	"github.com/hexlade/multiworld/worldstage"
)

// World is what the execution loop needs from an isolated execution context.
// The system set is assigned at construction and immutable afterward, so the
// loop can read it without synchronization.
type World interface {
	InstanceID() string
	Name() string
	Systems() []system.Entry
	Logger() *zerolog.Logger
	Stage() *worldstage.Manager
}

// Registry is the engine-side contract the bootstrap consumes: catalog
// retrieval, dependency ordering, and world registration.
type Registry interface {
	GetCatalog(kind system.SimulationKind) ([]system.Entry, error)
	Sort(entries []system.Entry) []system.Entry
	RegisterWorld(w World) error
}
