// Package system holds the capability catalog: every behavior a world can run
// is registered here as an Entry under the simulation kind it belongs to.
// Entries carry a stable ID (used for exclusion matching during role wiring)
// and an execution stage (used to re-sort a filtered catalog into the order
// the execution loop requires).
package system

import (
	"github.com/rs/zerolog"
)

// ID is the stable identifier of a registered system. Role wiring matches
// against IDs, never against display names.
type ID string

// Stage is the execution-order bucket a system runs in. Within a stage,
// systems run in ID order.
type Stage int

const (
	StageStartup Stage = iota
	StageNetwork
	StageSimulation
	StagePresentation
)

// SimulationKind selects which catalog a world's systems are drawn from.
type SimulationKind string

const (
	SimulationClient     SimulationKind = "client"
	SimulationServer     SimulationKind = "server"
	SimulationThinClient SimulationKind = "thin_client"
	SimulationDeployment SimulationKind = "deployment"
)

// Context is passed to every system invocation by the execution loop.
type Context struct {
	Tick   uint64
	Logger *zerolog.Logger
}

// RunFunc is the body of a system, invoked once per tick.
type RunFunc func(ctx Context) error

// Entry is a single catalog entry: a registered system plus the metadata the
// bootstrap needs to filter and order it.
type Entry struct {
	ID    ID
	Name  string
	Stage Stage
	Run   RunFunc
}
