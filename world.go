package multiworld

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	mwlog "github.com/hexlade/multiworld/log"
	"github.com/hexlade/multiworld/statsd"
	"github.com/hexlade/multiworld/system"
	"github.com/hexlade/multiworld/worldstage"
)

// World is an isolated execution context hosting one role. Its system set is
// assigned at construction and immutable afterward; it is registered with the
// process-wide execution loop exactly once.
type World struct {
	id      uuid.UUID
	name    string
	kind    WorldKind
	systems []system.Entry
	stage   *worldstage.Manager
	logger  zerolog.Logger
}

func newWorld(name string, kind WorldKind, systems []system.Entry, baseLogger *zerolog.Logger) *World {
	id := uuid.New()
	logger := mwlog.CreateWorldLogger(baseLogger, name)
	return &World{
		id:      id,
		name:    name,
		kind:    kind,
		systems: systems,
		stage:   worldstage.NewManager(),
		logger:  *logger,
	}
}

func (w *World) ID() uuid.UUID   { return w.id }
func (w *World) Name() string    { return w.name }
func (w *World) Kind() WorldKind { return w.kind }

// InstanceID uniquely identifies this world instance; thin-client worlds
// share a name prefix but never an instance ID.
func (w *World) InstanceID() string { return w.id.String() }

func (w *World) KindName() string { return string(w.kind) }

// Systems returns a copy of the world's immutable system set.
func (w *World) Systems() []system.Entry {
	out := make([]system.Entry, len(w.systems))
	copy(out, w.systems)
	return out
}

func (w *World) GetRegisteredSystems() []string {
	names := make([]string, 0, len(w.systems))
	for _, entry := range w.systems {
		names = append(names, entry.Name)
	}
	return names
}

func (w *World) Stage() *worldstage.Manager { return w.stage }
func (w *World) Logger() *zerolog.Logger    { return &w.logger }

// createWorld allocates a world, attaches its system set, registers it with
// the execution loop, appends it to the registry, and designates it the
// default injection world if none exists yet (first writer wins).
func (b *Bootstrap) createWorld(name string, kind WorldKind, systems []system.Entry) (*World, error) {
	startTime := time.Now()

	w := newWorld(name, kind, systems, &b.logger)
	if err := b.engine.RegisterWorld(w); err != nil {
		return nil, eris.Wrapf(err, "failed to register %s world %q with the execution loop", kind, name)
	}
	b.registry.append(w)
	b.defaultWorld.CompareAndSwap(nil, w)

	mwlog.World(&b.logger, w, zerolog.InfoLevel)
	statsd.EmitBootstrapStat(startTime, "create_world")
	return w, nil
}

// CreateClientWorld builds the presentation-capable client world: the client
// simulation catalog, filtered, plus auto-connect if requested.
func (b *Bootstrap) CreateClientWorld() (*World, error) {
	if !b.caps.Client {
		return nil, eris.Wrap(ErrRoleUnavailable, "this build cannot host client worlds")
	}
	systems, err := b.roleCatalog(WorldKindGameClient, b.cfg.AutoConnect)
	if err != nil {
		return nil, err
	}
	return b.createWorld("client", WorldKindGameClient, systems)
}

// CreateServerWorld builds the authoritative server world: the server
// simulation catalog, filtered, plus auto-connect if requested.
func (b *Bootstrap) CreateServerWorld() (*World, error) {
	if !b.caps.Server {
		return nil, eris.Wrap(ErrRoleUnavailable, "this build cannot host server worlds")
	}
	systems, err := b.roleCatalog(WorldKindGameServer, b.cfg.AutoConnect)
	if err != nil {
		return nil, err
	}
	return b.createWorld("server", WorldKindGameServer, systems)
}

// CreateThinClientWorlds builds n independent headless client worlds, each
// with the same filtered thin-client catalog. n=0 is not an error; it
// produces no worlds.
func (b *Bootstrap) CreateThinClientWorlds(n int) ([]*World, error) {
	if n < 0 {
		return nil, eris.Errorf("thin client count must be non-negative, got %d", n)
	}
	if n == 0 {
		return nil, nil
	}
	if !b.caps.Client {
		return nil, eris.Wrap(ErrRoleUnavailable, "this build cannot host thin client worlds")
	}

	worlds := make([]*World, 0, n)
	for i := 0; i < n; i++ {
		systems, err := b.roleCatalog(WorldKindGameThinClient, b.cfg.AutoConnect)
		if err != nil {
			return nil, err
		}
		w, err := b.createWorld(fmt.Sprintf("thin_client_%d", i), WorldKindGameThinClient, systems)
		if err != nil {
			return nil, err
		}
		worlds = append(worlds, w)
	}
	return worlds, nil
}

// CreateStreamedClientWorld builds the streamed-guest world. Its catalog is
// hand-picked, never drawn from the engine registry, so there is nothing to
// filter. Whether it auto-connects is a configuration choice
// (StreamedAutoConnect), off by default.
func (b *Bootstrap) CreateStreamedClientWorld() (*World, error) {
	if !b.caps.Client {
		return nil, eris.Wrap(ErrRoleUnavailable, "this build cannot host client worlds")
	}

	systems := []system.Entry{
		{ID: "streaming.multiplayer_init", Name: "MultiplayerStreamingInitSystem", Stage: system.StageStartup, Run: func(system.Context) error { return nil }},
		{ID: "streaming.input_emulation_init", Name: "InputEmulationInitSystem", Stage: system.StageStartup, Run: func(system.Context) error { return nil }},
	}
	if b.cfg.StreamedAutoConnect {
		systems = append(systems, autoConnectEntry(WorldKindGame, b.serverConnect))
	}
	systems = b.engine.Sort(systems)
	return b.createWorld("streamed_client", WorldKindGame, systems)
}

// roleCatalog retrieves the full catalog for the role's simulation kind,
// filters it, and re-sorts it into execution order.
func (b *Bootstrap) roleCatalog(kind WorldKind, autoConnect bool) ([]system.Entry, error) {
	simKind, err := kind.simulationKind()
	if err != nil {
		return nil, eris.Wrapf(ErrCatalogRetrieval, "%v", err)
	}
	catalog, err := b.engine.GetCatalog(simKind)
	if err != nil {
		return nil, eris.Wrapf(ErrCatalogRetrieval, "no catalog for %s world: %v", kind, err)
	}
	filtered := FilterCatalog(catalog, kind, autoConnect, b.serverConnect)
	return b.engine.Sort(filtered), nil
}
