// Package multiworld decides, at process start, which simulation worlds a
// process hosts: it resolves a role configuration, computes network endpoints
// per role, filters the engine's system catalog down to a role-appropriate
// subset, and constructs one isolated world per role instance. When remote
// configuration is requested (or this process is the deployment service
// itself), a single deployment world is built first and local worlds are
// deferred until the configuration exchange completes.
package multiworld

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hexlade/multiworld/depconfig"
	"github.com/hexlade/multiworld/engine"
	"github.com/hexlade/multiworld/statsd"
	"github.com/hexlade/multiworld/system"
)

// Capabilities describes which roles this host build can satisfy. A
// dedicated-server build clears Client; a pure client build clears Server.
type Capabilities struct {
	Client bool
	Server bool
}

// Bootstrap owns everything one orchestration pass touches: the resolved
// configuration, the engine handle, the world registry, and the per-role
// endpoint state. It replaces ambient global bootstrap state; construct one
// per process start and pass it explicitly.
type Bootstrap struct {
	mu     sync.Mutex
	cfg    ResolvedConfig
	cfgSet bool

	engine   engine.Registry
	registry *WorldRegistry
	caps     Capabilities
	logger   zerolog.Logger

	// defaultWorld is the process-wide default injection context: the first
	// world created wins and is never overwritten.
	defaultWorld    atomic.Pointer[World]
	deploymentWorld atomic.Pointer[World]
	localDone       bool

	serverListen  NetworkEndpoint
	serverConnect NetworkEndpoint
	deployListen  NetworkEndpoint
	deployConnect NetworkEndpoint

	depServer *depconfig.Server
}

// NewBootstrap resolves the configuration and prepares an orchestration pass.
// A resolver failure is fatal: no worlds may be created from an unresolved
// configuration.
func NewBootstrap(opts ...BootstrapOption) (*Bootstrap, error) {
	b := &Bootstrap{
		registry: newWorldRegistry(),
		caps:     Capabilities{Client: true, Server: true},
		logger:   log.Logger,
	}
	for _, opt := range opts {
		opt(b)
	}

	if !b.cfgSet {
		cfg, err := loadResolvedConfig()
		if err != nil {
			return nil, eris.Wrapf(ErrConfigResolution, "%v", err)
		}
		b.cfg = cfg
	} else if err := b.cfg.Validate(); err != nil {
		return nil, eris.Wrapf(ErrConfigResolution, "%v", err)
	}

	if b.engine == nil {
		b.engine = engine.NewRuntime(system.DefaultRegistry())
	}

	if b.cfg.StatsdAddress != "" {
		if err := statsd.Init(b.cfg.StatsdAddress, []string{"play_type:" + string(b.cfg.PlayType)}); err != nil {
			return nil, eris.Wrap(err, "unable to init statsd")
		}
	}

	return b, nil
}

// Orchestrate runs the top-level startup sequence. If remote configuration is
// requested or this process is the deployment service, exactly one deployment
// world is built and local world creation is deferred until the configuration
// exchange completes; otherwise the local-mode worlds are built now.
// Re-invoking within the same process never re-creates a deployment world and
// never duplicates the default injection world.
func (b *Bootstrap) Orchestrate() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	startTime := time.Now()

	if b.cfg.UseRemoteConfig || b.cfg.IsDeploymentService {
		if b.deploymentWorld.Load() != nil {
			return nil
		}
		mode := ServeConfig
		if b.cfg.UseRemoteConfig {
			mode = RequestConfig
		}
		log.Info().Str("mode", string(mode)).Msg("Deployment networking active; deferring local worlds")
		if _, err := b.createDeploymentWorld(mode); err != nil {
			return err
		}
		statsd.EmitBootstrapStat(startTime, "orchestrate_deployment")
		return nil
	}

	if err := b.orchestrateLocal(b.cfg); err != nil {
		return err
	}
	statsd.EmitBootstrapStat(startTime, "orchestrate_local")
	return nil
}

// orchestrateLocal builds the local-mode worlds for cfg. Callers hold b.mu.
func (b *Bootstrap) orchestrateLocal(cfg ResolvedConfig) error {
	if b.localDone {
		return nil
	}

	listen, connect, err := BuildEndpoints(cfg.ServerHost, cfg.ServerPort)
	if err != nil {
		return eris.Wrapf(err, "cannot derive game server endpoints from %q", cfg.ServerHost)
	}
	b.cfg = cfg
	b.serverListen = listen
	b.serverConnect = connect

	log.Info().
		Str("play_type", string(cfg.PlayType)).
		Str("streaming_role", string(cfg.StreamingRole)).
		Str("server", connect.Addr()).
		Int("thin_clients", cfg.NumThinClients).
		Msg("Starting local-mode world setup")

	// A role unavailable on this host build is reported and skipped; the
	// other requested roles still proceed. Any other failure aborts.
	buildRole := func(create func() (*World, error)) error {
		if _, err := create(); err != nil {
			if eris.Is(err, ErrRoleUnavailable) {
				log.Error().Msgf("skipping role: %s", eris.ToString(err, false))
				return nil
			}
			return err
		}
		return nil
	}

	clientFactory := b.CreateClientWorld
	if cfg.StreamingRole == StreamingRoleGuest {
		clientFactory = b.CreateStreamedClientWorld
	}

	switch cfg.PlayType {
	case PlayTypeClient:
		if err := buildRole(clientFactory); err != nil {
			return err
		}
	case PlayTypeServer:
		if err := buildRole(b.CreateServerWorld); err != nil {
			return err
		}
	case PlayTypeClientAndServer:
		if err := buildRole(clientFactory); err != nil {
			return err
		}
		if err := buildRole(b.CreateServerWorld); err != nil {
			return err
		}
	case PlayTypeStreamedClient:
		if err := buildRole(b.CreateStreamedClientWorld); err != nil {
			return err
		}
	case PlayTypeThinClient:
		// Thin-client worlds are created below for every play type that
		// hosts them.
	default:
		return eris.Wrapf(ErrConfigResolution, "unknown play type %q", cfg.PlayType)
	}

	if cfg.PlayType != PlayTypeStreamedClient {
		if _, err := b.CreateThinClientWorlds(cfg.NumThinClients); err != nil {
			if !eris.Is(err, ErrRoleUnavailable) {
				return err
			}
			log.Error().Msgf("skipping thin clients: %s", eris.ToString(err, false))
		}
	}

	b.localDone = true
	return nil
}

// resumeLocal is invoked by the configuration-request behavior once the
// deployment exchange completes. It overlays the fetched snapshot onto the
// local configuration and runs local-mode setup.
func (b *Bootstrap) resumeLocal(snap depconfig.Snapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	merged, err := b.cfg.ApplySnapshot(snap)
	if err != nil {
		return eris.Wrapf(ErrConfigResolution, "%v", err)
	}
	return b.orchestrateLocal(merged)
}

// Shutdown releases resources the bootstrap itself owns. Worlds are torn
// down by the execution loop, not here.
func (b *Bootstrap) Shutdown() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.depServer != nil {
		return b.depServer.Shutdown()
	}
	return nil
}

// Config returns the resolved configuration in effect.
func (b *Bootstrap) Config() ResolvedConfig {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg
}

// Registry returns the process-wide world registry.
func (b *Bootstrap) Registry() *WorldRegistry { return b.registry }

// Worlds returns all worlds created this process start, in creation order.
func (b *Bootstrap) Worlds() []*World { return b.registry.Worlds() }

// DefaultWorld returns the default injection world, or nil if no world has
// been created yet.
func (b *Bootstrap) DefaultWorld() *World { return b.defaultWorld.Load() }

// ServerEndpoints returns the game server listen/connect endpoint pair.
// Both are zero until local-mode setup has run.
func (b *Bootstrap) ServerEndpoints() (listen, connect NetworkEndpoint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.serverListen, b.serverConnect
}

// DeploymentEndpoints returns the deployment service listen/connect endpoint
// pair. Both are zero unless deployment networking is active.
func (b *Bootstrap) DeploymentEndpoints() (listen, connect NetworkEndpoint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.deployListen, b.deployConnect
}
