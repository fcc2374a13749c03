package multiworld

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/hexlade/multiworld/depconfig"
	"github.com/hexlade/multiworld/system"
)

// DeploymentMode selects which side of the configuration exchange the
// deployment world runs.
type DeploymentMode string

const (
	// RequestConfig dials the deployment service, fetches the configuration,
	// and re-enters local-mode setup once it resolves.
	RequestConfig DeploymentMode = "RequestConfig"
	// ServeConfig answers configuration requests from other processes.
	ServeConfig DeploymentMode = "ServeConfig"
)

// Stable IDs of the behaviors the deployment world builder appends.
const (
	ConfigRequestSystemID     system.ID = "deployment.config_request"
	ConfigServeSystemID       system.ID = "deployment.config_serve"
	SceneGUIDSystemID         system.ID = "deployment.scene_guid"
	ConnectionMonitorSystemID system.ID = "deployment.connection_monitor"
)

const configFetchTimeout = 30 * time.Second

// CreateDeploymentWorld builds the deployment world for mode. Orchestrate
// calls this itself when deployment networking is active; it is exported for
// hosts that drive the exchange manually. At most one deployment world exists
// per process start.
func (b *Bootstrap) CreateDeploymentWorld(mode DeploymentMode) (*World, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if w := b.deploymentWorld.Load(); w != nil {
		return w, nil
	}
	return b.createDeploymentWorld(mode)
}

// createDeploymentWorld builds the sole world of a deployment-mode startup:
// the deployment package catalog with every builtin configure system removed
// unconditionally, plus the request-or-serve behavior for mode, a scene/GUID
// management behavior, and a connection monitor. Endpoint state is derived
// first; an unparseable deployment host fails before any world exists.
// Callers hold b.mu.
func (b *Bootstrap) createDeploymentWorld(mode DeploymentMode) (*World, error) {
	listen, connect, err := BuildEndpoints(b.cfg.DeploymentHost, b.cfg.DeploymentPort)
	if err != nil {
		return nil, eris.Wrapf(err, "cannot derive deployment endpoints from %q", b.cfg.DeploymentHost)
	}
	b.deployListen = listen
	b.deployConnect = connect

	catalog, err := b.engine.GetCatalog(system.SimulationDeployment)
	if err != nil {
		return nil, eris.Wrapf(ErrCatalogRetrieval, "no deployment catalog: %v", err)
	}

	var kind WorldKind
	filtered := FilterCatalog(catalog, "", false, NetworkEndpoint{})
	switch mode {
	case RequestConfig:
		kind = WorldKindDeploymentClient
		filtered = append(filtered, b.configRequestEntry())
	case ServeConfig:
		kind = WorldKindDeploymentServer
		b.depServer = depconfig.NewServer(b.deployListen.Addr(), b.cfg.Snapshot())
		filtered = append(filtered, b.configServeEntry())
	default:
		return nil, eris.Errorf("unknown deployment mode %q", mode)
	}
	filtered = append(filtered, sceneGUIDEntry(), connectionMonitorEntry())

	w, err := b.createWorld("deployment", kind, b.engine.Sort(filtered))
	if err != nil {
		return nil, err
	}
	b.deploymentWorld.Store(w)
	return w, nil
}

// configRequestEntry fetches the configuration from the deployment connect
// endpoint on the deployment world's first tick, then re-enters local-mode
// setup with the result. A fetch failure is returned, not retried; this is a
// one-shot startup procedure.
func (b *Bootstrap) configRequestEntry() system.Entry {
	client := depconfig.NewClient(b.deployConnect.Addr())
	var done atomic.Bool
	return system.Entry{
		ID:    ConfigRequestSystemID,
		Name:  "RequestConfigurationSystem",
		Stage: system.StageNetwork,
		Run: func(ctx system.Context) error {
			if done.Load() {
				return nil
			}
			fetchCtx, cancel := context.WithTimeout(context.Background(), configFetchTimeout)
			defer cancel()

			snap, err := client.Fetch(fetchCtx)
			if err != nil {
				return eris.Wrap(err, "failed to fetch deployment configuration")
			}
			done.Store(true)
			ctx.Logger.Info().
				Str("play_type", snap.PlayType).
				Str("server", snap.ServerHost).
				Msg("deployment configuration resolved")
			return b.resumeLocal(snap)
		},
	}
}

// configServeEntry starts the configuration server on the deployment listen
// endpoint the first time the deployment world ticks.
func (b *Bootstrap) configServeEntry() system.Entry {
	srv := b.depServer
	addr := b.deployListen.Addr()
	var once sync.Once
	return system.Entry{
		ID:    ConfigServeSystemID,
		Name:  "ServeConfigurationSystem",
		Stage: system.StageNetwork,
		Run: func(ctx system.Context) error {
			once.Do(func() {
				srv.Start()
				ctx.Logger.Info().Str("addr", addr).Msg("serving deployment configuration")
			})
			return nil
		},
	}
}

// sceneGUIDEntry assigns stable GUIDs to the scene sections the deployment
// world manages.
func sceneGUIDEntry() system.Entry {
	var once sync.Once
	guids := make(map[string]uuid.UUID)
	return system.Entry{
		ID:    SceneGUIDSystemID,
		Name:  "SceneGUIDManagementSystem",
		Stage: system.StageStartup,
		Run: func(ctx system.Context) error {
			once.Do(func() {
				for _, section := range []string{"boot", "deployment"} {
					guids[section] = uuid.New()
				}
				ctx.Logger.Debug().Int("sections", len(guids)).Msg("scene GUIDs assigned")
			})
			return nil
		},
	}
}

const connectionMonitorInterval = 60

// connectionMonitorEntry emits a periodic heartbeat so operators can see the
// deployment world is alive while the exchange is pending.
func connectionMonitorEntry() system.Entry {
	return system.Entry{
		ID:    ConnectionMonitorSystemID,
		Name:  "ConnectionMonitorSystem",
		Stage: system.StagePresentation,
		Run: func(ctx system.Context) error {
			if ctx.Tick%connectionMonitorInterval == 0 {
				ctx.Logger.Debug().Uint64("tick", ctx.Tick).Msg("connection monitor heartbeat")
			}
			return nil
		},
	}
}
