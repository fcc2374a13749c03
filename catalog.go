package multiworld

import (
	"net"
	"sync"
	"time"

	"github.com/rotisserie/eris"

	"github.com/hexlade/multiworld/system"
)

// WorldKind is the role an isolated execution context plays.
type WorldKind string

const (
	WorldKindGameClient       WorldKind = "GameClient"
	WorldKindGameServer       WorldKind = "GameServer"
	WorldKindGameThinClient   WorldKind = "GameThinClient"
	WorldKindDeploymentClient WorldKind = "DeploymentClient"
	WorldKindDeploymentServer WorldKind = "DeploymentServer"
	// WorldKindGame is the streamed-guest world: a generic game context whose
	// catalog is hand-picked rather than drawn from the engine registry.
	WorldKindGame WorldKind = "Game"
)

// simulationKind maps a world kind to the catalog it draws systems from.
func (k WorldKind) simulationKind() (system.SimulationKind, error) {
	switch k {
	case WorldKindGameClient:
		return system.SimulationClient, nil
	case WorldKindGameServer:
		return system.SimulationServer, nil
	case WorldKindGameThinClient:
		return system.SimulationThinClient, nil
	case WorldKindDeploymentClient, WorldKindDeploymentServer:
		return system.SimulationDeployment, nil
	}
	return "", eris.Errorf("world kind %q has no registry catalog", k)
}

const autoConnectTimeout = 5 * time.Second

// FilterCatalog removes the builtin generic world-configuration systems from
// a catalog. The bootstrap wires each role's networking explicitly, so the
// generic behaviors must never run or the configuration would be applied
// twice. Removal matches stable IDs, never display names. If autoConnect is
// set, a single auto-connect behavior targeting connect is appended after
// removal. A catalog that already lacks the builtins passes through
// untouched apart from the append.
//
// The returned sequence is not in execution order; callers re-sort it via the
// engine before attaching it to a world.
func FilterCatalog(catalog []system.Entry, kind WorldKind, autoConnect bool, connect NetworkEndpoint) []system.Entry {
	filtered := make([]system.Entry, 0, len(catalog)+1)
	for _, entry := range catalog {
		if system.IsBuiltinConfigure(entry.ID) {
			continue
		}
		filtered = append(filtered, entry)
	}
	if autoConnect {
		filtered = append(filtered, autoConnectEntry(kind, connect))
	}
	return filtered
}

// AutoConnectSystemID is the stable ID of the auto-connect behavior appended
// by FilterCatalog.
const AutoConnectSystemID system.ID = "network.auto_connect"

// autoConnectEntry returns a behavior that dials the configured server
// endpoint on the world's first tick and keeps the connection for the life of
// the process. Dial failures are logged, not fatal; the game's transport
// layer owns reconnection.
func autoConnectEntry(kind WorldKind, connect NetworkEndpoint) system.Entry {
	var (
		once sync.Once
		conn net.Conn
	)
	return system.Entry{
		ID:    AutoConnectSystemID,
		Name:  "AutoConnectSystem",
		Stage: system.StageNetwork,
		Run: func(ctx system.Context) error {
			once.Do(func() {
				c, err := net.DialTimeout("tcp", connect.Addr(), autoConnectTimeout)
				if err != nil {
					ctx.Logger.Warn().Str("addr", connect.Addr()).Err(err).
						Msgf("auto-connect for %s world failed", kind)
					return
				}
				conn = c
				ctx.Logger.Info().Str("addr", connect.Addr()).Msg("auto-connected to server")
			})
			_ = conn // held open for the life of the process
			return nil
		},
	}
}
