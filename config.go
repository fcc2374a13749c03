package multiworld

import (
	"github.com/caarlos0/env/v11"
	"github.com/rotisserie/eris"

	"github.com/hexlade/multiworld/depconfig"
)

// PlayType selects which roles this process hosts.
type PlayType string

const (
	PlayTypeClient          PlayType = "Client"
	PlayTypeServer          PlayType = "Server"
	PlayTypeClientAndServer PlayType = "ClientAndServer"
	PlayTypeThinClient      PlayType = "ThinClient"
	PlayTypeStreamedClient  PlayType = "StreamedClient"
)

// StreamingRole distinguishes a process that renders locally (Host) from one
// that receives a streamed presentation (Guest).
type StreamingRole string

const (
	StreamingRoleHost  StreamingRole = "Host"
	StreamingRoleGuest StreamingRole = "Guest"
)

// ResolvedConfig holds the configuration for a process start. It is resolved
// exactly once, before orchestration begins, and treated as immutable
// afterward. Configuration can be set via environment variables with the
// specified defaults.
type ResolvedConfig struct {
	// Role selection for this process.
	PlayType PlayType `env:"MULTIWORLD_PLAY_TYPE" envDefault:"ClientAndServer"`

	// Whether this process renders locally or consumes a stream.
	StreamingRole StreamingRole `env:"MULTIWORLD_STREAMING_ROLE" envDefault:"Host"`

	// Game server network target.
	ServerHost string `env:"MULTIWORLD_SERVER_HOST" envDefault:"127.0.0.1"`
	ServerPort uint16 `env:"MULTIWORLD_SERVER_PORT" envDefault:"7979"`

	// Number of additional headless client worlds to host.
	NumThinClients int `env:"MULTIWORLD_NUM_THIN_CLIENTS" envDefault:"0"`

	// Whether client-kind worlds dial their server endpoint at startup.
	AutoConnect bool `env:"MULTIWORLD_AUTO_CONNECT" envDefault:"true"`

	// Whether a streamed guest world dials at startup. Off by default;
	// streamed sessions usually connect through the streaming host instead.
	StreamedAutoConnect bool `env:"MULTIWORLD_STREAMED_AUTO_CONNECT" envDefault:"false"`

	// Deployment flags. UseRemoteConfig defers world creation until the
	// configuration has been fetched from the deployment service;
	// IsDeploymentService makes this process the service itself.
	UseRemoteConfig     bool   `env:"MULTIWORLD_USE_REMOTE_CONFIG" envDefault:"false"`
	IsDeploymentService bool   `env:"MULTIWORLD_IS_DEPLOYMENT_SERVICE" envDefault:"false"`
	DeploymentHost      string `env:"MULTIWORLD_DEPLOYMENT_HOST" envDefault:"127.0.0.1"`
	DeploymentPort      uint16 `env:"MULTIWORLD_DEPLOYMENT_PORT" envDefault:"8989"`

	// Address of a statsd agent; metrics are disabled when empty.
	StatsdAddress string `env:"MULTIWORLD_STATSD_ADDRESS" envDefault:""`

	LogLevel string `env:"MULTIWORLD_LOG_LEVEL" envDefault:"info"`
}

// loadResolvedConfig loads the configuration from environment variables.
func loadResolvedConfig() (ResolvedConfig, error) {
	cfg := ResolvedConfig{}

	if err := env.Parse(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to parse config from environment")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate performs validation on the resolved configuration.
func (cfg *ResolvedConfig) Validate() error {
	switch cfg.PlayType {
	case PlayTypeClient, PlayTypeServer, PlayTypeClientAndServer, PlayTypeThinClient, PlayTypeStreamedClient:
	default:
		return eris.Errorf("unknown play type %q", cfg.PlayType)
	}

	switch cfg.StreamingRole {
	case StreamingRoleHost, StreamingRoleGuest:
	default:
		return eris.Errorf("unknown streaming role %q", cfg.StreamingRole)
	}

	if cfg.NumThinClients < 0 {
		return eris.Errorf("thin client count must be non-negative, got %d", cfg.NumThinClients)
	}

	if cfg.UseRemoteConfig && cfg.IsDeploymentService {
		return eris.New("a deployment service cannot also request remote configuration")
	}

	if (cfg.UseRemoteConfig || cfg.IsDeploymentService) && cfg.DeploymentHost == "" {
		return eris.New("deployment host must be set when deployment networking is active")
	}

	return nil
}

// Snapshot converts the distributable part of the configuration into the
// deployment exchange payload.
func (cfg *ResolvedConfig) Snapshot() depconfig.Snapshot {
	return depconfig.Snapshot{
		PlayType:       string(cfg.PlayType),
		StreamingRole:  string(cfg.StreamingRole),
		ServerHost:     cfg.ServerHost,
		ServerPort:     cfg.ServerPort,
		NumThinClients: cfg.NumThinClients,
		AutoConnect:    cfg.AutoConnect,
	}
}

// ApplySnapshot overlays a fetched deployment snapshot onto this
// configuration, returning the merged copy used for local-mode setup.
func (cfg ResolvedConfig) ApplySnapshot(snap depconfig.Snapshot) (ResolvedConfig, error) {
	merged := cfg
	merged.PlayType = PlayType(snap.PlayType)
	merged.StreamingRole = StreamingRole(snap.StreamingRole)
	merged.ServerHost = snap.ServerHost
	merged.ServerPort = snap.ServerPort
	merged.NumThinClients = snap.NumThinClients
	merged.AutoConnect = snap.AutoConnect

	if err := merged.Validate(); err != nil {
		return merged, eris.Wrap(err, "fetched deployment config is invalid")
	}
	return merged, nil
}
