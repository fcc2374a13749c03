package multiworld

import (
	"testing"

	"github.com/hexlade/multiworld/assert"
	"github.com/hexlade/multiworld/depconfig"
)

func TestResolvedConfig_Defaults(t *testing.T) {
	wantCfg := ResolvedConfig{
		PlayType:            PlayTypeClientAndServer,
		StreamingRole:       StreamingRoleHost,
		ServerHost:          "127.0.0.1",
		ServerPort:          7979,
		NumThinClients:      0,
		AutoConnect:         true,
		StreamedAutoConnect: false,
		UseRemoteConfig:     false,
		IsDeploymentService: false,
		DeploymentHost:      "127.0.0.1",
		DeploymentPort:      8989,
		StatsdAddress:       "",
		LogLevel:            "info",
	}

	cfg, err := loadResolvedConfig()
	assert.NilError(t, err)
	assert.Equal(t, wantCfg, cfg)
}

func TestResolvedConfig_LoadFromEnv(t *testing.T) {
	wantCfg := ResolvedConfig{
		PlayType:            PlayTypeThinClient,
		StreamingRole:       StreamingRoleHost,
		ServerHost:          "game.internal",
		ServerPort:          7001,
		NumThinClients:      8,
		AutoConnect:         true,
		StreamedAutoConnect: false,
		UseRemoteConfig:     true,
		IsDeploymentService: false,
		DeploymentHost:      "deploy.internal",
		DeploymentPort:      9001,
		StatsdAddress:       "localhost:8125",
		LogLevel:            "debug",
	}
	t.Setenv("MULTIWORLD_PLAY_TYPE", string(wantCfg.PlayType))
	t.Setenv("MULTIWORLD_SERVER_HOST", wantCfg.ServerHost)
	t.Setenv("MULTIWORLD_SERVER_PORT", "7001")
	t.Setenv("MULTIWORLD_NUM_THIN_CLIENTS", "8")
	t.Setenv("MULTIWORLD_USE_REMOTE_CONFIG", "true")
	t.Setenv("MULTIWORLD_DEPLOYMENT_HOST", wantCfg.DeploymentHost)
	t.Setenv("MULTIWORLD_DEPLOYMENT_PORT", "9001")
	t.Setenv("MULTIWORLD_STATSD_ADDRESS", wantCfg.StatsdAddress)
	t.Setenv("MULTIWORLD_LOG_LEVEL", wantCfg.LogLevel)

	gotCfg, err := loadResolvedConfig()
	assert.NilError(t, err)

	assert.Equal(t, wantCfg, gotCfg)
}

func TestResolvedConfig_Validate(t *testing.T) {
	valid := func() ResolvedConfig {
		return ResolvedConfig{
			PlayType:       PlayTypeClientAndServer,
			StreamingRole:  StreamingRoleHost,
			ServerHost:     "127.0.0.1",
			ServerPort:     7979,
			DeploymentHost: "127.0.0.1",
			DeploymentPort: 8989,
		}
	}

	testCases := []struct {
		name    string
		mutate  func(cfg *ResolvedConfig)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(*ResolvedConfig) {},
			wantErr: false,
		},
		{
			name:    "unknown play type",
			mutate:  func(cfg *ResolvedConfig) { cfg.PlayType = "Spectator" },
			wantErr: true,
		},
		{
			name:    "unknown streaming role",
			mutate:  func(cfg *ResolvedConfig) { cfg.StreamingRole = "Observer" },
			wantErr: true,
		},
		{
			name:    "negative thin client count",
			mutate:  func(cfg *ResolvedConfig) { cfg.NumThinClients = -1 },
			wantErr: true,
		},
		{
			name: "deployment service cannot also request remote config",
			mutate: func(cfg *ResolvedConfig) {
				cfg.UseRemoteConfig = true
				cfg.IsDeploymentService = true
			},
			wantErr: true,
		},
		{
			name: "remote config requires a deployment host",
			mutate: func(cfg *ResolvedConfig) {
				cfg.UseRemoteConfig = true
				cfg.DeploymentHost = ""
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.IsError(t, err)
			} else {
				assert.NilError(t, err)
			}
		})
	}
}

func TestResolvedConfig_SnapshotRoundTrip(t *testing.T) {
	cfg := ResolvedConfig{
		PlayType:       PlayTypeClient,
		StreamingRole:  StreamingRoleHost,
		ServerHost:     "10.0.0.5",
		ServerPort:     7001,
		NumThinClients: 3,
		AutoConnect:    true,
		DeploymentHost: "127.0.0.1",
		DeploymentPort: 8989,
	}

	base := ResolvedConfig{
		PlayType:       PlayTypeServer,
		StreamingRole:  StreamingRoleHost,
		ServerHost:     "127.0.0.1",
		ServerPort:     1,
		DeploymentHost: "127.0.0.1",
		DeploymentPort: 8989,
		LogLevel:       "warn",
	}
	merged, err := base.ApplySnapshot(cfg.Snapshot())
	assert.NilError(t, err)

	assert.Equal(t, cfg.PlayType, merged.PlayType)
	assert.Equal(t, cfg.ServerHost, merged.ServerHost)
	assert.Equal(t, cfg.ServerPort, merged.ServerPort)
	assert.Equal(t, cfg.NumThinClients, merged.NumThinClients)
	// Local-only settings are not distributed and must survive the merge.
	assert.Equal(t, "warn", merged.LogLevel)
}

func TestResolvedConfig_ApplySnapshotRejectsInvalid(t *testing.T) {
	base := ResolvedConfig{
		PlayType:       PlayTypeServer,
		StreamingRole:  StreamingRoleHost,
		ServerHost:     "127.0.0.1",
		DeploymentHost: "127.0.0.1",
	}
	_, err := base.ApplySnapshot(depconfig.Snapshot{PlayType: "Bogus", StreamingRole: "Host"})
	assert.IsError(t, err)
}
