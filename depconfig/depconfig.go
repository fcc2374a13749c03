// Package depconfig implements the deployment configuration exchange: a
// deployment service serves the resolved game configuration over HTTP, and
// processes started with remote configuration fetch it before building their
// simulation worlds.
package depconfig

// Snapshot is the wire payload of the exchange. It carries only the values a
// deployment service distributes; local-only settings (log level, metrics
// address, deployment flags themselves) never travel.
type Snapshot struct {
	PlayType       string `json:"playType"`
	StreamingRole  string `json:"streamingRole"`
	ServerHost     string `json:"serverHost"`
	ServerPort     uint16 `json:"serverPort"`
	NumThinClients int    `json:"numThinClients"`
	AutoConnect    bool   `json:"autoConnect"`
}

const (
	// ConfigPath is the route the deployment service serves the snapshot on.
	ConfigPath = "/deployment/config"
	// HealthPath reports liveness of the deployment service.
	HealthPath = "/health"
)
