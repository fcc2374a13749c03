package multiworld

import (
	"net"
	"net/netip"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// wildcardHost is the bind address used by anything acting as a server.
const wildcardHost = "0.0.0.0"

// NetworkEndpoint is a host/port pair. Listen endpoints bind the wildcard
// address; connect endpoints target a specific host. Both flavors for the
// same logical service always share the same port.
type NetworkEndpoint struct {
	Host string
	Port uint16
}

// Addr returns the endpoint in host:port form.
func (e NetworkEndpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(int(e.Port)))
}

func (e NetworkEndpoint) String() string {
	return e.Addr()
}

// IsZero reports whether the endpoint has not been populated.
func (e NetworkEndpoint) IsZero() bool {
	return e.Host == "" && e.Port == 0
}

// BuildEndpoints derives the listen/connect endpoint pair for a logical
// service from its configured host and port. The listen endpoint always binds
// the wildcard address; the connect endpoint targets host:port. host must be
// an IP address or a plausible hostname; there is no fallback address, so an
// unparseable host is fatal to every role depending on the pair.
func BuildEndpoints(host string, port uint16) (listen, connect NetworkEndpoint, err error) {
	if err := validateHost(host); err != nil {
		return NetworkEndpoint{}, NetworkEndpoint{}, err
	}
	listen = NetworkEndpoint{Host: wildcardHost, Port: port}
	connect = NetworkEndpoint{Host: host, Port: port}
	return listen, connect, nil
}

func validateHost(host string) error {
	if host == "" {
		return eris.Wrap(ErrAddressParse, "host must not be empty")
	}
	if _, err := netip.ParseAddr(host); err == nil {
		return nil
	}
	if !isPlausibleHostname(host) {
		return eris.Wrapf(ErrAddressParse, "host %q is neither an IP address nor a hostname", host)
	}
	return nil
}

// isPlausibleHostname applies RFC 952/1123 syntax without resolving the name;
// actual resolution happens when a connect behavior dials.
func isPlausibleHostname(host string) bool {
	if len(host) > 253 {
		return false
	}
	for _, label := range strings.Split(host, ".") {
		if label == "" || len(label) > 63 {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for _, r := range label {
			switch {
			case r >= 'a' && r <= 'z':
			case r >= 'A' && r <= 'Z':
			case r >= '0' && r <= '9':
			case r == '-':
			default:
				return false
			}
		}
	}
	return true
}
