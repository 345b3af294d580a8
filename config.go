package stratum

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

const (
	// DefaultPort is the binary RPC port of a Stratum server.
	DefaultPort = 9160
	// DefaultTimeout bounds the connect-authenticate-select startup sequence.
	DefaultTimeout = 4 * time.Second
)

// Config defines the configuration for a connection.
type Config struct {
	// Host is the Stratum server host. It may carry an embedded port in the
	// "host:port" form, which is used when Port is zero.
	Host string
	// Port is the binary RPC port of the server. Defaults to DefaultPort.
	Port int
	// User and Password are optional credentials. When both are empty the
	// connection skips the login call entirely.
	User     string
	Password string
	// Keyspace, when set, is selected right after authentication succeeds.
	Keyspace string
	// Timeout bounds the startup sequence driven by Connect.
	// Defaults to DefaultTimeout.
	Timeout time.Duration
	// NewTransport builds the transport for each Connect attempt. This is the
	// integration point for the generated wire codec.
	NewTransport TransportFactory
}

// normalize resolves defaults and splits an embedded "host:port" form.
// The receiver is left untouched.
func (cfg *Config) normalize() (*Config, error) {
	out := *cfg
	if out.Host == "" {
		return nil, errors.New("stratum: host is required")
	}
	if host, portStr, err := net.SplitHostPort(out.Host); err == nil && out.Port == 0 {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("stratum: invalid port in host %q: %w", cfg.Host, err)
		}
		out.Host, out.Port = host, port
	}
	if out.Port == 0 {
		out.Port = DefaultPort
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	return &out, nil
}
