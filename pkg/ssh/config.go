package ssh

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// DefaultPort is used when a connection string does not name a port
const DefaultPort = "22"

// Descriptor describes where and as whom to connect.
// It is built once at login and not modified for the rest of the session.
type Descriptor struct {
	Host     string
	Port     string
	Username string
	Password string // supplied separately, never parsed from the connection string
}

// Valid reports whether the descriptor names a host
func (d Descriptor) Valid() bool {
	return d.Host != ""
}

// Validate checks that the descriptor can be dialed
func (d Descriptor) Validate() error {
	if !d.Valid() {
		return errors.New("host is required")
	}
	port, err := strconv.Atoi(d.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port number: %q", d.Port)
	}
	return nil
}

// Address returns host:port suitable for net.Dial
func (d Descriptor) Address() string {
	return net.JoinHostPort(d.Host, d.Port)
}

// ConnectionID returns a unique identifier for this connection
func (d Descriptor) ConnectionID() string {
	return fmt.Sprintf("%s@%s:%s", d.Username, d.Host, d.Port)
}

// WithPassword returns a copy of d carrying password
func (d Descriptor) WithPassword(password string) Descriptor {
	d.Password = password
	return d
}
