package device

import "github.com/pkg/errors"

// ErrNotConnected indicates a command was issued while no session is active.
var ErrNotConnected = errors.New("not connected")

// ErrSessionTimeout indicates no datagram was received within the disconnect timeout.
var ErrSessionTimeout = errors.New("session timeout")

// ErrTransport indicates a socket-level send or receive failure.
var ErrTransport = errors.New("transport failure")
