package wire

import "github.com/pkg/errors"

// ErrMalformedMessage indicates a received datagram is not a single well-formed element.
var ErrMalformedMessage = errors.New("malformed message")

// ErrEncoding indicates a command could not be represented as a wire element.
var ErrEncoding = errors.New("encoding failed")
