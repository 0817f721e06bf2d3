package engine

import (
	"context"
	"net"
	"strconv"
	"sync"

	"github.com/Mystfit/MVNSwitchboard/internal/pkg/wire"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// Capture is the engine's idea of the current take.
type Capture struct {
	Name string
	Take int
}

// Engine simulates the MVN Animate remote control port: it answers every
// recognized request with the matching Ack datagram and tracks recording
// state. It exists for development and integration testing.
type Engine struct {
	port uint16

	mu        sync.Mutex
	conn      *net.UDPConn
	recording bool
	session   string
	capture   Capture

	done chan struct{}
}

// Session returns the session name from the most recent start request.
func (e *Engine) Session() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

// Cfg configures an Engine.
type Cfg func(*Engine) error

// WithPort sets the UDP port to listen on. Port 0 binds an ephemeral port.
func WithPort(p uint16) Cfg {
	return func(e *Engine) error {
		e.port = p
		return nil
	}
}

// New creates a new Engine with the given configuration.
func New(cfgs ...Cfg) (*Engine, error) {
	e := &Engine{}
	for _, cfg := range cfgs {
		if err := cfg(e); err != nil {
			return nil, errors.Wrap(err, "apply Engine cfg failed")
		}
	}
	return e, nil
}

// Start binds the control port and begins answering requests in the
// background. Use Stop to shut down.
func (e *Engine) Start() error {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: int(e.port)})
	if err != nil {
		return errors.Wrapf(err, "bind control port %d failed", e.port)
	}
	done := make(chan struct{})
	e.mu.Lock()
	e.conn = conn
	e.done = done
	e.mu.Unlock()
	go e.serve(conn, done)
	logger.WithField("addr", conn.LocalAddr().String()).Info("engine listening")
	return nil
}

// Stop closes the control port and waits for the serve loop to exit.
func (e *Engine) Stop() {
	e.mu.Lock()
	conn := e.conn
	done := e.done
	e.conn = nil
	e.mu.Unlock()
	if conn == nil {
		return
	}
	_ = conn.Close()
	<-done
}

// Run starts the engine and blocks until the context is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.Start(); err != nil {
		return errors.Wrap(err, "start engine failed")
	}
	<-ctx.Done()
	e.Stop()
	return nil
}

// Port returns the bound control port. Only valid after Start.
func (e *Engine) Port() uint16 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.conn == nil {
		return 0
	}
	addr, ok := e.conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return 0
	}
	return uint16(addr.Port)
}

// Recording reports whether a recording is in progress.
func (e *Engine) Recording() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recording
}

// Capture returns the most recent take name notification.
func (e *Engine) Capture() Capture {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.capture
}

func (e *Engine) serve(conn *net.UDPConn, done chan struct{}) {
	defer close(done)
	buf := make([]byte, 4096)
	for {
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			// Closed by Stop.
			return
		}
		el, err := wire.Decode(buf[:n])
		if err != nil {
			logger.WithError(err).Warning("engine received unparseable datagram")
			continue
		}
		reply, ok := e.handleRequest(el)
		if !ok {
			logger.WithField("tag", el.Tag).Warning("engine received unknown request")
			continue
		}
		data, err := wire.Encode(reply)
		if err != nil {
			logger.WithError(err).Error("encode engine reply failed")
			continue
		}
		if _, err := conn.WriteToUDP(data, addr); err != nil {
			logger.WithError(err).Warning("send engine reply failed")
		}
	}
}

func (e *Engine) handleRequest(el wire.Element) (wire.Element, bool) {
	switch el.Tag {
	case wire.TagIdentifyReq:
		return wire.Element{Tag: wire.TagIdentifyAck, Attrs: map[string]string{}}, true
	case wire.TagStartRecordingReq:
		e.mu.Lock()
		e.recording = true
		e.session = el.Attrs["SessionName"]
		e.mu.Unlock()
		logger.WithFields(logrus.Fields{
			"session":     el.Attrs["SessionName"],
			"description": el.Attrs["Description"],
		}).Info("engine recording started")
		return wire.Element{Tag: wire.TagStartRecordingAck, Attrs: map[string]string{}}, true
	case wire.TagStopRecordingReq:
		e.mu.Lock()
		e.recording = false
		e.mu.Unlock()
		logger.Info("engine recording stopped")
		return wire.Element{Tag: wire.TagStopRecordingAck, Attrs: map[string]string{}}, true
	case wire.TagCaptureName:
		capture := Capture{}
		for _, child := range el.Children {
			switch child.Tag {
			case "Name":
				capture.Name = child.Attrs["VALUE"]
			case "Take":
				capture.Take, _ = strconv.Atoi(child.Attrs["VALUE"])
			}
		}
		e.mu.Lock()
		e.capture = capture
		e.mu.Unlock()
		return wire.Element{Tag: wire.TagCaptureNameAck, Attrs: map[string]string{}}, true
	default:
		return wire.Element{}, false
	}
}
