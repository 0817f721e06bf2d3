package device

import (
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/Mystfit/MVNSwitchboard/internal/pkg/metric"
	"github.com/Mystfit/MVNSwitchboard/internal/pkg/queue"
	"github.com/Mystfit/MVNSwitchboard/internal/pkg/wire"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// DefaultRemotePort is the engine's remote control port.
const DefaultRemotePort = 6004

// Timings holds the session loop's timing policy.
type Timings struct {
	// ReadTimeout bounds the wait for a reply after each send.
	ReadTimeout time.Duration
	// IdleSleep is how long the loop sleeps when the queue is empty.
	IdleSleep time.Duration
	// PingInterval is the inactivity threshold after which an identify
	// probe is enqueued.
	PingInterval time.Duration
	// DisconnectTimeout is the inactivity threshold after which the
	// session is torn down.
	DisconnectTimeout time.Duration
}

// DefaultTimings returns the production timing policy.
func DefaultTimings() Timings {
	return Timings{
		ReadTimeout:       200 * time.Millisecond,
		IdleSleep:         10 * time.Millisecond,
		PingInterval:      time.Second,
		DisconnectTimeout: 3 * time.Second,
	}
}

// Callbacks are invoked by the client toward the host application.
// All callbacks fire on the session loop goroutine except OnConnected,
// which fires on the Connect caller, and OnDisconnected after a clean
// Disconnect, which fires on the Disconnect caller.
type Callbacks struct {
	OnConnected          func()
	OnDisconnected       func()
	RecordStartConfirmed func(timecode string)
	RecordStopConfirmed  func(timecode string, paths []string)
}

// Client maintains the control channel to a remote engine. Commands are
// queued by host-side callers and drained by a single background session
// loop, which owns the socket for the lifetime of the connection.
type Client struct {
	remoteIP   string
	remotePort uint16
	timings    Timings
	cb         Callbacks
	metrics    *metric.LinkMetrics

	queue *queue.Queue

	mu        sync.Mutex
	conn      *net.UDPConn
	remote    *net.UDPAddr
	state     State
	notified  bool
	shutdown  chan struct{}
	done      chan struct{}
	sessionID uuid.UUID

	// Owned by the session loop once it starts.
	lastActivity     time.Time
	awaitingIdentify bool
}

// Cfg configures a Client.
type Cfg func(*Client) error

// WithRemoteAddr sets the engine's IP address.
func WithRemoteAddr(ip string) Cfg {
	return func(c *Client) error {
		c.remoteIP = ip
		return nil
	}
}

// WithRemotePort sets the engine's remote control port.
func WithRemotePort(p uint16) Cfg {
	return func(c *Client) error {
		c.remotePort = p
		return nil
	}
}

// WithCallbacks sets the host callbacks.
func WithCallbacks(cb Callbacks) Cfg {
	return func(c *Client) error {
		c.cb = cb
		return nil
	}
}

// WithTimings overrides the timing policy.
func WithTimings(t Timings) Cfg {
	return func(c *Client) error {
		c.timings = t
		return nil
	}
}

// WithMetrics attaches link metrics to the client.
func WithMetrics(m *metric.LinkMetrics) Cfg {
	return func(c *Client) error {
		c.metrics = m
		return nil
	}
}

// NewClient creates a new Client with the given configuration.
func NewClient(cfgs ...Cfg) (*Client, error) {
	client := &Client{
		remoteIP:   "127.0.0.1",
		remotePort: DefaultRemotePort,
		timings:    DefaultTimings(),
		queue:      queue.New(),
	}
	for _, cfg := range cfgs {
		if err := cfg(client); err != nil {
			return nil, errors.Wrap(err, "apply Client cfg failed")
		}
	}
	return client, nil
}

// Connect binds an ephemeral local UDP endpoint, resets session state and
// starts the session loop. It is a no-op when already connected. An
// identify probe is enqueued before the loop starts so that the first send
// announces the client to the engine.
func (c *Client) Connect() error {
	c.mu.Lock()
	if c.conn != nil {
		c.mu.Unlock()
		return nil
	}
	c.setStateLocked(Connecting)
	remote, err := net.ResolveUDPAddr("udp", net.JoinHostPort(c.remoteIP, strconv.Itoa(int(c.remotePort))))
	if err != nil {
		c.setStateLocked(Disconnected)
		c.mu.Unlock()
		return errors.Wrapf(err, "resolve engine address %s failed", c.remoteIP)
	}
	conn, err := net.ListenUDP("udp", &net.UDPAddr{})
	if err != nil {
		c.setStateLocked(Disconnected)
		c.mu.Unlock()
		return errors.Wrap(err, "bind local endpoint failed")
	}

	probe, err := wire.Encode(wire.IdentifyReq())
	if err != nil {
		_ = conn.Close()
		c.setStateLocked(Disconnected)
		c.mu.Unlock()
		return errors.Wrap(err, "encode identify probe failed")
	}

	c.conn = conn
	c.remote = remote
	c.sessionID = uuid.New()
	c.notified = false
	c.shutdown = make(chan struct{})
	c.done = make(chan struct{})
	c.queue.Reset()
	c.lastActivity = time.Now()
	c.awaitingIdentify = true
	c.queue.Push(probe)
	c.setStateLocked(Connected)
	go c.run()
	c.mu.Unlock()

	if c.cb.OnConnected != nil {
		c.cb.OnConnected()
	}
	return nil
}

// Disconnect requests shutdown and blocks until the session loop has
// exited, then reports the disconnected state to the host. It is a no-op
// when not connected.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	// A fatal teardown releases the socket before the loop goroutine
	// returns, so join on done even when conn is already gone.
	done := c.done
	if done == nil {
		c.mu.Unlock()
		return nil
	}
	if c.conn != nil && c.state != Disconnecting {
		c.setStateLocked(Disconnecting)
		close(c.shutdown)
	}
	c.mu.Unlock()

	<-done
	c.notifyDisconnected()
	return nil
}

// IsConnected reports whether a socket is currently held.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// State returns the current session state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// RecordStart asks the engine to start recording a take. The take number
// is not part of the start request; it travels via SetTake.
func (c *Client) RecordStart(slate string, take int, description string) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}
	logger.WithFields(logrus.Fields{
		"slate": slate,
		"take":  take,
	}).Info("starting engine recording")
	msg, err := wire.Encode(wire.StartRecordingReq(slate, description))
	if err != nil {
		return errors.Wrap(err, "encode start recording request failed")
	}
	c.queue.Push(msg)
	return nil
}

// RecordStop asks the engine to stop the active recording.
func (c *Client) RecordStop() error {
	if !c.IsConnected() {
		return ErrNotConnected
	}
	logger.Info("stopping engine recording")
	msg, err := wire.Encode(wire.StopRecordingReq())
	if err != nil {
		return errors.Wrap(err, "encode stop recording request failed")
	}
	c.queue.Push(msg)
	return nil
}

// SetTake notifies the engine that the slate name or take number changed.
func (c *Client) SetTake(name string, number int) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}
	msg, err := wire.Encode(wire.CaptureName(name, number))
	if err != nil {
		return errors.Wrap(err, "encode capture name failed")
	}
	c.queue.Push(msg)
	return nil
}

// setStateLocked updates the session state. Callers must hold c.mu.
func (c *Client) setStateLocked(s State) {
	c.state = s
	if c.metrics != nil {
		c.metrics.ConnectionState.Set(float64(s))
	}
}

// notifyDisconnected fires OnDisconnected at most once per session.
func (c *Client) notifyDisconnected() {
	c.mu.Lock()
	already := c.notified
	c.notified = true
	c.mu.Unlock()
	if already {
		return
	}
	if c.cb.OnDisconnected != nil {
		c.cb.OnDisconnected()
	}
}

// timecode formats t as HH:MM:SS:FF at 30 frames per second.
func timecode(t time.Time) string {
	frame := int(time.Duration(t.Nanosecond()) * 30 / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second(), frame)
}
