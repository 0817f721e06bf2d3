package device

import (
	"net"
	"time"

	"github.com/Mystfit/MVNSwitchboard/internal/pkg/dispatch"
	"github.com/Mystfit/MVNSwitchboard/internal/pkg/log"
	"github.com/Mystfit/MVNSwitchboard/internal/pkg/metric"
	"github.com/Mystfit/MVNSwitchboard/internal/pkg/wire"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const recvBufferSize = 4096

// run is the session loop. It is the only goroutine permitted to touch the
// socket after Connect, and it exits on inactivity timeout, transport error
// or requested shutdown.
func (c *Client) run() {
	// Capture this session's channels so a fast reconnect cannot swap
	// them out from under the exiting loop.
	done := c.done
	shutdown := c.shutdown
	defer close(done)
	sessionLog := logger.WithFields(log.SessionFields(c.sessionID, c.remote.String()))
	sessionLog.Info("session loop started")

	for {
		if msg, ok := c.queue.PopNewest(); ok {
			if err := c.exchange(sessionLog, msg); err != nil {
				c.fail(sessionLog, err)
				return
			}
		} else {
			time.Sleep(c.timings.IdleSleep)
		}

		idle := time.Since(c.lastActivity)
		if idle > c.timings.DisconnectTimeout {
			c.fail(sessionLog, errors.Wrapf(ErrSessionTimeout, "no activity for %s", idle))
			return
		}
		if idle > c.timings.PingInterval {
			c.sendIdentify(sessionLog)
		}

		select {
		case <-shutdown:
			if c.queue.Len() == 0 {
				c.closeSocket()
				sessionLog.Info("session loop stopped")
				return
			}
		default:
		}
	}
}

// exchange sends one queued message and dispatches every datagram that
// arrives within the read timeout. Stale inbound datagrams buffered before
// the send are discarded first, so replies to a superseded request are
// never processed.
func (c *Client) exchange(sessionLog logrus.FieldLogger, msg []byte) error {
	c.flushInbound()

	if _, err := c.conn.WriteToUDP(msg, c.remote); err != nil {
		return errors.Wrapf(ErrTransport, "send failed: %v", err)
	}
	c.count(func(m *metric.LinkMetrics) prometheus.Counter { return m.DatagramsSent })

	deadline := time.Now().Add(c.timings.ReadTimeout)
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return errors.Wrapf(ErrTransport, "set read deadline failed: %v", err)
	}
	buf := make([]byte, recvBufferSize)
	for {
		n, _, err := c.conn.ReadFromUDP(buf)
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				// No reply within the window; liveness is judged by
				// the inactivity timeout, not per send.
				return nil
			}
			return errors.Wrapf(ErrTransport, "receive failed: %v", err)
		}
		c.lastActivity = time.Now()
		c.count(func(m *metric.LinkMetrics) prometheus.Counter { return m.DatagramsReceived })
		c.handle(sessionLog, buf[:n])
		if !time.Now().Before(deadline) {
			return nil
		}
	}
}

// flushDeadline bounds the drain of already-buffered datagrams. It must be
// positive: an expired deadline makes ReadFromUDP fail without consuming
// anything from the receive buffer.
const flushDeadline = time.Millisecond

// flushInbound discards any already-buffered inbound datagrams by reading
// until the receive buffer is empty. The flushed data never reaches the
// dispatcher and does not count as activity.
func (c *Client) flushInbound() {
	if err := c.conn.SetReadDeadline(time.Now().Add(flushDeadline)); err != nil {
		return
	}
	buf := make([]byte, recvBufferSize)
	for {
		if _, _, err := c.conn.ReadFromUDP(buf); err != nil {
			return
		}
	}
}

// handle decodes one datagram and applies the response's side effects.
// Malformed or unrecognized datagrams are logged and dropped; they never
// terminate the session.
func (c *Client) handle(sessionLog logrus.FieldLogger, data []byte) {
	el, err := wire.Decode(data)
	if err != nil {
		c.count(func(m *metric.LinkMetrics) prometheus.Counter { return m.DecodeFailures })
		sessionLog.WithError(err).Error("could not parse engine message")
		return
	}
	switch dispatch.Classify(el).(type) {
	case dispatch.IdentifyAck:
		c.awaitingIdentify = false
		c.mu.Lock()
		if c.state == Connected {
			c.setStateLocked(Ready)
		}
		c.mu.Unlock()
		sessionLog.WithFields(log.ElementFields(el)).Debug("engine identify response")
	case dispatch.StartRecordingAck:
		if c.cb.RecordStartConfirmed != nil {
			c.cb.RecordStartConfirmed(timecode(time.Now()))
		}
	case dispatch.StopRecordingAck:
		if c.cb.RecordStopConfirmed != nil {
			c.cb.RecordStopConfirmed(timecode(time.Now()), nil)
		}
	case dispatch.CaptureNameAck:
		sessionLog.WithFields(log.ElementFields(el)).Info("engine acknowledged take name")
	case dispatch.Unknown:
		c.count(func(m *metric.LinkMetrics) prometheus.Counter { return m.UnknownResponses })
		sessionLog.WithField("tag", el.Tag).Error("no handler for engine response")
	}
}

// sendIdentify enqueues an identify probe unless one is already outstanding.
func (c *Client) sendIdentify(sessionLog logrus.FieldLogger) {
	if c.awaitingIdentify {
		return
	}
	msg, err := wire.Encode(wire.IdentifyReq())
	if err != nil {
		sessionLog.WithError(err).Error("encode identify probe failed")
		return
	}
	c.awaitingIdentify = true
	c.queue.Push(msg)
}

// fail tears the session down after a fatal error and notifies the host.
func (c *Client) fail(sessionLog logrus.FieldLogger, err error) {
	sessionLog.WithError(err).Warning("disconnecting")
	c.count(func(m *metric.LinkMetrics) prometheus.Counter { return m.Disconnects })
	c.closeSocket()
	c.notifyDisconnected()
}

func (c *Client) closeSocket() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.setStateLocked(Disconnected)
}

// count increments a link counter when metrics are attached.
func (c *Client) count(sel func(*metric.LinkMetrics) prometheus.Counter) {
	if c.metrics != nil {
		sel(c.metrics).Inc()
	}
}
