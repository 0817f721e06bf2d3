// Package device maintains the UDP control channel to an MVN Animate engine.
//
// A connected client runs a single background session loop which owns the
// socket and performs the following steps on every iteration:
//  1. If the outbound queue is non-empty, pop the newest message, discard any
//     stale buffered inbound datagrams, send the message to the engine, and
//     dispatch every reply that arrives within the 200ms read window.
//  2. Otherwise sleep briefly to avoid busy-spinning.
//  3. If nothing has been received for longer than the disconnect timeout,
//     tear the session down and notify the host. Any socket-level error is
//     handled the same way; recovery is always a fresh Connect.
//  4. If nothing has been received for longer than the ping interval, enqueue
//     an identify probe, keeping at most one outstanding at a time.
//  5. If shutdown was requested and the queue has drained, close the socket
//     and exit.
//
// Commands (record start/stop, take name changes) are encoded up front and
// pushed onto the shared queue from the host's context. The queue drains
// newest-first, so under backlog the latest intent wins; older commands are
// never retried individually and a lost acknowledgement only surfaces
// through the inactivity timeout.
package device
