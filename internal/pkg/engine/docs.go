// Package engine implements a loopback stand-in for the MVN Animate remote
// control port.
//
// The simulator performs the following steps:
//  1. Binds the configured UDP port (6004 by default, 0 for ephemeral).
//  2. Decodes each incoming datagram as a single protocol element.
//  3. Answers IdentifyReq, StartRecordingReq, StopRecordingReq and
//     CaptureName with their matching Ack datagrams, sent back to the
//     requester's source address.
//  4. Tracks recording state and the most recent take name so tests can
//     assert on what the "engine" saw.
//
// Unknown or unparseable requests are logged and ignored; the simulator
// never replies to them, which conveniently exercises the client's
// inactivity handling.
package engine
