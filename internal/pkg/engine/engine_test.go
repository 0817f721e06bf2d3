package engine

import (
	"net"
	"testing"
	"time"

	"github.com/Mystfit/MVNSwitchboard/internal/pkg/wire"

	"github.com/stretchr/testify/require"
)

func startEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := New(WithPort(0))
	require.NoError(t, err)
	require.NoError(t, eng.Start())
	t.Cleanup(eng.Stop)
	return eng
}

// exchange sends one request and returns the decoded reply, or times out.
func exchange(t *testing.T, port uint16, req wire.Element) wire.Element {
	t.Helper()
	conn, err := net.DialUDP("udp", nil, &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: int(port)})
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	data, err := wire.Encode(req)
	require.NoError(t, err)
	_, err = conn.Write(data)
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	reply, err := wire.Decode(buf[:n])
	require.NoError(t, err)
	return reply
}

func TestIdentifyIsAcknowledged(t *testing.T) {
	eng := startEngine(t)
	reply := exchange(t, eng.Port(), wire.IdentifyReq())
	require.Equal(t, wire.TagIdentifyAck, reply.Tag)
}

func TestStartStopRecording(t *testing.T) {
	eng := startEngine(t)

	reply := exchange(t, eng.Port(), wire.StartRecordingReq("sceneA", "rehearsal"))
	require.Equal(t, wire.TagStartRecordingAck, reply.Tag)
	require.True(t, eng.Recording())

	reply = exchange(t, eng.Port(), wire.StopRecordingReq())
	require.Equal(t, wire.TagStopRecordingAck, reply.Tag)
	require.False(t, eng.Recording())
}

func TestCaptureNameIsTracked(t *testing.T) {
	eng := startEngine(t)
	reply := exchange(t, eng.Port(), wire.CaptureName("sceneB", 12))
	require.Equal(t, wire.TagCaptureNameAck, reply.Tag)
	require.Equal(t, Capture{Name: "sceneB", Take: 12}, eng.Capture())
}

func TestUnknownRequestGetsNoReply(t *testing.T) {
	eng := startEngine(t)
	conn, err := net.DialUDP("udp", nil, &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: int(eng.Port())})
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	data, err := wire.Encode(wire.Element{Tag: "RebootReq", Attrs: map[string]string{}})
	require.NoError(t, err)
	_, err = conn.Write(data)
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	buf := make([]byte, 4096)
	_, err = conn.Read(buf)
	var ne net.Error
	require.ErrorAs(t, err, &ne)
	require.True(t, ne.Timeout())
}
