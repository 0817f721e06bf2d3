package apps

import (
	"context"
	"testing"
	"time"

	"github.com/Mystfit/MVNSwitchboard/internal/pkg/engine"

	"github.com/stretchr/testify/require"
)

func TestControlAppRecordsATake(t *testing.T) {
	eng, err := engine.New(engine.WithPort(0))
	require.NoError(t, err)
	require.NoError(t, eng.Start())
	defer eng.Stop()

	app := &ControlApp{
		RemoteIP:    "127.0.0.1",
		RemotePort:  eng.Port(),
		Slate:       "sceneA",
		Take:        3,
		Description: "apps integration",
		RecordFor:   300 * time.Millisecond,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	require.NoError(t, app.Run(ctx, nil))

	require.False(t, eng.Recording())
	require.Equal(t, "sceneA", eng.Session())
	require.Equal(t, engine.Capture{Name: "sceneA", Take: 3}, eng.Capture())
}

func TestNewControlAppRejectsMissingAddress(t *testing.T) {
	_, err := NewControlApp()
	require.Error(t, err)
}
