package main_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Mystfit/MVNSwitchboard/internal/app/apps"
	"github.com/Mystfit/MVNSwitchboard/internal/app/cfg"

	"github.com/stretchr/testify/require"
)

const integPort = 16004

func TestClientAppAgainstEngineApp(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engineApp, err := apps.NewEngineApp(cfg.NewPortCfg(integPort))
	require.NoError(t, err)
	controlApp, err := apps.NewControlApp(
		cfg.NewAddrCfg("127.0.0.1"),
		cfg.NewPortCfg(integPort),
		cfg.NewRecordCfg("sceneA", 1, "integration", 200*time.Millisecond),
	)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	engineErr := make(chan error, 1)
	go func() {
		defer wg.Done()
		engineErr <- engineApp.Run(ctx, nil)
	}()

	// Give the engine a moment to bind before the client's first probe.
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, controlApp.Run(ctx, nil))

	cancel()
	wg.Wait()
	require.NoError(t, <-engineErr)
}
