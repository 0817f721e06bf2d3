package apps

import (
	"context"
	"time"

	"github.com/Mystfit/MVNSwitchboard/internal/pkg/device"
	"github.com/Mystfit/MVNSwitchboard/internal/pkg/metric"
	"github.com/Mystfit/MVNSwitchboard/internal/pkg/validate"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// readyTimeout bounds how long the app waits for the engine to answer the
// first identify probe.
const readyTimeout = 5 * time.Second

// ControlAppCfg configures a ControlApp.
type ControlAppCfg interface {
	ApplyControlApp(*ControlApp) error
}

// ControlApp is the demo host application: it connects to the engine and
// optionally records a single take.
type ControlApp struct {
	RemoteIP   string `validate:"required,ip"`
	RemotePort uint16 `validate:"required"`

	Slate       string
	Take        int
	Description string
	RecordFor   time.Duration
}

// NewControlApp creates a new ControlApp.
func NewControlApp(cfgs ...ControlAppCfg) (*ControlApp, error) {
	app := &ControlApp{}
	for _, cfg := range cfgs {
		if err := cfg.ApplyControlApp(app); err != nil {
			return nil, errors.Wrap(err, "apply ControlApp cfg failed")
		}
	}
	if err := validate.Validate().Struct(app); err != nil {
		return nil, errors.Wrap(err, "validate ControlApp failed")
	}
	return app, nil
}

// Run connects to the engine, waits until it is ready, and either holds the
// connection open or records one take of RecordFor length.
func (app *ControlApp) Run(ctx context.Context, args []string) error {
	metrics := metric.NewLinkMetrics()
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.WithError(err).Warning("register link metrics failed")
	}

	startConfirmed := make(chan string, 1)
	stopConfirmed := make(chan string, 1)
	disconnected := make(chan struct{}, 1)
	client, err := device.NewClient(
		device.WithRemoteAddr(app.RemoteIP),
		device.WithRemotePort(app.RemotePort),
		device.WithMetrics(metrics),
		device.WithCallbacks(device.Callbacks{
			OnConnected: func() {
				logger.Info("connected to engine")
			},
			OnDisconnected: func() {
				select {
				case disconnected <- struct{}{}:
				default:
				}
			},
			RecordStartConfirmed: func(tc string) {
				select {
				case startConfirmed <- tc:
				default:
				}
			},
			RecordStopConfirmed: func(tc string, paths []string) {
				select {
				case stopConfirmed <- tc:
				default:
				}
			},
		}),
	)
	if err != nil {
		return errors.Wrap(err, "create device client failed")
	}
	if err := client.Connect(); err != nil {
		return errors.Wrap(err, "connect to engine failed")
	}
	defer func() {
		if err := client.Disconnect(); err != nil {
			logger.WithError(err).Warning("disconnect failed")
		}
	}()

	if err := waitReady(ctx, client); err != nil {
		return errors.Wrap(err, "wait for engine failed")
	}
	logger.Info("engine ready")

	if app.RecordFor <= 0 {
		select {
		case <-ctx.Done():
			return nil
		case <-disconnected:
			return errors.New("engine connection lost")
		}
	}

	if err := client.SetTake(app.Slate, app.Take); err != nil {
		return errors.Wrap(err, "set take failed")
	}
	if err := client.RecordStart(app.Slate, app.Take, app.Description); err != nil {
		return errors.Wrap(err, "start recording failed")
	}
	select {
	case tc := <-startConfirmed:
		logger.WithField("timecode", tc).Info("recording started")
	case <-disconnected:
		return errors.New("engine connection lost before recording started")
	case <-ctx.Done():
		return nil
	}

	select {
	case <-time.After(app.RecordFor):
	case <-disconnected:
		return errors.New("engine connection lost while recording")
	case <-ctx.Done():
		return nil
	}

	if err := client.RecordStop(); err != nil {
		return errors.Wrap(err, "stop recording failed")
	}
	select {
	case tc := <-stopConfirmed:
		logger.WithField("timecode", tc).Info("recording stopped")
	case <-disconnected:
		return errors.New("engine connection lost while stopping recording")
	case <-time.After(readyTimeout):
		return errors.New("stop recording was never acknowledged")
	case <-ctx.Done():
		return nil
	}
	return nil
}

// waitReady polls until the client reports the READY state.
func waitReady(ctx context.Context, client *device.Client) error {
	deadline := time.After(readyTimeout)
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return errors.New("engine never became ready")
		case <-ticker.C:
			switch client.State() {
			case device.Ready:
				return nil
			case device.Disconnected:
				return errors.New("session ended before engine became ready")
			}
		}
	}
}
