package apps

import (
	"context"

	"github.com/Mystfit/MVNSwitchboard/internal/pkg/engine"
	"github.com/Mystfit/MVNSwitchboard/internal/pkg/validate"

	"github.com/pkg/errors"
)

// EngineAppCfg configures an EngineApp.
type EngineAppCfg interface {
	ApplyEngineApp(*EngineApp) error
}

// EngineApp runs the simulated engine for local development and testing.
type EngineApp struct {
	Port uint16 `validate:"required"`
}

// NewEngineApp creates a new EngineApp.
func NewEngineApp(cfgs ...EngineAppCfg) (*EngineApp, error) {
	app := &EngineApp{}
	for _, cfg := range cfgs {
		if err := cfg.ApplyEngineApp(app); err != nil {
			return nil, errors.Wrap(err, "apply EngineApp cfg failed")
		}
	}
	if err := validate.Validate().Struct(app); err != nil {
		return nil, errors.Wrap(err, "validate EngineApp failed")
	}
	return app, nil
}

// Run serves the simulated engine until the context is cancelled.
func (app *EngineApp) Run(ctx context.Context, args []string) error {
	eng, err := engine.New(engine.WithPort(app.Port))
	if err != nil {
		return errors.Wrap(err, "create engine failed")
	}
	return errors.Wrap(eng.Run(ctx), "run engine failed")
}
