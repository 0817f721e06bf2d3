// Package main is the mvnctl application entrypoint.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Mystfit/MVNSwitchboard/internal"
	"github.com/Mystfit/MVNSwitchboard/internal/app/apps"
	"github.com/Mystfit/MVNSwitchboard/internal/app/cfg"
	"github.com/Mystfit/MVNSwitchboard/internal/pkg/log"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CLI command definitions.
var (
	logger logrus.FieldLogger = logrus.StandardLogger()

	rootCmd = &cobra.Command{
		Use: "mvnctl",
		RunE: func(*cobra.Command, []string) error {
			return nil
		},
	}

	clientCmd = &cobra.Command{
		Use:   "client",
		Short: "Connects to an MVN Animate engine and optionally records a take.",
		RunE:  runCmd,
	}

	engineCmd = &cobra.Command{
		Use:   "engine",
		Short: "Runs a simulated MVN Animate engine on the remote control port.",
		RunE:  runCmd,
	}
)

func newApp(cmd *cobra.Command) (apps.App, error) {
	switch cmd.Name() {
	case "client":
		app, err := apps.NewControlApp(
			cfg.AddrFromEnv(),
			cfg.PortFromEnv(),
			cfg.RecordFromEnv(),
		)
		if err != nil {
			return nil, errors.Wrap(err, "new control app failed")
		}
		return app, nil
	case "engine":
		app, err := apps.NewEngineApp(cfg.PortFromEnv())
		if err != nil {
			return nil, errors.Wrap(err, "new engine app failed")
		}
		return app, nil
	default:
		return nil, fmt.Errorf("unknown command: %s", cmd.Name())
	}
}

func runCmd(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if err := envCheck(ctx); err != nil {
		return errors.Wrap(err, "environment check failed")
	}
	if internal.HealthPort > 0 {
		go serveHealth(internal.HealthPort)
	}
	app, err := newApp(cmd)
	if err != nil {
		return errors.Wrapf(err, "new %s app failed", cmd.Name())
	}
	return errors.Wrap(app.Run(ctx, args), "run app failed")
}

func envCheck(_ context.Context) error {
	if err := internal.ValidateEnv(); err != nil {
		return errors.Wrap(err, "validate env failed")
	}
	log.SetLogger(internal.LogLevel)
	return nil
}

// serveHealth exposes /healthz and prometheus /metrics.
func serveHealth(port int) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.WithError(err).Warning("health server stopped")
	}
}

func init() {
	err := internal.RegisterCommandFlags(rootCmd, []*internal.Flag{
		&internal.EnvFlag,
		&internal.LogLevelFlag,

		&internal.RemoteIPFlag,
		&internal.RemotePortFlag,
		&internal.HealthPortFlag,
	})
	if err != nil {
		logger.Fatalln(err)
	}

	err = internal.RegisterCommandFlags(clientCmd, []*internal.Flag{
		&internal.SlateFlag,
		&internal.TakeFlag,
		&internal.DescriptionFlag,
		&internal.RecordSecondsFlag,
	})
	if err != nil {
		logger.Fatalln(err)
	}

	rootCmd.AddCommand(
		clientCmd,
		engineCmd,
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Fatal(errors.Wrap(err, "execute root command failed"))
	}
}
