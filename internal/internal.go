// Package internal holds process configuration sourced from the environment
// and overridable by command flags.
package internal

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Configuration values. Defaults apply when neither the environment
// variable nor the flag is set.
var (
	Env      = "development"
	LogLevel = "info"

	RemoteIP   = "127.0.0.1"
	RemotePort = 6004
	HealthPort = 0

	Slate         = "slate"
	Take          = 1
	Description   = ""
	RecordSeconds = 0
)

// Flag binds a configuration value to a cobra flag with an environment
// variable fallback. Exactly one of String or Int must be set.
type Flag struct {
	Name   string
	EnvVar string
	Usage  string
	String *string
	Int    *int
}

// Flag definitions shared by the commands.
var (
	EnvFlag      = Flag{Name: "env", EnvVar: "MVN_ENV", Usage: "deployment environment", String: &Env}
	LogLevelFlag = Flag{Name: "loglevel", EnvVar: "MVN_LOGLEVEL", Usage: "log level", String: &LogLevel}

	RemoteIPFlag   = Flag{Name: "remote-ip", EnvVar: "MVN_REMOTE_IP", Usage: "engine IP address", String: &RemoteIP}
	RemotePortFlag = Flag{Name: "remote-port", EnvVar: "MVN_REMOTE_PORT", Usage: "engine UDP remote control port", Int: &RemotePort}
	HealthPortFlag = Flag{Name: "health-port", EnvVar: "MVN_HEALTH_PORT", Usage: "health/metrics HTTP port (0 disables)", Int: &HealthPort}

	SlateFlag         = Flag{Name: "slate", EnvVar: "MVN_SLATE", Usage: "slate name for the recorded take", String: &Slate}
	TakeFlag          = Flag{Name: "take", EnvVar: "MVN_TAKE", Usage: "take number", Int: &Take}
	DescriptionFlag   = Flag{Name: "description", EnvVar: "MVN_DESCRIPTION", Usage: "recording description", String: &Description}
	RecordSecondsFlag = Flag{Name: "record-seconds", EnvVar: "MVN_RECORD_SECONDS", Usage: "record a take of this many seconds (0 to just hold the connection)", Int: &RecordSeconds}
)

// RegisterCommandFlags registers the given flags on the command, applying
// any environment overrides as new defaults.
func RegisterCommandFlags(cmd *cobra.Command, flags []*Flag) error {
	for _, f := range flags {
		switch {
		case f.String != nil:
			if v, ok := os.LookupEnv(f.EnvVar); ok {
				*f.String = v
			}
			cmd.PersistentFlags().StringVar(f.String, f.Name, *f.String, f.Usage)
		case f.Int != nil:
			if v, ok := os.LookupEnv(f.EnvVar); ok {
				n, err := strconv.Atoi(v)
				if err != nil {
					return errors.Wrapf(err, "parse %s failed", f.EnvVar)
				}
				*f.Int = n
			}
			cmd.PersistentFlags().IntVar(f.Int, f.Name, *f.Int, f.Usage)
		default:
			return errors.Errorf("flag %s has no target", f.Name)
		}
	}
	return nil
}

// ValidateEnv checks the resolved configuration for obvious mistakes.
func ValidateEnv() error {
	if RemotePort < 1 || RemotePort > 65535 {
		return errors.Errorf("remote port %d out of range", RemotePort)
	}
	if HealthPort < 0 || HealthPort > 65535 {
		return errors.Errorf("health port %d out of range", HealthPort)
	}
	if Take < 1 {
		return errors.Errorf("take number %d must be positive", Take)
	}
	if RecordSeconds < 0 {
		return errors.Errorf("record seconds %d must not be negative", RecordSeconds)
	}
	return nil
}
