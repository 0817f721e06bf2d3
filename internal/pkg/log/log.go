// Package log adds logging utilities.
package log

import (
	"time"

	"github.com/Mystfit/MVNSwitchboard/internal/pkg/wire"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SetLogger configures the default logger's format and level.
func SetLogger(level string) {
	formatter := new(logrus.TextFormatter)
	formatter.TimestampFormat = time.RFC3339
	formatter.FullTimestamp = true
	logrus.SetFormatter(formatter)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.ErrorLevel
	}
	logrus.SetLevel(parsed)
}

// SessionFields returns the standard fields identifying a device session.
func SessionFields(sessionID uuid.UUID, remote string) logrus.Fields {
	return logrus.Fields{
		"session": sessionID.String(),
		"remote":  remote,
	}
}

// ElementFields returns the standard fields describing a wire element.
func ElementFields(el wire.Element) logrus.Fields {
	return logrus.Fields{
		"tag":      el.Tag,
		"attrs":    len(el.Attrs),
		"children": len(el.Children),
	}
}
