// Package dispatch classifies decoded engine responses into a closed set of
// variants so that the session loop can match them exhaustively.
package dispatch

import "github.com/Mystfit/MVNSwitchboard/internal/pkg/wire"

// Response is one of the known engine response kinds, or Unknown.
type Response interface {
	// Tag returns the wire tag that produced this response.
	Tag() string
}

// IdentifyAck acknowledges an identify probe.
type IdentifyAck struct {
	Attrs map[string]string
}

// StartRecordingAck confirms that the engine started recording.
type StartRecordingAck struct {
	Attrs map[string]string
}

// StopRecordingAck confirms that the engine stopped recording.
type StopRecordingAck struct {
	Attrs map[string]string
}

// CaptureNameAck confirms that the engine accepted a take name change.
type CaptureNameAck struct {
	Attrs map[string]string
}

// Unknown is a well-formed response whose tag is not part of the protocol.
type Unknown struct {
	TagName string
	Attrs   map[string]string
}

func (r IdentifyAck) Tag() string       { return wire.TagIdentifyAck }
func (r StartRecordingAck) Tag() string { return wire.TagStartRecordingAck }
func (r StopRecordingAck) Tag() string  { return wire.TagStopRecordingAck }
func (r CaptureNameAck) Tag() string    { return wire.TagCaptureNameAck }
func (r Unknown) Tag() string           { return r.TagName }

// Classify maps a decoded element onto its response variant.
func Classify(el wire.Element) Response {
	switch el.Tag {
	case wire.TagIdentifyAck:
		return IdentifyAck{Attrs: el.Attrs}
	case wire.TagStartRecordingAck:
		return StartRecordingAck{Attrs: el.Attrs}
	case wire.TagStopRecordingAck:
		return StopRecordingAck{Attrs: el.Attrs}
	case wire.TagCaptureNameAck:
		return CaptureNameAck{Attrs: el.Attrs}
	default:
		return Unknown{TagName: el.Tag, Attrs: el.Attrs}
	}
}
