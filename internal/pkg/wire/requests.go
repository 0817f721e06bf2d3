package wire

import "strconv"

// Request tags sent to the engine.
const (
	TagIdentifyReq       = "IdentifyReq"
	TagStartRecordingReq = "StartRecordingReq"
	TagStopRecordingReq  = "StopRecordingReq"
	TagCaptureName       = "CaptureName"
)

// Response tags received from the engine.
const (
	TagIdentifyAck       = "IdentifyAck"
	TagStartRecordingAck = "StartRecordingAck"
	TagStopRecordingAck  = "StopRecordingAck"
	TagCaptureNameAck    = "CaptureNameAck"
)

// IdentifyReq builds the heartbeat probe used to initiate and keep alive
// the connection. It carries no attributes.
func IdentifyReq() Element {
	return Element{Tag: TagIdentifyReq, Attrs: map[string]string{}}
}

// StartRecordingReq builds the request that starts a recording on the engine.
func StartRecordingReq(sessionName, description string) Element {
	return Element{
		Tag: TagStartRecordingReq,
		Attrs: map[string]string{
			"SessionName": sessionName,
			"Description": description,
		},
	}
}

// StopRecordingReq builds the request that stops the active recording.
func StopRecordingReq() Element {
	return Element{Tag: TagStopRecordingReq, Attrs: map[string]string{}}
}

// CaptureName builds the take-name notification. The slate name and take
// number travel as Name and Take child elements, each with a VALUE attribute.
func CaptureName(name string, take int) Element {
	return Element{
		Tag:   TagCaptureName,
		Attrs: map[string]string{},
		Children: []Element{
			{Tag: "Name", Attrs: map[string]string{"VALUE": name}},
			{Tag: "Take", Attrs: map[string]string{"VALUE": strconv.Itoa(take)}},
		},
	}
}
