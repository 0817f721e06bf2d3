package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []Element{
		IdentifyReq(),
		StopRecordingReq(),
		StartRecordingReq("sceneA", "first rehearsal"),
		{Tag: "IdentifyAck", Attrs: map[string]string{}},
		{Tag: "StartRecordingAck", Attrs: map[string]string{"Timecode": "01:02:03:04"}},
	}
	for _, want := range cases {
		data, err := Encode(want)
		require.NoError(t, err)
		got, err := Decode(data)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestCaptureNameRoundTripPreservesChildren(t *testing.T) {
	want := CaptureName("sceneA", 3)
	data, err := Encode(want)
	require.NoError(t, err)
	got, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.Len(t, got.Children, 2)
	require.Equal(t, "Name", got.Children[0].Tag)
	require.Equal(t, "sceneA", got.Children[0].Attrs["VALUE"])
	require.Equal(t, "Take", got.Children[1].Tag)
	require.Equal(t, "3", got.Children[1].Attrs["VALUE"])
}

func TestEncodeEscapesAttributeValues(t *testing.T) {
	data, err := Encode(StartRecordingReq(`slate "A" <&>`, "desc"))
	require.NoError(t, err)
	got, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, `slate "A" <&>`, got.Attrs["SessionName"])
}

func TestEncodeRejectsUnrepresentableInput(t *testing.T) {
	cases := []Element{
		{Tag: ""},
		{Tag: "bad tag"},
		{Tag: "1Leading"},
		{Tag: "Req", Attrs: map[string]string{"bad name": "x"}},
		{Tag: "Req", Attrs: map[string]string{"Name": "nul\x00byte"}},
		{Tag: "Req", Attrs: map[string]string{"Name": string([]byte{0xff, 0xfe})}},
	}
	for _, el := range cases {
		_, err := Encode(el)
		require.ErrorIs(t, err, ErrEncoding, "element %+v", el)
	}
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		[]byte("   "),
		[]byte("not xml at all"),
		[]byte("<IdentifyAck"),
		[]byte("<IdentifyAck>"),
		[]byte("<A></B>"),
		[]byte("<A /><B />"),
		[]byte("<A />trailing"),
		[]byte("<?xml version=\"1.0\"?>"),
		{0x00, 0x01, 0x02, 0xff},
		[]byte("<IdentifyAck attr=>"),
	}
	for _, data := range cases {
		_, err := Decode(data)
		require.ErrorIs(t, err, ErrMalformedMessage, "input %q", data)
	}
}

func TestDecodeTruncatedDatagramNeverPanics(t *testing.T) {
	full, err := Encode(CaptureName("sceneA", 12))
	require.NoError(t, err)
	for i := 0; i < len(full); i++ {
		_, err := Decode(full[:i])
		require.ErrorIs(t, err, ErrMalformedMessage)
	}
}
