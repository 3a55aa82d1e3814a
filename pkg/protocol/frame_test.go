package protocol

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestFrameEncodeDecode(t *testing.T) {
	tests := []struct {
		name    string
		frame   Frame
		wantLen int
	}{
		{
			name:    "empty_payload",
			frame:   Frame{Type: FrameEvent, Payload: []byte{}},
			wantLen: FrameHeaderSize,
		},
		{
			name:    "final_patches",
			frame:   Frame{Type: FramePatches, Flags: FlagFinal, Payload: []byte{0x01, 0x02, 0x03}},
			wantLen: FrameHeaderSize + 3,
		},
		{
			name:    "control",
			frame:   Frame{Type: FrameControl, Payload: []byte("test")},
			wantLen: FrameHeaderSize + 4,
		},
		{
			name:    "max_payload",
			frame:   Frame{Type: FrameError, Payload: make([]byte, MaxPayloadSize)},
			wantLen: FrameHeaderSize + MaxPayloadSize,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := tc.frame.Encode()
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if len(encoded) != tc.wantLen {
				t.Errorf("Encode() length = %d, want %d", len(encoded), tc.wantLen)
			}

			decoded, err := DecodeFrame(encoded)
			if err != nil {
				t.Fatalf("DecodeFrame() error = %v", err)
			}
			if decoded.Type != tc.frame.Type || decoded.Flags != tc.frame.Flags {
				t.Errorf("header = %s/%x, want %s/%x", decoded.Type, decoded.Flags, tc.frame.Type, tc.frame.Flags)
			}
			if !bytes.Equal(decoded.Payload, tc.frame.Payload) {
				t.Errorf("payload mismatch")
			}

			read, err := ReadFrame(bytes.NewReader(encoded))
			if err != nil {
				t.Fatalf("ReadFrame() error = %v", err)
			}
			if !bytes.Equal(read.Payload, tc.frame.Payload) {
				t.Errorf("ReadFrame payload mismatch")
			}
		})
	}
}

func TestFrameHeaderLayout(t *testing.T) {
	f := &Frame{Type: FramePatches, Flags: FlagFinal, Payload: make([]byte, 0x0102)}
	data, err := f.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := data[:FrameHeaderSize], []byte{0x02, 0x04, 0x01, 0x02}; !bytes.Equal(got, want) {
		t.Errorf("header = %x, want %x", got, want)
	}
}

func TestFrameErrors(t *testing.T) {
	big := &Frame{Type: FramePatches, Payload: make([]byte, MaxPayloadSize+1)}
	if _, err := big.Encode(); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("Encode() oversized = %v, want ErrFrameTooLarge", err)
	}
	if err := WriteFrame(io.Discard, big); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("WriteFrame() oversized = %v, want ErrFrameTooLarge", err)
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short header", []byte{0x01, 0x00}, io.ErrUnexpectedEOF},
		{"short payload", []byte{0x01, 0x00, 0x00, 0x03, 0xAA}, io.ErrUnexpectedEOF},
		{"trailing", []byte{0x01, 0x00, 0x00, 0x00, 0xAA}, ErrTrailingBytes},
		{"unknown type", []byte{0x00, 0x00, 0x00, 0x00}, ErrInvalidFrameType},
		{"ack type", []byte{0x04, 0x00, 0x00, 0x00}, ErrInvalidFrameType},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeFrame(tc.data); !errors.Is(err, tc.want) {
				t.Errorf("DecodeFrame() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestReadFrameSequence(t *testing.T) {
	var buf bytes.Buffer
	for _, f := range []*Frame{
		NewFrame(FrameControl, EncodeControl(NewPing(1))),
		NewFrame(FrameEvent, []byte{0x01}),
	} {
		if err := WriteFrame(&buf, f); err != nil {
			t.Fatal(err)
		}
	}

	first, err := ReadFrame(&buf)
	if err != nil || first.Type != FrameControl {
		t.Fatalf("first frame = %v, %v", first, err)
	}
	second, err := ReadFrame(&buf)
	if err != nil || second.Type != FrameEvent {
		t.Fatalf("second frame = %v, %v", second, err)
	}
	if _, err := ReadFrame(&buf); err != io.EOF {
		t.Errorf("ReadFrame() at end = %v, want io.EOF", err)
	}
}

func TestFrameTypeString(t *testing.T) {
	for ft, want := range map[FrameType]string{
		FrameEvent:    "Event",
		FramePatches:  "Patches",
		FrameControl:  "Control",
		FrameError:    "Error",
		FrameType(99): "Unknown",
	} {
		if got := ft.String(); got != want {
			t.Errorf("FrameType(%d).String() = %q, want %q", ft, got, want)
		}
	}
}
