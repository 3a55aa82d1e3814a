package protocol

import (
	"testing"

	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/events"
)

func FuzzDecodeFrame(f *testing.F) {
	for _, fr := range []*Frame{
		{Type: FrameEvent, Payload: []byte{0x01, 0x02}},
		{Type: FramePatches, Flags: FlagFinal, Payload: []byte("test")},
	} {
		data, _ := fr.Encode()
		f.Add(data)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		_, _ = DecodeFrame(data)
	})
}

func FuzzDecodePatches(f *testing.F) {
	f.Add(EncodePatches(&PatchesFrame{Seq: 1, Ops: []dom.Op{
		{Kind: dom.OpCreateElement, Node: 2, Name: "div"},
		{Kind: dom.OpInsert, Node: 2, Parent: 1},
		{Kind: dom.OpSetAttr, Node: 2, Name: "id", Value: "x"},
	}}))
	f.Add([]byte{0x01, 0x01, 0xFF})

	f.Fuzz(func(t *testing.T, data []byte) {
		pf, err := DecodePatches(data)
		if err != nil {
			return
		}
		again, err := DecodePatches(EncodePatches(pf))
		if err != nil {
			t.Fatalf("re-decode failed: %v", err)
		}
		if len(again.Ops) != len(pf.Ops) {
			t.Fatalf("re-decode changed op count %d -> %d", len(pf.Ops), len(again.Ops))
		}
	})
}

func FuzzDecodeEvent(f *testing.F) {
	f.Add(EncodeEvent(&EventMessage{Seq: 1, Event: events.Event{Type: "click", Target: 3}}))
	f.Add(EncodeEvent(&EventMessage{Seq: 2, Event: events.Event{
		Type:   "submit",
		Target: 8,
		Fields: map[string]string{"a": "1"},
	}}))

	f.Fuzz(func(t *testing.T, data []byte) {
		_, _ = DecodeEvent(data)
	})
}

func FuzzDecodeControl(f *testing.F) {
	f.Add(EncodeControl(NewPing(1)))
	f.Add(EncodeControl(NewClose(CloseNormal, "bye")))

	f.Fuzz(func(t *testing.T, data []byte) {
		_, _ = DecodeControl(data)
	})
}
