package protocol

import (
	"maps"
	"slices"

	"github.com/vango-dev/vtree/pkg/events"
)

// EventMessage is a client event as it travels in a FrameEvent payload.
//
// Wire format:
//
//	[Seq: varint][Type: string][Target: varint]
//	[Value: string][Key: string][Fields: count, then name/value pairs]
//
// A click on node #12 with sequence 1 encodes in 11 bytes.
type EventMessage struct {
	Seq   uint64
	Event events.Event
}

// EncodeEvent encodes an event payload. Fields are written in name
// order so equal events encode to equal bytes. Event.Time is not sent.
func EncodeEvent(m *EventMessage) []byte {
	e := NewEncoder()
	EncodeEventTo(e, m)
	return e.Bytes()
}

// EncodeEventTo encodes an event payload using e.
func EncodeEventTo(e *Encoder, m *EventMessage) {
	e.WriteUvarint(m.Seq)
	e.WriteString(m.Event.Type)
	e.WriteID(m.Event.Target)
	e.WriteString(m.Event.Value)
	e.WriteString(m.Event.Key)
	e.WriteUvarint(uint64(len(m.Event.Fields)))
	for _, k := range slices.Sorted(maps.Keys(m.Event.Fields)) {
		e.WriteString(k)
		e.WriteString(m.Event.Fields[k])
	}
}

// DecodeEvent decodes an event payload. Failures are returned as
// *errors.Error with code E010.
func DecodeEvent(data []byte) (*EventMessage, error) {
	d := NewDecoder(data)
	m, err := DecodeEventFrom(d)
	if err == nil {
		err = d.Finish()
	}
	if err != nil {
		return nil, wrapDecode(err, "event")
	}
	return m, nil
}

// DecodeEventFrom decodes an event payload from d without wrapping
// errors.
func DecodeEventFrom(d *Decoder) (*EventMessage, error) {
	var (
		m   EventMessage
		err error
	)
	if m.Seq, err = d.ReadUvarint(); err != nil {
		return nil, err
	}
	if m.Event.Type, err = d.ReadString(); err != nil {
		return nil, err
	}
	if m.Event.Target, err = d.ReadID(); err != nil {
		return nil, err
	}
	if m.Event.Value, err = d.ReadString(); err != nil {
		return nil, err
	}
	if m.Event.Key, err = d.ReadString(); err != nil {
		return nil, err
	}
	count, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	if count > 0 {
		m.Event.Fields = make(map[string]string, count)
	}
	for range count {
		k, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		v, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		m.Event.Fields[k] = v
	}
	return &m, nil
}
