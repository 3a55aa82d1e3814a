package protocol

import (
	"errors"
	"fmt"

	verrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/dom"
)

// ErrUnknownOp is returned when a patch carries an op code outside the
// dom.OpKind range.
var ErrUnknownOp = errors.New("protocol: unknown patch op")

// batchOverhead bounds the seq and count varints at the head of a
// patches payload.
const batchOverhead = 2 * 10

// PatchesFrame is one batch of target mutations, in the order the
// engine issued them. Seq increases by one per batch in a session.
type PatchesFrame struct {
	Seq uint64
	Ops []dom.Op
}

// Wire layout per op, after the op code byte. IDs are uvarints, strings
// are length-prefixed:
//
//	CreateElement   node tag
//	CreateText      node text
//	Insert, Move    node parent ref
//	Remove          node parent
//	Replace         node parent old
//	SetAttr         node name value
//	SetStyle        node name value
//	RemoveAttr      node name
//	RemoveStyle     node name
//	SetClass        node value
//	SetText         node value
//	SetTextContent  node value
//	SetInnerHTML    node value

// EncodePatches encodes a patches frame payload.
func EncodePatches(pf *PatchesFrame) []byte {
	e := NewEncoder()
	EncodePatchesTo(e, pf)
	return e.Bytes()
}

// EncodePatchesTo encodes a patches frame payload using e.
func EncodePatchesTo(e *Encoder, pf *PatchesFrame) {
	e.WriteUvarint(pf.Seq)
	e.WriteUvarint(uint64(len(pf.Ops)))
	for i := range pf.Ops {
		encodeOp(e, &pf.Ops[i])
	}
}

func encodeOp(e *Encoder, op *dom.Op) {
	e.WriteByte(byte(op.Kind))
	e.WriteID(op.Node)
	switch op.Kind {
	case dom.OpCreateElement:
		e.WriteString(op.Name)
	case dom.OpCreateText:
		e.WriteString(op.Value)
	case dom.OpInsert, dom.OpMove, dom.OpReplace:
		e.WriteID(op.Parent)
		e.WriteID(op.Ref)
	case dom.OpRemove:
		e.WriteID(op.Parent)
	case dom.OpSetAttr, dom.OpSetStyle:
		e.WriteString(op.Name)
		e.WriteString(op.Value)
	case dom.OpRemoveAttr, dom.OpRemoveStyle:
		e.WriteString(op.Name)
	default:
		e.WriteString(op.Value)
	}
}

// DecodePatches decodes a patches frame payload. Failures are returned
// as *errors.Error with code E010, or E012 for an unknown op code.
func DecodePatches(data []byte) (*PatchesFrame, error) {
	d := NewDecoder(data)
	pf, err := DecodePatchesFrom(d)
	if err == nil {
		err = d.Finish()
	}
	if err != nil {
		return nil, wrapDecode(err, "patches")
	}
	return pf, nil
}

// DecodePatchesFrom decodes a patches frame from d without wrapping
// errors.
func DecodePatchesFrom(d *Decoder) (*PatchesFrame, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	count, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	ops := make([]dom.Op, count)
	for i := range ops {
		if err := decodeOp(d, &ops[i]); err != nil {
			return nil, fmt.Errorf("op %d: %w", i, err)
		}
	}
	return &PatchesFrame{Seq: seq, Ops: ops}, nil
}

func decodeOp(d *Decoder, op *dom.Op) error {
	b, err := d.ReadByte()
	if err != nil {
		return err
	}
	op.Kind = dom.OpKind(b)
	if op.Kind < dom.OpCreateElement || op.Kind > dom.OpSetInnerHTML {
		return fmt.Errorf("%w 0x%02x", ErrUnknownOp, b)
	}
	if op.Node, err = d.ReadID(); err != nil {
		return err
	}
	switch op.Kind {
	case dom.OpCreateElement:
		op.Name, err = d.ReadString()
	case dom.OpCreateText:
		op.Value, err = d.ReadString()
	case dom.OpInsert, dom.OpMove, dom.OpReplace:
		if op.Parent, err = d.ReadID(); err != nil {
			return err
		}
		op.Ref, err = d.ReadID()
	case dom.OpRemove:
		op.Parent, err = d.ReadID()
	case dom.OpSetAttr, dom.OpSetStyle:
		if op.Name, err = d.ReadString(); err != nil {
			return err
		}
		op.Value, err = d.ReadString()
	case dom.OpRemoveAttr, dom.OpRemoveStyle:
		op.Name, err = d.ReadString()
	default:
		op.Value, err = d.ReadString()
	}
	return err
}

// PatchFrames encodes ops as one or more FramePatches frames sharing
// seq. A batch too large for one frame is split between ops; only the
// last frame carries FlagFinal. An op that alone exceeds MaxPayloadSize
// returns ErrFrameTooLarge.
func PatchFrames(seq uint64, ops []dom.Op) ([]*Frame, error) {
	var frames []*Frame
	chunk := NewEncoder()
	var start int
	flush := func(end int) {
		e := NewEncoderWithCap(chunk.Len() + batchOverhead)
		e.WriteUvarint(seq)
		e.WriteUvarint(uint64(end - start))
		e.WriteBytes(chunk.Bytes())
		frames = append(frames, NewFrame(FramePatches, e.Bytes()))
		chunk.Reset()
		start = end
	}

	op := NewEncoder()
	for i := range ops {
		op.Reset()
		encodeOp(op, &ops[i])
		if op.Len()+batchOverhead > MaxPayloadSize {
			return nil, fmt.Errorf("%w: %s op of %d bytes", ErrFrameTooLarge, ops[i].Kind, op.Len())
		}
		if chunk.Len()+op.Len()+batchOverhead > MaxPayloadSize {
			flush(i)
		}
		chunk.WriteBytes(op.Bytes())
	}
	if chunk.Len() > 0 || len(frames) == 0 {
		flush(len(ops))
	}
	frames[len(frames)-1].Flags |= FlagFinal
	return frames, nil
}

// Batcher reassembles patch batches split by PatchFrames.
type Batcher struct {
	pending *PatchesFrame
}

// Add feeds one FramePatches frame. It returns the complete batch once
// the final frame of a batch arrives, and nil before that.
func (b *Batcher) Add(f *Frame) (*PatchesFrame, error) {
	if f.Type != FramePatches {
		return nil, wrapDecode(ErrInvalidFrameType, f.Type.String())
	}
	pf, err := DecodePatches(f.Payload)
	if err != nil {
		return nil, err
	}
	if b.pending != nil {
		if b.pending.Seq != pf.Seq {
			err := fmt.Errorf("batch %d interrupted by batch %d", b.pending.Seq, pf.Seq)
			b.pending = nil
			return nil, verrors.New(verrors.CodeDecode).Wrap(err)
		}
		b.pending.Ops = append(b.pending.Ops, pf.Ops...)
		pf = b.pending
	}
	if !f.Flags.Has(FlagFinal) {
		b.pending = pf
		return nil, nil
	}
	b.pending = nil
	return pf, nil
}

func wrapDecode(err error, what string) error {
	code := verrors.CodeDecode
	switch {
	case errors.Is(err, ErrUnknownOp):
		code = verrors.CodeUnknownOp
	case errors.Is(err, ErrFrameTooLarge):
		code = verrors.CodeFrameTooLarge
	}
	return verrors.New(code).WithPath(what).Wrap(err)
}
