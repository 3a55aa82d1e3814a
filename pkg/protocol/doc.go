// Package protocol implements the binary wire format between a live
// session and its client.
//
// The server streams the target mutations issued by the engine, one
// batch per update, and the client answers with events aimed at node
// IDs. A client that applies every batch in order to a mirror of the
// initial document ends up with the server's document, node IDs
// included.
//
// # Wire Format
//
// All messages are framed with a 4-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// Frame types:
//
//   - FrameEvent (0x01): client to server events
//   - FramePatches (0x02): server to client op batches
//   - FrameControl (0x03): ping, pong, close
//   - FrameError (0x05): error reports
//
// # Encoding
//
// Integers and node IDs are unsigned varints. Strings are prefixed with
// their varint length. A patch op is its dom.OpKind byte followed by
// the node ID and the fields the kind uses, so a text update costs
// three bytes plus the text.
//
// # Batches
//
// A batch larger than one frame is split by PatchFrames between ops.
// Every frame of a batch carries the same sequence number and only the
// last carries FlagFinal. Batcher joins the frames back together.
//
//	frames, err := protocol.PatchFrames(seq, doc.Drain())
//	for _, f := range frames {
//	    data, _ := f.Encode()
//	    conn.WriteMessage(websocket.BinaryMessage, data)
//	}
//
// Decoding never trusts length prefixes: strings are capped at
// DefaultMaxAllocation and collections at MaxCollectionCount.
package protocol
