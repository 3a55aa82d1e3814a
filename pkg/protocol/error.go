package protocol

import verrors "github.com/vango-dev/vtree/internal/errors"

// ErrorMessage reports a failure to the peer in a FrameError payload.
// Code is an internal/errors code such as "E010", or empty.
type ErrorMessage struct {
	Code    string
	Message string
	Fatal   bool // The sender closes the connection after this frame
}

// NewErrorMessage builds an error report from err, taking the code of
// an *errors.Error when err carries one.
func NewErrorMessage(err error, fatal bool) *ErrorMessage {
	return &ErrorMessage{Code: verrors.Code(err), Message: err.Error(), Fatal: fatal}
}

// Error implements the error interface.
func (em *ErrorMessage) Error() string {
	msg := em.Message
	if em.Fatal {
		msg = "fatal: " + msg
	}
	return "remote: " + msg
}

// EncodeErrorMessage encodes an error payload.
func EncodeErrorMessage(em *ErrorMessage) []byte {
	e := NewEncoder()
	e.WriteString(em.Code)
	e.WriteString(em.Message)
	e.WriteBool(em.Fatal)
	return e.Bytes()
}

// DecodeErrorMessage decodes an error payload.
func DecodeErrorMessage(data []byte) (*ErrorMessage, error) {
	d := NewDecoder(data)
	var (
		em  ErrorMessage
		err error
	)
	if em.Code, err = d.ReadString(); err != nil {
		return nil, wrapDecode(err, "error")
	}
	if em.Message, err = d.ReadString(); err != nil {
		return nil, wrapDecode(err, "error")
	}
	if em.Fatal, err = d.ReadBool(); err != nil {
		return nil, wrapDecode(err, "error")
	}
	return &em, nil
}
