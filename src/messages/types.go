package messages

import (
	"errors"
	"fmt"
)

// MimePNG is the only encoding the capture path produces.
const MimePNG = "image/png"

// Status texts shown in the overlay's output area.
const (
	StatusReady   = "Connected to Gemini API.\nReady to analyze..."
	StatusSending = "Sending to Gemini..."
)

// Kind classifies a failed analysis.
type Kind string

const (
	KindNotInitialized   Kind = "NotInitialized"
	KindCaptureFailure   Kind = "CaptureFailure"
	KindRemoteAPIFailure Kind = "RemoteAPIFailure"
	KindUnknownFailure   Kind = "UnknownFailure"
)

// Error is the typed failure carried by an Analysis.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Status renders the error the way the overlay displays it.
func (e *Error) Status() string {
	switch e.Kind {
	case KindNotInitialized:
		return "Error: Gemini Client not initialized. Check your API key."
	case KindCaptureFailure:
		return "Capture Error: " + e.Message
	case KindRemoteAPIFailure:
		return "Gemini API Error: " + e.Message
	default:
		return "General Error: " + e.Message
	}
}

// NewError builds an Error of the given kind.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// AsError extracts a *Error from err. Errors of any other type are reported
// as UnknownFailure.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindUnknownFailure, Message: err.Error()}
}

// Capture is an encoded screenshot handed from the capture adapter to the
// vision client. It is consumed once.
type Capture struct {
	Data     []byte
	MimeType string
}

// Analysis is the outcome of one capture→analyze run. Exactly one of Text or
// Err is meaningful.
type Analysis struct {
	Text string
	Err  *Error
}

// Failed reports whether the analysis carries an error.
func (a Analysis) Failed() bool { return a.Err != nil }

// Status is the text the overlay shows for this analysis.
func (a Analysis) Status() string {
	if a.Err != nil {
		return a.Err.Status()
	}
	return a.Text
}
