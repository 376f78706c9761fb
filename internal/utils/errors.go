package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeMissingPayload         Code = "MISSING_PAYLOAD"
	CodeTranscriptionFailed    Code = "TRANSCRIPTION_FAILED"
	CodeGenerationFailed       Code = "GENERATION_FAILED"
	CodeSearchUnavailable      Code = "SEARCH_UNAVAILABLE"
	CodeSynthesisFailed        Code = "SYNTHESIS_FAILED"
	CodeUpstreamConnectionLost Code = "UPSTREAM_CONNECTION_LOST"
	CodeTimeout                Code = "TIMEOUT"
	CodeInternal               Code = "INTERNAL"
)

// AppError is the unified error contract across layers.
// Message is safe for logs; nothing from an AppError is ever written to a caller.
type AppError struct {
	Code    Code
	Op      string // operation name, ex: "TalkService.Handle"
	Message string
	Err     error // wrapped provider / transport error
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.Op != "" && e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Op != "" && e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "error"
	}
}

func (e *AppError) Unwrap() error { return e.Err }

func E(code Code, op, msg string, err error) error {
	return &AppError{Code: code, Op: op, Message: msg, Err: err}
}

// CodeOf returns the code of the outermost AppError in err's chain,
// or CodeInternal when there is none.
func CodeOf(err error) Code {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}

func IsCode(err error, code Code) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// IsTimeout reports whether err was caused by a stage deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || IsCode(err, CodeTimeout)
}

// HTTPStatus maps an error to the status written to /talk callers.
// The talk contract only knows 200 and 500, so every failure kind
// collapses to 500; the code survives in server logs only.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return http.StatusInternalServerError
}

// Backward-compatible sentinel errors
var (
	ErrEmptyTranscript = errors.New("empty transcript")
	ErrMalformedReply  = errors.New("malformed provider response")
	ErrEmptyAudio      = errors.New("empty audio response")
	ErrAudioTooLarge   = errors.New("audio exceeds size limit")
)
