package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorFormatting(t *testing.T) {
	inner := errors.New("boom")

	assert.Equal(t, "Op: msg: boom", E(CodeInternal, "Op", "msg", inner).Error())
	assert.Equal(t, "Op: msg", E(CodeInternal, "Op", "msg", nil).Error())
	assert.Equal(t, "Op: boom", E(CodeInternal, "Op", "", inner).Error())
	assert.Equal(t, "msg", E(CodeInternal, "", "msg", nil).Error())
	assert.Equal(t, "error", (&AppError{}).Error())

	var nilErr *AppError
	assert.Equal(t, "<nil>", nilErr.Error())
}

func TestCodeOf_WrappedChain(t *testing.T) {
	err := fmt.Errorf("outer: %w", E(CodeSynthesisFailed, "tts", "failed", ErrEmptyAudio))

	assert.Equal(t, CodeSynthesisFailed, CodeOf(err))
	assert.True(t, IsCode(err, CodeSynthesisFailed))
	assert.False(t, IsCode(err, CodeGenerationFailed))
	assert.True(t, errors.Is(err, ErrEmptyAudio))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}

func TestIsTimeout(t *testing.T) {
	require.True(t, IsTimeout(E(CodeTranscriptionFailed, "stt", "deadline", context.DeadlineExceeded)))
	require.True(t, IsTimeout(E(CodeTimeout, "stt", "deadline", nil)))
	require.False(t, IsTimeout(E(CodeTranscriptionFailed, "stt", "bad", errors.New("x"))))
}

func TestHTTPStatus_EveryFailureIs500(t *testing.T) {
	assert.Equal(t, http.StatusOK, HTTPStatus(nil))
	for _, c := range []Code{
		CodeMissingPayload, CodeTranscriptionFailed, CodeGenerationFailed,
		CodeSynthesisFailed, CodeUpstreamConnectionLost, CodeTimeout, CodeInternal,
	} {
		assert.Equal(t, http.StatusInternalServerError, HTTPStatus(E(c, "op", "m", nil)), string(c))
	}
}
