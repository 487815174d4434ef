package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	base := errors.New("connection refused")
	err := fmt.Errorf("run: %w", NewError(KindTransport, "fetch channel stats", base))

	assert.Equal(t, KindTransport, KindOf(err))
	assert.True(t, errors.Is(err, base))
	assert.False(t, IsEmptyResult(err))
	assert.Equal(t, "run: fetch channel stats: connection refused", err.Error())

	var e *Error
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, "fetch channel stats", e.Op)
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(0), KindOf(nil))
	assert.Equal(t, "unknown", Kind(0).String())
}

func TestEmptyResultErrors(t *testing.T) {
	err := NewError(KindEmptyResult, "fetch channel stats", ErrNoChannel)
	assert.True(t, IsEmptyResult(err))
	assert.True(t, errors.Is(err, ErrNoChannel))
	assert.False(t, errors.Is(err, ErrNoVideos))
	assert.Equal(t, "empty result", KindEmptyResult.String())
}
