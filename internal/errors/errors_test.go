package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefine(t *testing.T) {
	errExpired := Define(ErrUnauthorized, "request expired")

	assert.Equal(t, "request expired", errExpired.Error())
	assert.True(t, Is(errExpired, ErrUnauthorized))
	assert.False(t, Is(errExpired, ErrForbidden))
}

func TestPublicMessage(t *testing.T) {
	errUnreachable := Define(ErrUnavailable, "upstream unreachable")

	t.Run("Success_DirectDomainError", func(t *testing.T) {
		assert.Equal(t, "upstream unreachable", PublicMessage(errUnreachable))
	})

	t.Run("Success_WrappedDomainError", func(t *testing.T) {
		err := fmt.Errorf("forwarding: %w", errUnreachable)
		assert.Equal(t, "upstream unreachable", PublicMessage(err))
	})

	t.Run("Empty_PlainError", func(t *testing.T) {
		assert.Empty(t, PublicMessage(errors.New("boom")))
	})
}

func TestRefine(t *testing.T) {
	errUpstream := Define(ErrBadGateway, "upstream error")

	err := Refine(errUpstream, "upstream returned status 429: quota exceeded")

	assert.True(t, Is(err, errUpstream))
	assert.True(t, Is(err, ErrBadGateway))
	assert.Equal(t, "upstream returned status 429: quota exceeded", PublicMessage(err))
}

func TestWithCause(t *testing.T) {
	errTimeout := Define(ErrTimeout, "upstream timeout")

	t.Run("KeepsDomainErrorMatchable", func(t *testing.T) {
		err := WithCause(errTimeout, errors.New("dial tcp 10.0.0.1:443: i/o timeout"))

		assert.True(t, Is(err, errTimeout))
		assert.True(t, Is(err, ErrTimeout))
		assert.Contains(t, err.Error(), "i/o timeout")
		assert.Equal(t, "upstream timeout", PublicMessage(err))
	})

	t.Run("NilCause", func(t *testing.T) {
		assert.Equal(t, error(errTimeout), WithCause(errTimeout, nil))
	})
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))

	err := Wrap(ErrInvalidInput, "config")
	assert.Equal(t, "config: invalid input", err.Error())
	assert.True(t, Is(err, ErrInvalidInput))
}
