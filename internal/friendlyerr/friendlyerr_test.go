package friendlyerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_UserMessageIsShort(t *testing.T) {
	cause := errors.New("unexpected token at position 4")
	err := Wrap(cause, `"a(" is not a valid pattern`)

	assert.Equal(t, `"a(" is not a valid pattern`, UserMessage(err))
	assert.Contains(t, err.Error(), "unexpected token at position 4")
}

func TestWrap_UnwrapReturnsCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, "failed")

	assert.True(t, errors.Is(err, cause))
}

func TestUserMessage_PlainErrorReturnsItself(t *testing.T) {
	plain := errors.New("a plain error")
	assert.Equal(t, "a plain error", UserMessage(plain))
}
