package errs_test

import (
	"errors"
	"testing"

	"github.com/relvacode/fat12nav/errs"
	"github.com/stretchr/testify/assert"
)

func TestShortRead_IsMatchable(t *testing.T) {
	err := errs.NewShortRead(512, 32, 10)
	assert.True(t, errors.Is(err, errs.ShortRead))
	assert.False(t, errors.Is(err, errs.UsageError))
}

func TestUsageError_IsMatchable(t *testing.T) {
	err := errs.UsageError.WithMessage("usage: fat12nav <command> IMAGE")
	assert.True(t, errors.Is(err, errs.UsageError))
	assert.False(t, errors.Is(err, errs.OpenFailed))
}

func TestWithMessage_PreservesKind(t *testing.T) {
	err := errs.DirectoryTooDeep.WithMessage("SUB/SUB/SUB")
	assert.True(t, errors.Is(err, errs.DirectoryTooDeep))
	assert.Contains(t, err.Error(), "SUB/SUB/SUB")
}

func TestWrapError_UnwrapsToCause(t *testing.T) {
	cause := errors.New("disk read failed")
	err := errs.OpenFailed.WrapError(cause)
	assert.ErrorIs(t, err, cause)
}
