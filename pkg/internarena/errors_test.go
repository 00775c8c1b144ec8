package internarena

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrorMessageIncludesInputLength checks the Error() string is useful
// for diagnosing which insert blew a budget without leaking the string
// itself (only its length is reported).
func TestErrorMessageIncludesInputLength(t *testing.T) {
	err := newError(CodeMemoryLimitReached, "abcdef")
	assert.Contains(t, err.Error(), "memory limit reached")
	assert.Contains(t, err.Error(), "6 bytes")
}

// TestErrorMessageOmitsInputWhenEmpty checks the no-input form of the
// message, used by internal callers that don't have the original string.
func TestErrorMessageOmitsInputWhenEmpty(t *testing.T) {
	err := newError(CodeKeySpaceExhausted, "")
	assert.NotContains(t, err.Error(), "bytes")
}

func TestCodeStringValues(t *testing.T) {
	assert.Equal(t, "memory limit reached", CodeMemoryLimitReached.String())
	assert.Equal(t, "key space exhausted", CodeKeySpaceExhausted.String())
	assert.Equal(t, "allocation failed", CodeAllocationFailed.String())
}
