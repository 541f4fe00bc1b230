package chainerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssertPassesOnTrueCondition(t *testing.T) {
	assert.NoError(t, Assert(true, "should not fire"))
}

func TestAssertFailsOnFalseCondition(t *testing.T) {
	err := Assert(false, "invariant violated")
	assert.EqualError(t, err, "invariant violated")
}

func TestBestEffortRoundTrip(t *testing.T) {
	cause := errors.New("evaluator rejected operation")
	wrapped := BestEffort(cause)
	assert.True(t, IsBestEffort(wrapped))
	assert.False(t, IsBestEffort(cause))
}

func TestBestEffortNilIsNil(t *testing.T) {
	assert.Nil(t, BestEffort(nil))
}

func TestFatalWrapsWithMessage(t *testing.T) {
	err := Fatal(errors.New("missing singleton"), "maint: lookup failed")
	assert.Contains(t, err.Error(), "maint: lookup failed")
	assert.Contains(t, err.Error(), "missing singleton")
}
