package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPending_SuccessKeepsChange(t *testing.T) {
	value := 1
	p := Begin(func() int { old := value; value = 2; return old }, func(old int) { value = old })

	assert.NoError(t, p.Settle(nil))
	assert.Equal(t, 2, value)
}

func TestPending_FailureReverts(t *testing.T) {
	value := 1
	p := Begin(func() int { old := value; value = 2; return old }, func(old int) { value = old })

	assert.ErrorIs(t, p.Settle(errBackendDown), errBackendDown)
	assert.Equal(t, 1, value)
}

func TestPending_SettleOnce(t *testing.T) {
	reverts := 0
	p := Begin(func() struct{} { return struct{}{} }, func(struct{}) { reverts++ })

	assert.Error(t, p.Settle(errBackendDown))
	assert.Error(t, p.Settle(errBackendDown))
	assert.Equal(t, 1, reverts)
}

func TestGuard(t *testing.T) {
	var g Guard[string]
	assert.False(t, g.Active("a"))
	assert.True(t, g.Acquire("a"))
	assert.False(t, g.Acquire("a"))
	assert.True(t, g.Acquire("b"))
	g.Release("a")
	assert.True(t, g.Acquire("a"))
	g.Reset()
	assert.False(t, g.Active("b"))
}
