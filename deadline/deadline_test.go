package deadline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNeverIsNeverReached(t *testing.T) {
	d := Never()
	assert.True(t, d.IsNever())
	assert.False(t, d.IsReached())
}

func TestPastDeadlineIsReached(t *testing.T) {
	d := At(time.Now().Add(-time.Millisecond))
	assert.True(t, d.IsReached())
}

func TestFutureDeadlineNotYetReached(t *testing.T) {
	d := In(time.Hour)
	assert.False(t, d.IsReached())
	assert.InDelta(t, time.Hour, d.Remaining(), float64(time.Second))
}
