package debug

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugLabels(t *testing.T) {
	os.Setenv("COTASKDEBUG", "CV;WAITLIST")
	defer os.Unsetenv("COTASKDEBUG")

	m := debugLabels()
	assert.True(t, m["CV"])
	assert.True(t, m["WAITLIST"])
	assert.False(t, m["OTHER"])
}

func TestDebugLabelsEmpty(t *testing.T) {
	os.Unsetenv("COTASKDEBUG")
	m := debugLabels()
	assert.Empty(t, m)
}
