package color

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestColorRole_PlainWhenDisabled(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	assert.Equal(t, "assistant>", ColorRole("assistant", "assistant>"))
	assert.Equal(t, "user>", ColorRole("user", "user>"))
	assert.Equal(t, "oops", ColorError("oops"))
}
