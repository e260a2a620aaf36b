package amount

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	assert.True(t, Valid(0.1))
	assert.False(t, Valid(0))
	assert.False(t, Valid(-1))
	assert.False(t, Valid(math.NaN()))
	assert.False(t, Valid(math.Inf(1)))
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 1.85240914, Crypto(1.852409143))
	assert.Equal(t, 186.27, Fiat(186.267))
	assert.Equal(t, 0.0, Crypto(0.000000001))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 2.9, Percent(100, 2.9))
	assert.Equal(t, 0.0005, Percent(0.1, 0.5))
}

func TestFormatFiat(t *testing.T) {
	assert.Equal(t, "$1,234.50", FormatFiat(1234.5, "USD"))
}
