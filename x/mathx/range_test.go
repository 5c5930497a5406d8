package mathx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithin(t *testing.T) {
	assert.True(t, Within(1, 1, 0x7f))
	assert.True(t, Within(0x7f, 1, 0x7f))
	assert.False(t, Within(0, 1, 0x7f))
	assert.False(t, Within(0x80, 1, 0x7f))
	assert.True(t, Within(5, 10, 0), "bounds are order-insensitive")
	assert.True(t, Within[int64](-3, -5, 5))
}

func TestOrDefault(t *testing.T) {
	v, ok := OrDefault(200, 1, 10000, 1000)
	assert.True(t, ok)
	assert.Equal(t, 200, v)

	v, ok = OrDefault(20000, 1, 10000, 1000)
	assert.False(t, ok)
	assert.Equal(t, 1000, v)
}
