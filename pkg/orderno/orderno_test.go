package orderno

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	before := time.Now()
	no := Generate()
	after := time.Now()

	require.Len(t, no, 21)
	for _, r := range no {
		assert.True(t, r >= '0' && r <= '9', "order number must be all digits, got %q", no)
	}

	ts, err := time.ParseInLocation("20060102150405", no[:14], time.Local)
	require.NoError(t, err)
	assert.False(t, ts.Before(before.Truncate(time.Second)))
	assert.False(t, ts.After(after))
}

func TestGenerateUniqueEnough(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[Generate()] = true
	}
	// The millisecond and random suffix keep collisions rare even in a
	// tight loop.
	assert.Greater(t, len(seen), 90)
}
