package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDMarshalsAsString(t *testing.T) {
	// 2^53 + 3 is not representable as a float64, so it must travel as a
	// string.
	id := ID(9007199254740995)
	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"9007199254740995"`, string(data))
}

func TestIDUnmarshal(t *testing.T) {
	var id ID
	require.NoError(t, json.Unmarshal([]byte(`"9007199254740995"`), &id))
	assert.Equal(t, ID(9007199254740995), id)

	require.NoError(t, json.Unmarshal([]byte(`42`), &id))
	assert.Equal(t, ID(42), id)

	require.NoError(t, json.Unmarshal([]byte(`null`), &id))
	assert.Equal(t, ID(0), id)

	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &id))
}

func TestParseID(t *testing.T) {
	id, err := ParseID("123")
	require.NoError(t, err)
	assert.Equal(t, ID(123), id)

	_, err = ParseID("not-a-number")
	assert.Error(t, err)
}

func TestOrderStatusValid(t *testing.T) {
	for s := OrderAwaitingPayment; s <= OrderCancelled; s++ {
		assert.True(t, s.Valid())
	}
	assert.False(t, OrderStatus(-1).Valid())
	assert.False(t, OrderStatus(5).Valid())
}

func TestOrderStatusTransitions(t *testing.T) {
	// Every defined status may move to every defined status.
	for from := OrderAwaitingPayment; from <= OrderCancelled; from++ {
		for to := OrderAwaitingPayment; to <= OrderCancelled; to++ {
			assert.True(t, from.CanTransitionTo(to), "from %d to %d", from, to)
		}
	}
	assert.False(t, OrderAwaitingPayment.CanTransitionTo(OrderStatus(9)))
}
