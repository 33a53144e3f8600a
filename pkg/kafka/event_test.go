package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent_PopulatesEnvelope(t *testing.T) {
	event, err := NewEvent("bakery.pos.sale.completed", "sale-1", "sale", "bakery-pos", map[string]any{"subtotal": 27.0})
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "bakery.pos.sale.completed", event.EventType)
	assert.Equal(t, "sale-1", event.AggregateID)
	assert.Equal(t, "sale", event.AggregateType)
	assert.Equal(t, 1, event.Version)
	assert.False(t, event.Timestamp.IsZero())
	assert.JSONEq(t, `{"subtotal":27}`, string(event.Data))
}

func TestNewEvent_UnserializableData(t *testing.T) {
	_, err := NewEvent("x", "y", "z", "s", make(chan int))
	assert.Error(t, err)
}

func TestEvent_MarshalRoundTrip(t *testing.T) {
	event, err := NewEvent("bakery.pos.inventory.updated", "cake-choc", "inventory", "bakery-pos", map[string]int{"available": 7})
	require.NoError(t, err)
	event.WithCorrelationID("corr-1")

	data, err := event.Marshal()
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, event.EventID, got.EventID)
	assert.Equal(t, "corr-1", got.CorrelationID)
}
