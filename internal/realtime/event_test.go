package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"id":     "b2c3d4e5-0000-0000-0000-000000000000",
		"amount": "100.00",
	}

	before := time.Now()
	evt := NewEvent(EventTypeCreated, EntityTypeExpense, payload)
	after := time.Now()

	assert.Equal(t, "expense.created", evt.Type)
	assert.Equal(t, EntityTypeExpense, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before.UTC()) && !evt.Timestamp.After(after.UTC()))
}

func TestEvent_ToJSON(t *testing.T) {
	evt := NewEvent(EventTypeUpdated, EntityTypeCategory, map[string]interface{}{"name": "Travel"})

	data, err := evt.ToJSON()
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	var decoded map[string]interface{}
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, "category.updated", decoded["type"])
	assert.Equal(t, "category", decoded["entity"])
	assert.NotNil(t, decoded["payload"])
	assert.NotNil(t, decoded["timestamp"])
}

func TestExpenseEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{"amount": "50.00"}

	t.Run("ExpenseCreated", func(t *testing.T) {
		evt := ExpenseCreated(payload)
		assert.Equal(t, "expense.created", evt.Type)
		assert.Equal(t, EntityTypeExpense, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("ExpenseUpdated", func(t *testing.T) {
		evt := ExpenseUpdated(payload)
		assert.Equal(t, "expense.updated", evt.Type)
		assert.Equal(t, EntityTypeExpense, evt.Entity)
	})

	t.Run("ExpenseDeleted", func(t *testing.T) {
		evt := ExpenseDeleted(payload)
		assert.Equal(t, "expense.deleted", evt.Type)
		assert.Equal(t, EntityTypeExpense, evt.Entity)
	})
}

func TestCategoryEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{"name": "Office"}

	t.Run("CategoryCreated", func(t *testing.T) {
		evt := CategoryCreated(payload)
		assert.Equal(t, "category.created", evt.Type)
		assert.Equal(t, EntityTypeCategory, evt.Entity)
	})

	t.Run("CategoryUpdated", func(t *testing.T) {
		evt := CategoryUpdated(payload)
		assert.Equal(t, "category.updated", evt.Type)
	})

	t.Run("CategoryDeleted", func(t *testing.T) {
		evt := CategoryDeleted(payload)
		assert.Equal(t, "category.deleted", evt.Type)
	})
}
