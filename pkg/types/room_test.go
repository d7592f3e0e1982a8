package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomDecodesBackendDocument(t *testing.T) {
	raw := `{
		"_id":"r1","title":"Garden Suite","roomNumber":"12",
		"configurations":[{"roomType":"Double","price":4500.5,"numberOfBeds":1,"bedType":"Queen","maxPeople":2}],
		"pictures":["https://cdn/x/a.jpg"],"status":"available","starRating":4.5,
		"createdAt":"2024-05-01T10:00:00Z"
	}`
	var room Room
	require.NoError(t, json.Unmarshal([]byte(raw), &room))

	assert.Equal(t, "r1", room.ID)
	cfg, ok := room.Configuration("Double")
	require.True(t, ok)
	assert.True(t, cfg.Price.Equal(decimal.RequireFromString("4500.5")))
	assert.Equal(t, 2, cfg.MaxPeople)
	require.NotNil(t, room.CreatedAt)

	_, ok = room.Configuration("Single")
	assert.False(t, ok)
}

func TestMoneyEncodesAsNumber(t *testing.T) {
	out, err := json.Marshal(struct {
		Total Money `json:"total"`
	}{Total: NewMoney(decimal.RequireFromString("13500.00"))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":13500}`, string(out))

	var m Money
	require.NoError(t, json.Unmarshal([]byte(`"99.95"`), &m))
	assert.Equal(t, "99.95", m.String())
	require.NoError(t, json.Unmarshal([]byte(`null`), &m))
	assert.True(t, m.IsZero())
}
