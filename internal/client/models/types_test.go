package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlag_DecodesIntsAndBools(t *testing.T) {
	tests := []struct {
		in   string
		want Flag
	}{
		{`1`, true},
		{`0`, false},
		{`true`, true},
		{`false`, false},
		{`null`, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var f Flag
			require.NoError(t, json.Unmarshal([]byte(tt.in), &f))
			assert.Equal(t, tt.want, f)
		})
	}

	var f Flag
	require.ErrorIs(t, json.Unmarshal([]byte(`2`), &f), ErrInvalidFlag)
}

func TestFlag_EncodesAsInt(t *testing.T) {
	b, err := json.Marshal(struct {
		A Flag `json:"a"`
		B Flag `json:"b"`
	}{A: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1,"b":0}`, string(b))
}

func TestMoney_AcceptsStringOrNumber(t *testing.T) {
	var p struct {
		A Money `json:"a"`
		B Money `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"19.99","b":5.5}`), &p))
	assert.Equal(t, Money("19.99"), p.A)
	assert.Equal(t, Money("5.5"), p.B)

	var m Money
	require.Error(t, json.Unmarshal([]byte(`{}`), &m))
}

func TestIdentity_DecodesServerShape(t *testing.T) {
	raw := `{"id":7,"name":"Ann","email":"a@b.com","phone":null,"is_active":1,"is_admin":1}`

	var id Identity
	require.NoError(t, json.Unmarshal([]byte(raw), &id))
	assert.Equal(t, int64(7), id.ID)
	assert.True(t, bool(id.IsAdmin))
	assert.Empty(t, id.Phone)
}

func TestOrderStatus_Valid(t *testing.T) {
	assert.True(t, OrderShipped.Valid())
	assert.False(t, OrderStatus("lost").Valid())
}
