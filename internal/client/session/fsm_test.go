package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextState(t *testing.T) {
	tests := []struct {
		from State
		on   event
		want State
		ok   bool
	}{
		{Anonymous, eventRestore, Pending, true},
		{Pending, eventVerified, Authenticated, true},
		{Pending, eventClear, Anonymous, true},
		{Anonymous, eventLogin, Authenticated, true},
		{Authenticated, eventLogin, Authenticated, true},
		{Authenticated, eventClear, Anonymous, true},
		{Anonymous, eventVerified, Anonymous, false},
		{Anonymous, eventClear, Anonymous, false},
		{Authenticated, eventRestore, Authenticated, false},
		{Pending, eventLogin, Pending, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"/"+string(tt.on), func(t *testing.T) {
			got, err := nextState(tt.from, tt.on)
			assert.Equal(t, tt.want, got)
			if tt.ok {
				require.NoError(t, err)
				return
			}
			var noTr *ErrNoTransition
			require.True(t, errors.As(err, &noTr))
			assert.Equal(t, tt.from, noTr.From)
		})
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "anonymous", Anonymous.String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "authenticated", Authenticated.String())
	assert.Equal(t, "state(9)", State(9).String())
}
