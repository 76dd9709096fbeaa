package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCardStatus_Flags(t *testing.T) {
	s := CardStatusNone.With(LeftActionTaken).With(CardShown)

	assert.True(t, s.Has(CardShown))
	assert.True(t, s.Has(CardShown|LeftActionTaken))
	assert.False(t, s.Has(CardShown|RightActionTaken))
	assert.True(t, s.Has(CardStatusNone), "empty mask is always satisfied")
	assert.Equal(t, []string{"shown", "left"}, s.Flags())
}

func TestCardStatus_JSON(t *testing.T) {
	data, err := json.Marshal(CardShown | RightActionTaken)
	require.NoError(t, err)
	assert.JSONEq(t, `["shown","right"]`, string(data))

	data, err = json.Marshal(CardStatusNone)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	tests := []struct {
		name    string
		input   string
		want    CardStatus
		wantErr bool
	}{
		{name: "flag list", input: `["left","shown"]`, want: CardShown | LeftActionTaken},
		{name: "case insensitive", input: `["Right"]`, want: RightActionTaken},
		{name: "legacy number", input: `3`, want: CardShown | RightActionTaken},
		{name: "unknown bits dropped", input: `255`, want: CardShown | RightActionTaken | LeftActionTaken},
		{name: "unknown flag", input: `["burnt"]`, wantErr: true},
		{name: "wrong type", input: `"shown"`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got CardStatus
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCardStatus_YAML(t *testing.T) {
	var def PrerequisiteDefinition
	require.NoError(t, yaml.Unmarshal([]byte("cardId: 4\nstatus: [shown, right]\n"), &def))
	require.NotNil(t, def.CardID)
	assert.Equal(t, 4, *def.CardID)
	assert.Equal(t, CardShown|RightActionTaken, def.Status)

	err := yaml.Unmarshal([]byte("status: [sideways]\n"), &def)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
