package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cnserrors "github.com/NVIDIA/phaser/pkg/errors"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		explicit  string
		caller    string
		local     string
		want      string
		wantError cnserrors.ErrorCode
	}{
		{name: "namespace defaults to caller", explicit: "", caller: "example", local: "furnace", want: "example:furnace"},
		{name: "explicit namespace wins", explicit: "other", caller: "example", local: "furnace", want: "other:furnace"},
		{name: "whitespace namespace defaults", explicit: "  ", caller: "example", local: "ore", want: "example:ore"},
		{name: "empty name", explicit: "", caller: "example", local: "", wantError: cnserrors.ErrCodeEmptyName},
		{name: "empty name with explicit namespace", explicit: "other", caller: "example", local: " ", wantError: cnserrors.ErrCodeEmptyName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := Resolve(tt.explicit, tt.caller, tt.local)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantError, cnserrors.CodeOf(err))
				assert.True(t, k.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, k.String())
		})
	}
}

func TestParse(t *testing.T) {
	k, err := Parse("other:chest", "example")
	require.NoError(t, err)
	assert.Equal(t, Key{Namespace: "other", Name: "chest"}, k)

	k, err = Parse("chest", "example")
	require.NoError(t, err)
	assert.Equal(t, "example:chest", k.String())

	_, err = Parse(":chest", "example")
	assert.Equal(t, cnserrors.ErrCodeInvalidRequest, cnserrors.CodeOf(err))

	_, err = Parse("example:", "example")
	assert.Equal(t, cnserrors.ErrCodeEmptyName, cnserrors.CodeOf(err))
}

func TestWithSuffix(t *testing.T) {
	k := Key{Namespace: "example", Name: "oil"}
	assert.Equal(t, "example:oil_flowing", k.WithSuffix("_flowing").String())
	assert.Equal(t, "example:oil", k.String())
}
