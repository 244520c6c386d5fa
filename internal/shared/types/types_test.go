package types

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileClone(t *testing.T) {
	var nilProfile *Profile
	assert.Nil(t, nilProfile.Clone())

	p := &Profile{ID: "u1", Name: "Ana", HasWorkspaceHint: true}
	cp := p.Clone()
	cp.Name = "Bea"

	assert.Equal(t, "Ana", p.Name)
	assert.True(t, cp.HasWorkspaceHint)
}

func TestCloneWorkspaces(t *testing.T) {
	assert.Nil(t, CloneWorkspaces(nil))
	assert.NotNil(t, CloneWorkspaces([]Workspace{}))

	list := []Workspace{{ID: "g1"}, {ID: "g2"}}
	cp := CloneWorkspaces(list)
	cp[0].Name = "changed"

	assert.Empty(t, list[0].Name)
	assert.Equal(t, 1, FindWorkspace(list, "g2"))
	assert.Equal(t, -1, FindWorkspace(list, "g3"))
}

func TestWorkspaceWireNames(t *testing.T) {
	raw := `{"_id":"g1","name":"Iron","opening_time":"06:00","closing_time":"22:00","createdAt":"2024-03-01T10:00:00Z"}`

	var w Workspace
	require.NoError(t, sonic.UnmarshalString(raw, &w))

	assert.Equal(t, "g1", w.ID)
	assert.Equal(t, "06:00", w.OpeningTime)
	assert.Equal(t, "22:00", w.ClosingTime)
	assert.Equal(t, 2024, w.CreatedAt.Year())
}

func TestProfileUpdateEmpty(t *testing.T) {
	assert.True(t, ProfileUpdate{}.Empty())
	assert.False(t, ProfileUpdate{Email: "a@b.c"}.Empty())
}
