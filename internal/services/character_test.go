package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibilityGatesTeamListing(t *testing.T) {
	db := newTestDB(t)
	chars := NewCharacterService(db)

	_, err := chars.Create("The Butler", "staff", "", "", true)
	require.NoError(t, err)
	hidden, err := chars.Create("The Killer", "???", "", "", false)
	require.NoError(t, err)

	visible, err := chars.ListVisible()
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "The Butler", visible[0].Name)

	all, err := chars.ListAll()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = chars.SetVisibility(hidden.ID, true)
	require.NoError(t, err)
	visible, err = chars.ListVisible()
	require.NoError(t, err)
	assert.Len(t, visible, 2)
}
