package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndApplySub(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SaveAnimes(db, testAnimes()))

	s, err := SaveAndApplySub(db, "studio", "Bones", "Bones Inc.")
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.Records)

	list, err := GetAnimeLike(db, "Fullmetal", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Bones Inc.", list[0].Studio)
}

func TestSaveAndApplySub_Validation(t *testing.T) {
	db := setupTestDB(t)

	_, err := SaveAndApplySub(db, "title", "a", "b")
	assert.Error(t, err)

	_, err = SaveAndApplySub(db, "studio", "", "b")
	assert.Error(t, err)

	_, err = SaveAndApplySub(db, "studio", "a", "")
	assert.Error(t, err)

	_, err = SaveAndApplySub(nil, "studio", "a", "b")
	assert.Error(t, err)
}

func TestApplySubs_ReplaysAfterImport(t *testing.T) {
	db := setupTestDB(t)

	_, err := SaveAndApplySub(db, "studio", "Sunrise", "Sunrise (Bandai Namco)")
	require.NoError(t, err)

	// new rows arrive with the old spelling, replay standardizes them
	require.NoError(t, SaveAnimes(db, testAnimes()))
	subs, err := ApplySubs(db)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, int64(1), subs[0].Records)

	list, err := GetAnimeLike(db, "Cowboy", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Sunrise (Bandai Namco)", list[0].Studio)
}

func TestGetSubs_Upsert(t *testing.T) {
	db := setupTestDB(t)

	_, err := SaveAndApplySub(db, "rating", "R - 17+", "R17")
	require.NoError(t, err)
	_, err = SaveAndApplySub(db, "rating", "R - 17+", "R-17")
	require.NoError(t, err)

	subs, err := GetSubs(db)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "R-17", subs[0].New)
}
