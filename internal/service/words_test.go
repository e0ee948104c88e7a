package service

import (
	"testing"

	"github.com/d1may/LanguageAPP/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRate_UpsertPerUserWord(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewWordsService(gdb)

	first, err := svc.Rate(1, "serendipity", "hard", nil, nil, "en")
	require.NoError(t, err)
	assert.Equal(t, "hard", first.Status)

	// Rating the same word again updates in place.
	again, err := svc.Rate(1, "serendipity", "easy", nil, nil, "en")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "easy", again.Status)

	var count int64
	require.NoError(t, gdb.Model(&models.WordRating{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// A different user gets their own row.
	_, err = svc.Rate(2, "serendipity", "ok", nil, nil, "en")
	require.NoError(t, err)
	require.NoError(t, gdb.Model(&models.WordRating{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestListAndBuckets(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewWordsService(gdb)

	seed := []struct {
		word, status, lang string
	}{
		{"alpha", "easy", "en"},
		{"beta", "ok", "en"},
		{"gamma", "hard", "en"},
		{"delta", "easy", "de"},
	}
	for _, s := range seed {
		_, err := svc.Rate(1, s.word, s.status, nil, nil, s.lang)
		require.NoError(t, err)
	}

	all, err := svc.List(1, "", 10)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "delta", all[0].Word, "most recent first")

	english, err := svc.List(1, "en", 10)
	require.NoError(t, err)
	assert.Len(t, english, 3)

	hard, err := svc.ListByStatus(1, "hard", "", 10)
	require.NoError(t, err)
	require.Len(t, hard, 1)
	assert.Equal(t, "gamma", hard[0].Word)

	lib, err := svc.GetLibrary(1, "en", 10)
	require.NoError(t, err)
	assert.Len(t, lib.Recent, 3)
	assert.Len(t, lib.High, 1)   // easy
	assert.Len(t, lib.Medium, 1) // ok
	assert.Len(t, lib.Low, 1)    // hard
}

func TestUpdateMeta(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewWordsService(gdb)

	rec, err := svc.Rate(1, "alpha", "ok", nil, nil, "en")
	require.NoError(t, err)

	_, err = svc.UpdateMeta(1, rec.ID, MetaUpdate{})
	assert.ErrorIs(t, err, ErrNothingToDo)

	out, err := svc.UpdateMeta(1, rec.ID, MetaUpdate{Translation: strp("  der Anfang  ")})
	require.NoError(t, err)
	require.NotNil(t, out.Translation)
	assert.Equal(t, "der Anfang", *out.Translation, "meta values are trimmed")
	assert.Nil(t, out.Comment, "untouched field stays as is")

	// Blank input clears the field.
	out, err = svc.UpdateMeta(1, rec.ID, MetaUpdate{Translation: strp("   ")})
	require.NoError(t, err)
	assert.Nil(t, out.Translation)

	_, err = svc.UpdateMeta(1, 9999, MetaUpdate{Comment: strp("note")})
	assert.ErrorIs(t, err, ErrRatingNotFound)

	_, err = svc.UpdateMeta(2, rec.ID, MetaUpdate{Comment: strp("note")})
	assert.ErrorIs(t, err, ErrRatingNotFound)
}

func TestValidRating(t *testing.T) {
	for _, ok := range []string{"hard", "ok", "easy", "Easy"} {
		assert.True(t, ValidRating(ok), ok)
	}
	for _, bad := range []string{"", "medium", "fine"} {
		assert.False(t, ValidRating(bad), bad)
	}
}
