package service

import (
	"strings"
	"testing"
	"time"

	"github.com/d1may/LanguageAPP/internal/models"
	"github.com/d1may/LanguageAPP/internal/review"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestFlashcards(t *testing.T) (*FlashcardService, *gorm.DB) {
	t.Helper()
	gdb := newTestDB(t)
	return NewFlashcardService(gdb), gdb
}

func mustDeck(t *testing.T, svc *FlashcardService, userID uint, title string) uint {
	t.Helper()
	deck, err := svc.SaveDeck(userID, title, "desc", nil, "en")
	require.NoError(t, err)
	return deck.ID
}

func strp(s string) *string { return &s }

func TestSaveDeck_UpsertByTitle(t *testing.T) {
	svc, _ := newTestFlashcards(t)

	first, err := svc.SaveDeck(1, "Basics", "old desc", nil, "en")
	require.NoError(t, err)

	again, err := svc.SaveDeck(1, "Basics", "new desc", strp("travel"), "en")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID, "same title must update, not duplicate")
	assert.Equal(t, "new desc", again.Description)

	decks, err := svc.ListDecks(1)
	require.NoError(t, err)
	assert.Len(t, decks, 1)

	// Another user can reuse the title.
	_, err = svc.SaveDeck(2, "Basics", "desc", nil, "en")
	assert.NoError(t, err)
}

func TestUpdateDeck(t *testing.T) {
	svc, _ := newTestFlashcards(t)
	id := mustDeck(t, svc, 1, "Basics")
	mustDeck(t, svc, 1, "Advanced")

	_, err := svc.UpdateDeck(1, id, "Advanced", "desc", nil, "en")
	assert.ErrorIs(t, err, ErrDeckTitleTaken)

	updated, err := svc.UpdateDeck(1, id, "Renamed", "new", nil, "de")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "de", updated.Lang)

	_, err = svc.UpdateDeck(1, 9999, "X", "desc", nil, "en")
	assert.ErrorIs(t, err, ErrDeckNotFound)

	// A deck is invisible to other users.
	_, err = svc.UpdateDeck(2, id, "X", "desc", nil, "en")
	assert.ErrorIs(t, err, ErrDeckNotFound)
}

func TestDeleteDeck_CascadesWords(t *testing.T) {
	svc, gdb := newTestFlashcards(t)
	id := mustDeck(t, svc, 1, "Basics")
	_, err := svc.SaveWord(id, "apple", "a fruit", nil, nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDeck(1, id))

	var count int64
	require.NoError(t, gdb.Model(&models.FlashcardWord{}).Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, svc.DeleteDeck(1, id), ErrDeckNotFound)
}

func TestSaveWord_UpsertByWord(t *testing.T) {
	svc, _ := newTestFlashcards(t)
	id := mustDeck(t, svc, 1, "Basics")

	first, err := svc.SaveWord(id, "apple", "a fruit", nil, nil)
	require.NoError(t, err)
	assert.Nil(t, first.Example)
	assert.Nil(t, first.Difficulty)

	again, err := svc.SaveWord(id, "apple", "a round fruit", strp("an apple a day"), nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "a round fruit", again.Definition)
	require.NotNil(t, again.Example)
	assert.Nil(t, again.Difficulty, "difficulty untouched when not provided")

	words, err := svc.ListWords(id)
	require.NoError(t, err)
	assert.Len(t, words, 1)
}

func TestUpdateWord(t *testing.T) {
	svc, _ := newTestFlashcards(t)
	id := mustDeck(t, svc, 1, "Basics")
	apple, err := svc.SaveWord(id, "apple", "a fruit", nil, nil)
	require.NoError(t, err)
	_, err = svc.SaveWord(id, "pear", "another fruit", nil, nil)
	require.NoError(t, err)

	_, err = svc.UpdateWord(id, apple.ID, "pear", "oops", nil)
	assert.ErrorIs(t, err, ErrWordExists)

	updated, err := svc.UpdateWord(id, apple.ID, "apricot", "a stone fruit", strp("ripe apricot"))
	require.NoError(t, err)
	assert.Equal(t, "apricot", updated.Word)

	_, err = svc.UpdateWord(id, 9999, "x", "y", nil)
	assert.ErrorIs(t, err, ErrWordNotFound)
}

func TestDeleteWord(t *testing.T) {
	svc, _ := newTestFlashcards(t)
	id := mustDeck(t, svc, 1, "Basics")
	w, err := svc.SaveWord(id, "apple", "a fruit", nil, nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteWord(id, w.ID))
	assert.ErrorIs(t, svc.DeleteWord(id, w.ID), ErrWordNotFound)
}

func TestReviewWord_Ratchet(t *testing.T) {
	tests := []struct {
		name     string
		current  *string
		reported string
		want     string
	}{
		{"hard reporting easy becomes medium", strp("hard"), "easy", "medium"},
		{"unrated reporting easy becomes medium", nil, "easy", "medium"},
		{"medium reporting easy becomes easy", strp("medium"), "easy", "easy"},
		{"easy reporting hard becomes hard", strp("easy"), "hard", "hard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestFlashcards(t)
			id := mustDeck(t, svc, 1, "Basics")
			w, err := svc.SaveWord(id, "apple", "a fruit", nil, tt.current)
			require.NoError(t, err)

			out, err := svc.ReviewWord(id, w.ID, tt.reported)
			require.NoError(t, err)
			require.NotNil(t, out.Difficulty)
			assert.Equal(t, tt.want, *out.Difficulty)
			require.NotNil(t, out.LastReview, "every review stamps last_review")
			assert.WithinDuration(t, time.Now(), *out.LastReview, 5*time.Second)
		})
	}
}

func TestReviewWord_InvalidDifficulty(t *testing.T) {
	svc, _ := newTestFlashcards(t)
	id := mustDeck(t, svc, 1, "Basics")
	w, err := svc.SaveWord(id, "apple", "a fruit", nil, nil)
	require.NoError(t, err)

	_, err = svc.ReviewWord(id, w.ID, "impossible")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCountsAndPickSession(t *testing.T) {
	svc, gdb := newTestFlashcards(t)
	id := mustDeck(t, svc, 1, "Basics")

	fresh := time.Now().Add(-time.Hour)
	boundary := time.Now().Add(-review.Window)
	stale := time.Now().Add(-10 * 24 * time.Hour)

	seed := []models.FlashcardWord{
		{DeckID: id, Word: "never", Definition: "d"},                                                         // never reviewed: due
		{DeckID: id, Word: "hardone", Definition: "d", Difficulty: strp("hard"), LastReview: &fresh},          // hard: due
		{DeckID: id, Word: "easyfresh", Definition: "d", Difficulty: strp("easy"), LastReview: &fresh},        // inside window: not due
		{DeckID: id, Word: "mediumfresh", Definition: "d", Difficulty: strp("medium"), LastReview: &fresh},    // inside window: not due
		{DeckID: id, Word: "easyboundary", Definition: "d", Difficulty: strp("easy"), LastReview: &boundary},  // exactly 3 days: due
		{DeckID: id, Word: "easystale", Definition: "d", Difficulty: strp("easy"), LastReview: &stale},        // outside window: due
	}
	for i := range seed {
		require.NoError(t, gdb.Create(&seed[i]).Error)
	}

	counts, err := svc.Counts(1)
	require.NoError(t, err)
	assert.Equal(t, int64(6), counts.Total)
	assert.Equal(t, int64(4), counts.Due)

	session, err := svc.PickSession(1, "en", 10)
	require.NoError(t, err)
	require.Len(t, session, 4)
	for _, card := range session {
		assert.NotContains(t, []string{"easyfresh", "mediumfresh"}, card.Word)
	}

	// The limit caps the draw.
	session, err = svc.PickSession(1, "en", 2)
	require.NoError(t, err)
	assert.Len(t, session, 2)

	// No decks for the language means an empty session.
	session, err = svc.PickSession(1, "de", 10)
	require.NoError(t, err)
	assert.Empty(t, session)
}

func TestCounts_NoDecks(t *testing.T) {
	svc, _ := newTestFlashcards(t)
	counts, err := svc.Counts(42)
	require.NoError(t, err)
	assert.Zero(t, counts.Total)
	assert.Zero(t, counts.Due)
}

func TestExportCSV(t *testing.T) {
	svc, _ := newTestFlashcards(t)
	id := mustDeck(t, svc, 1, "Basics")
	_, err := svc.SaveWord(id, "apple", "a fruit", strp("an apple a day"), strp("easy"))
	require.NoError(t, err)
	_, err = svc.SaveWord(id, "pear", "another fruit", nil, nil)
	require.NoError(t, err)

	out, err := svc.ExportCSV(1, id)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "word,definition,example,difficulty", lines[0])
	assert.Contains(t, lines, "apple,a fruit,an apple a day,easy")
	assert.Contains(t, lines, "pear,another fruit,,")

	_, err = svc.ExportCSV(2, id)
	assert.ErrorIs(t, err, ErrDeckNotFound)
}

func TestImportCSV(t *testing.T) {
	svc, _ := newTestFlashcards(t)
	id := mustDeck(t, svc, 1, "Basics")

	t.Run("minimal header yields unset optionals", func(t *testing.T) {
		report, err := svc.ImportCSV(1, id, strings.NewReader("word,definition\napple,a fruit\n"))
		require.NoError(t, err)
		assert.Equal(t, 1, report.Imported)
		assert.Empty(t, report.RowErrors)

		words, err := svc.ListWords(id)
		require.NoError(t, err)
		require.Len(t, words, 1)
		assert.Equal(t, "apple", words[0].Word)
		assert.Nil(t, words[0].Example)
		assert.Nil(t, words[0].Difficulty)
	})

	t.Run("column order does not matter", func(t *testing.T) {
		report, err := svc.ImportCSV(1, id, strings.NewReader("difficulty,definition,word\nhard,a tree,oak\n"))
		require.NoError(t, err)
		assert.Equal(t, 1, report.Imported)

		words, err := svc.ListWords(id)
		require.NoError(t, err)
		for _, w := range words {
			if w.Word == "oak" {
				require.NotNil(t, w.Difficulty)
				assert.Equal(t, "hard", *w.Difficulty)
			}
		}
	})

	t.Run("missing required column is rejected", func(t *testing.T) {
		_, err := svc.ImportCSV(1, id, strings.NewReader("word,example\napple,tasty\n"))
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("row errors accumulate without blocking good rows", func(t *testing.T) {
		csvData := "word,definition,difficulty\n" +
			"good,fine,easy\n" +
			",missing word,\n" +
			"bad,ok,impossible\n" +
			"alsogood,fine,\n"
		report, err := svc.ImportCSV(1, id, strings.NewReader(csvData))
		require.NoError(t, err)
		assert.Equal(t, 2, report.Imported)
		assert.Len(t, report.RowErrors, 2)
	})

	t.Run("foreign deck is not importable", func(t *testing.T) {
		_, err := svc.ImportCSV(2, id, strings.NewReader("word,definition\na,b\n"))
		assert.ErrorIs(t, err, ErrDeckNotFound)
	})
}
