package service

import (
	"strings"
	"testing"

	"github.com/d1may/LanguageAPP/internal/wordlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChain(t *testing.T) *WordChainService {
	t.Helper()
	words, err := wordlist.Load()
	require.NoError(t, err)
	return NewWordChainService(newTestDB(t), words)
}

func TestChainAddAndList(t *testing.T) {
	svc := newTestChain(t)

	require.NoError(t, svc.AddWord(1, "Apple"))
	require.NoError(t, svc.AddWord(1, "elephant"))

	// Normalization makes the duplicate check case-insensitive.
	assert.ErrorIs(t, svc.AddWord(1, "  APPLE "), ErrAlreadyUsed)
	assert.ErrorIs(t, svc.AddWord(1, ""), ErrValidation)

	words, err := svc.ListWords(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"elephant", "apple"}, words)

	// Another player has an independent history.
	require.NoError(t, svc.AddWord(2, "apple"))
}

func TestChainClear(t *testing.T) {
	svc := newTestChain(t)
	require.NoError(t, svc.AddWord(1, "apple"))

	require.NoError(t, svc.Clear(1))

	words, err := svc.ListWords(1)
	require.NoError(t, err)
	assert.Empty(t, words)

	// The word is playable again after a clear.
	assert.NoError(t, svc.AddWord(1, "apple"))
}

func TestBotTurn(t *testing.T) {
	svc := newTestChain(t)
	require.NoError(t, svc.AddWord(1, "focus"))

	word, err := svc.BotTurn(1, "focus", "en")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(word, "s"), "bot word %q must start with the last letter", word)

	// The bot's word joins the session history.
	words, err := svc.ListWords(1)
	require.NoError(t, err)
	assert.Contains(t, words, word)

	_, err = svc.BotTurn(1, "", "en")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBotTurn_NoWordLeft(t *testing.T) {
	svc := newTestChain(t)

	// Mark every word the bot could answer with as already used.
	words, err := wordlist.Load()
	require.NoError(t, err)
	seen := make(map[string]struct{})
	for {
		w, err := words.ChainCandidate("en", 'q', func(c string) bool {
			_, ok := seen[c]
			return ok
		})
		if err != nil {
			break
		}
		seen[w] = struct{}{}
		require.NoError(t, svc.AddWord(1, w))
	}
	require.NotEmpty(t, seen, "the list should contain q-words for this test")

	_, err = svc.BotTurn(1, "iraq", "en")
	assert.ErrorIs(t, err, ErrNoBotWord)
}
