package service

import (
	"fmt"
	"strings"
	"unicode"
)

// Wordle 格子状态。
const (
	TileCorrect = "correct"
	TilePresent = "present"
	TileMiss    = "miss"
)

// WordleTile 单个字母的判定结果。
type WordleTile struct {
	Letter string `json:"letter"`
	Status string `json:"status"`
}

// WordleResult 一次猜测的完整判定。
type WordleResult struct {
	IsComplete bool         `json:"is_complete"`
	Tiles      []WordleTile `json:"tiles"`
}

func lettersOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return len(s) > 0
}

// EvaluateWordle 纯函数判定一次猜测。两趟扫描：先标记位置正确的
// 字母，再用剩余未匹配的目标字母标记 present，保证重复字母不会
// 被重复计入。
func EvaluateWordle(guess, target string) (*WordleResult, error) {
	guess = strings.ToLower(strings.TrimSpace(guess))
	target = strings.ToLower(strings.TrimSpace(target))
	if !lettersOnly(guess) || !lettersOnly(target) {
		return nil, fmt.Errorf("%w: only letters are allowed", ErrValidation)
	}

	guessRunes := []rune(guess)
	targetRunes := []rune(target)

	tiles := make([]WordleTile, len(guessRunes))
	for i, r := range guessRunes {
		tiles[i] = WordleTile{Letter: strings.ToUpper(string(r)), Status: TileMiss}
	}

	unmatched := make(map[rune]int)
	n := len(guessRunes)
	if len(targetRunes) < n {
		n = len(targetRunes)
	}
	for i := 0; i < n; i++ {
		if guessRunes[i] == targetRunes[i] {
			tiles[i].Status = TileCorrect
		} else {
			unmatched[targetRunes[i]]++
		}
	}
	for i := 0; i < n; i++ {
		if tiles[i].Status == TileCorrect {
			continue
		}
		if unmatched[guessRunes[i]] > 0 {
			tiles[i].Status = TilePresent
			unmatched[guessRunes[i]]--
		}
	}

	return &WordleResult{IsComplete: guess == target, Tiles: tiles}, nil
}
