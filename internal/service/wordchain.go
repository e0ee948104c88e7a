package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/d1may/LanguageAPP/internal/models"
	"github.com/d1may/LanguageAPP/internal/wordlist"
	"gorm.io/gorm"
)

// WordChainService 封装接龙游戏的会话历史与机器人出词。
type WordChainService struct {
	db    *gorm.DB
	words *wordlist.List
}

func NewWordChainService(db *gorm.DB, words *wordlist.List) *WordChainService {
	return &WordChainService{db: db, words: words}
}

// AddWord 记录玩家用过的单词，重复使用视为冲突。
func (s *WordChainService) AddWord(userID uint, word string) error {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return ErrValidation
	}
	var count int64
	if err := s.db.Model(&models.WordChainEntry{}).
		Where("user_id = ? AND used_word = ?", userID, word).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyUsed
	}
	return s.db.Create(&models.WordChainEntry{UserID: userID, UsedWord: word}).Error
}

// ListWords 返回本局已用过的单词，最近的在前。
func (s *WordChainService) ListWords(userID uint) ([]string, error) {
	var entries []models.WordChainEntry
	if err := s.db.Where("user_id = ?", userID).Order("id desc").Find(&entries).Error; err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.UsedWord)
	}
	return out, nil
}

// Clear 清空本局历史。
func (s *WordChainService) Clear(userID uint) error {
	return s.db.Where("user_id = ?", userID).Delete(&models.WordChainEntry{}).Error
}

// BotTurn 机器人出词：取玩家单词的末字母，从词表中挑一个本局
// 未出现过的单词并记录。无词可出返回 ErrNoBotWord。
func (s *WordChainService) BotTurn(userID uint, lastWord, lang string) (string, error) {
	lastWord = strings.ToLower(strings.TrimSpace(lastWord))
	if lastWord == "" {
		return "", ErrValidation
	}
	last, _ := utf8.DecodeLastRuneInString(lastWord)

	used, err := s.ListWords(userID)
	if err != nil {
		return "", err
	}
	usedSet := make(map[string]struct{}, len(used))
	for _, w := range used {
		usedSet[w] = struct{}{}
	}

	candidate, err := s.words.ChainCandidate(lang, last, func(w string) bool {
		_, ok := usedSet[w]
		return ok
	})
	if err != nil {
		if errors.Is(err, wordlist.ErrNoWord) {
			return "", ErrNoBotWord
		}
		return "", err
	}
	if err := s.db.Create(&models.WordChainEntry{UserID: userID, UsedWord: candidate}).Error; err != nil {
		return "", err
	}
	return candidate, nil
}
