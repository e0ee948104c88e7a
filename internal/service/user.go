package service

import (
	"errors"

	"github.com/d1may/LanguageAPP/internal/models"
	"gorm.io/gorm"
)

// UserService 封装用户设置与游戏统计。
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Profile 当前登录用户的公开信息。
type Profile struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	WordLang string `json:"random_word_lang"`
	Theme    string `json:"theme"`
}

// GetProfile 返回当前用户的公开信息。
func (s *UserService) GetProfile(userID uint) (*Profile, error) {
	user, err := s.get(userID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		WordLang: user.WordLang,
		Theme:    user.Theme,
	}, nil
}

// Settings 用户偏好设置。
type Settings struct {
	WordLang string `json:"random_word_lang"`
	Theme    string `json:"theme"`
}

func (s *UserService) get(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return &user, nil
}

// GetSettings 返回用户当前偏好。
func (s *UserService) GetSettings(userID uint) (*Settings, error) {
	user, err := s.get(userID)
	if err != nil {
		return nil, err
	}
	return &Settings{WordLang: user.WordLang, Theme: user.Theme}, nil
}

// UpdateSettings 更新语言与主题偏好。取值由 handler 层校验。
func (s *UserService) UpdateSettings(userID uint, in Settings) (*Settings, error) {
	user, err := s.get(userID)
	if err != nil {
		return nil, err
	}
	user.WordLang = in.WordLang
	user.Theme = in.Theme
	if err := s.db.Model(user).Updates(map[string]interface{}{
		"word_lang": in.WordLang,
		"theme":     in.Theme,
	}).Error; err != nil {
		return nil, err
	}
	return &Settings{WordLang: user.WordLang, Theme: user.Theme}, nil
}

// WordleStats 对外输出的 Wordle 战绩。
type WordleStats struct {
	Plays  int `json:"plays"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Streak int `json:"streak"`
}

// GetWordleStats 返回用户的 Wordle 战绩。
func (s *UserService) GetWordleStats(userID uint) (*WordleStats, error) {
	user, err := s.get(userID)
	if err != nil {
		return nil, err
	}
	return &WordleStats{
		Plays:  user.WordlePlays,
		Wins:   user.WordleWins,
		Losses: user.WordleLosses,
		Streak: user.WordleStreak,
	}, nil
}

// RecordWordleResult 记录一局结果：胜利累加连胜，失败清零连胜。
func (s *UserService) RecordWordleResult(userID uint, isWin bool) (*WordleStats, error) {
	user, err := s.get(userID)
	if err != nil {
		return nil, err
	}
	user.WordlePlays++
	if isWin {
		user.WordleWins++
		user.WordleStreak++
	} else {
		user.WordleLosses++
		user.WordleStreak = 0
	}
	if err := s.db.Model(user).Updates(map[string]interface{}{
		"wordle_plays":  user.WordlePlays,
		"wordle_wins":   user.WordleWins,
		"wordle_losses": user.WordleLosses,
		"wordle_streak": user.WordleStreak,
	}).Error; err != nil {
		return nil, err
	}
	return &WordleStats{
		Plays:  user.WordlePlays,
		Wins:   user.WordleWins,
		Losses: user.WordleLosses,
		Streak: user.WordleStreak,
	}, nil
}

// GetRandomSessionCount 返回随机练习模式累计的单词数。
func (s *UserService) GetRandomSessionCount(userID uint) (int, error) {
	user, err := s.get(userID)
	if err != nil {
		return 0, err
	}
	return user.RandomWords, nil
}

// RecordRandomSessionWord 随机练习模式计数加一。
func (s *UserService) RecordRandomSessionWord(userID uint) (int, error) {
	user, err := s.get(userID)
	if err != nil {
		return 0, err
	}
	user.RandomWords++
	if err := s.db.Model(user).Update("random_words", user.RandomWords).Error; err != nil {
		return 0, err
	}
	return user.RandomWords, nil
}
