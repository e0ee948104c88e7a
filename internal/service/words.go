package service

import (
	"errors"
	"strings"

	"github.com/d1may/LanguageAPP/internal/models"
	"gorm.io/gorm"
)

// 词汇评级取值。
const (
	RatingHard = "hard"
	RatingOK   = "ok"
	RatingEasy = "easy"
)

// ValidRating 判断评级取值是否合法。
func ValidRating(status string) bool {
	switch strings.ToLower(status) {
	case RatingHard, RatingOK, RatingEasy:
		return true
	}
	return false
}

// WordsService 封装用户词汇评级。
type WordsService struct {
	db *gorm.DB
}

func NewWordsService(db *gorm.DB) *WordsService {
	return &WordsService{db: db}
}

// RatingDTO 对外输出的评级记录。
type RatingDTO struct {
	ID          uint    `json:"id"`
	Word        string  `json:"word"`
	Status      string  `json:"status"`
	Translation *string `json:"translation"`
	Comment     *string `json:"comment"`
	Lang        string  `json:"lang"`
}

func ratingDTO(r models.WordRating) RatingDTO {
	return RatingDTO{ID: r.ID, Word: r.Word, Status: r.Status, Translation: r.Translation, Comment: r.Comment, Lang: r.Lang}
}

// Rate 评级一个单词。同一 (user, word) 重复评级只原地更新状态，
// 不会产生新行。
func (s *WordsService) Rate(userID uint, word, status string, translation, comment *string, lang string) (*RatingDTO, error) {
	status = strings.ToLower(status)
	var rec models.WordRating
	err := s.db.Where("user_id = ? AND word = ?", userID, word).First(&rec).Error
	switch {
	case err == nil:
		rec.Status = status
		if err := s.db.Model(&rec).Update("status", status).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		rec = models.WordRating{UserID: userID, Word: word, Status: status, Translation: translation, Comment: comment, Lang: lang}
		if err := s.db.Create(&rec).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	out := ratingDTO(rec)
	return &out, nil
}

func (s *WordsService) list(userID uint, status, lang string, limit int) ([]RatingDTO, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	q := s.db.Where("user_id = ?", userID).Order("id desc").Limit(limit)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if lang != "" {
		q = q.Where("lang = ?", lang)
	}
	var recs []models.WordRating
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]RatingDTO, 0, len(recs))
	for _, r := range recs {
		out = append(out, ratingDTO(r))
	}
	return out, nil
}

// List 返回最近评级的单词，可按语言过滤。
func (s *WordsService) List(userID uint, lang string, limit int) ([]RatingDTO, error) {
	return s.list(userID, "", lang, limit)
}

// ListByStatus 按评级状态过滤。
func (s *WordsService) ListByStatus(userID uint, status, lang string, limit int) ([]RatingDTO, error) {
	return s.list(userID, strings.ToLower(status), lang, limit)
}

// Library 词库快照：按掌握程度分桶。
type Library struct {
	Recent []RatingDTO `json:"recent"`
	High   []RatingDTO `json:"high"`
	Medium []RatingDTO `json:"medium"`
	Low    []RatingDTO `json:"low"`
}

// GetLibrary 返回词库快照。high=easy、medium=ok、low=hard。
func (s *WordsService) GetLibrary(userID uint, lang string, limit int) (*Library, error) {
	recent, err := s.list(userID, "", lang, limit)
	if err != nil {
		return nil, err
	}
	high, err := s.list(userID, RatingEasy, lang, limit)
	if err != nil {
		return nil, err
	}
	medium, err := s.list(userID, RatingOK, lang, limit)
	if err != nil {
		return nil, err
	}
	low, err := s.list(userID, RatingHard, lang, limit)
	if err != nil {
		return nil, err
	}
	return &Library{Recent: recent, High: high, Medium: medium, Low: low}, nil
}

// MetaUpdate 可选的元数据更新：nil 表示不动该字段，
// 空串在清洗后表示清空。
type MetaUpdate struct {
	Translation *string
	Comment     *string
}

func normalizeMeta(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// UpdateMeta 更新评级记录的译文和备注。两个字段都缺省时报
// ErrNothingToDo。
func (s *WordsService) UpdateMeta(userID, wordID uint, in MetaUpdate) (*RatingDTO, error) {
	if in.Translation == nil && in.Comment == nil {
		return nil, ErrNothingToDo
	}
	var rec models.WordRating
	if err := s.db.Where("id = ? AND user_id = ?", wordID, userID).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	updates := make(map[string]interface{})
	if in.Translation != nil {
		rec.Translation = normalizeMeta(in.Translation)
		updates["translation"] = rec.Translation
	}
	if in.Comment != nil {
		rec.Comment = normalizeMeta(in.Comment)
		updates["comment"] = rec.Comment
	}
	if err := s.db.Model(&rec).Updates(updates).Error; err != nil {
		return nil, err
	}
	out := ratingDTO(rec)
	return &out, nil
}
