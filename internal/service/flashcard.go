package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/d1may/LanguageAPP/internal/models"
	"github.com/d1may/LanguageAPP/internal/review"
	"gorm.io/gorm"
)

// FlashcardService 封装卡组与卡片的业务逻辑，包括到期调度与 CSV 导入导出。
type FlashcardService struct {
	db *gorm.DB
}

func NewFlashcardService(db *gorm.DB) *FlashcardService {
	return &FlashcardService{db: db}
}

// DeckDTO 对外输出的卡组数据。
type DeckDTO struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    *string `json:"category"`
	Lang        string  `json:"lang"`
}

// WordDTO 对外输出的卡片数据。
type WordDTO struct {
	ID         uint       `json:"id"`
	DeckID     uint       `json:"deck_id"`
	Word       string     `json:"word"`
	Definition string     `json:"definition"`
	Example    *string    `json:"example"`
	Difficulty *string    `json:"difficulty"`
	LastReview *time.Time `json:"last_review"`
}

func deckDTO(d models.FlashcardDeck) DeckDTO {
	return DeckDTO{ID: d.ID, Title: d.Title, Description: d.Description, Category: d.Category, Lang: d.Lang}
}

func wordDTO(w models.FlashcardWord) WordDTO {
	return WordDTO{
		ID: w.ID, DeckID: w.DeckID, Word: w.Word, Definition: w.Definition,
		Example: w.Example, Difficulty: w.Difficulty, LastReview: w.LastReview,
	}
}

// SaveDeck 按 (user, title) 幂等保存：已存在则更新描述等字段。
func (s *FlashcardService) SaveDeck(userID uint, title, description string, category *string, lang string) (*DeckDTO, error) {
	var deck models.FlashcardDeck
	err := s.db.Where("user_id = ? AND title = ?", userID, title).First(&deck).Error
	switch {
	case err == nil:
		deck.Description = description
		deck.Category = category
		deck.Lang = lang
		if err := s.db.Save(&deck).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		deck = models.FlashcardDeck{UserID: userID, Title: title, Description: description, Category: category, Lang: lang}
		if err := s.db.Create(&deck).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	out := deckDTO(deck)
	return &out, nil
}

// ListDecks 返回用户全部卡组，新建在前。
func (s *FlashcardService) ListDecks(userID uint) ([]DeckDTO, error) {
	var decks []models.FlashcardDeck
	if err := s.db.Where("user_id = ?", userID).Order("id desc").Find(&decks).Error; err != nil {
		return nil, err
	}
	out := make([]DeckDTO, 0, len(decks))
	for _, d := range decks {
		out = append(out, deckDTO(d))
	}
	return out, nil
}

// GetDeck 按归属取卡组。
func (s *FlashcardService) GetDeck(userID, deckID uint) (*DeckDTO, error) {
	deck, err := s.getDeck(userID, deckID)
	if err != nil {
		return nil, err
	}
	out := deckDTO(*deck)
	return &out, nil
}

func (s *FlashcardService) getDeck(userID, deckID uint) (*models.FlashcardDeck, error) {
	var deck models.FlashcardDeck
	if err := s.db.Where("id = ? AND user_id = ?", deckID, userID).First(&deck).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeckNotFound
		}
		return nil, err
	}
	return &deck, nil
}

// UpdateDeck 更新卡组，标题不得与同一用户的其他卡组撞车。
func (s *FlashcardService) UpdateDeck(userID, deckID uint, title, description string, category *string, lang string) (*DeckDTO, error) {
	deck, err := s.getDeck(userID, deckID)
	if err != nil {
		return nil, err
	}
	var count int64
	if err := s.db.Model(&models.FlashcardDeck{}).
		Where("user_id = ? AND title = ? AND id <> ?", userID, title, deckID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDeckTitleTaken
	}
	deck.Title = title
	deck.Description = description
	deck.Category = category
	deck.Lang = lang
	if err := s.db.Save(deck).Error; err != nil {
		return nil, err
	}
	out := deckDTO(*deck)
	return &out, nil
}

// DeleteDeck 删除卡组并级联删除其全部卡片。
func (s *FlashcardService) DeleteDeck(userID, deckID uint) error {
	deck, err := s.getDeck(userID, deckID)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("deck_id = ?", deck.ID).Delete(&models.FlashcardWord{}).Error; err != nil {
			return err
		}
		return tx.Delete(deck).Error
	})
}

// SaveWord 按 (deck, word) 幂等保存：已存在则更新释义与例句，
// 难度只在显式给出时覆盖。
func (s *FlashcardService) SaveWord(deckID uint, word, definition string, example, difficulty *string) (*WordDTO, error) {
	var card models.FlashcardWord
	err := s.db.Where("deck_id = ? AND word = ?", deckID, word).First(&card).Error
	switch {
	case err == nil:
		card.Definition = definition
		card.Example = example
		if difficulty != nil {
			card.Difficulty = difficulty
		}
		if err := s.db.Save(&card).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		card = models.FlashcardWord{DeckID: deckID, Word: word, Definition: definition, Example: example, Difficulty: difficulty}
		if err := s.db.Create(&card).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	out := wordDTO(card)
	return &out, nil
}

// ListWords 返回卡组内全部卡片，新建在前。
func (s *FlashcardService) ListWords(deckID uint) ([]WordDTO, error) {
	var cards []models.FlashcardWord
	if err := s.db.Where("deck_id = ?", deckID).Order("id desc").Find(&cards).Error; err != nil {
		return nil, err
	}
	out := make([]WordDTO, 0, len(cards))
	for _, c := range cards {
		out = append(out, wordDTO(c))
	}
	return out, nil
}

func (s *FlashcardService) getWord(deckID, wordID uint) (*models.FlashcardWord, error) {
	var card models.FlashcardWord
	if err := s.db.Where("id = ? AND deck_id = ?", wordID, deckID).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWordNotFound
		}
		return nil, err
	}
	return &card, nil
}

// UpdateWord 更新卡片内容，改名不得与卡组内其他卡片重复。
func (s *FlashcardService) UpdateWord(deckID, wordID uint, word, definition string, example *string) (*WordDTO, error) {
	card, err := s.getWord(deckID, wordID)
	if err != nil {
		return nil, err
	}
	if card.Word != word {
		var count int64
		if err := s.db.Model(&models.FlashcardWord{}).
			Where("deck_id = ? AND word = ? AND id <> ?", deckID, word, wordID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrWordExists
		}
	}
	card.Word = word
	card.Definition = definition
	card.Example = example
	if err := s.db.Save(card).Error; err != nil {
		return nil, err
	}
	out := wordDTO(*card)
	return &out, nil
}

// DeleteWord 删除卡片。
func (s *FlashcardService) DeleteWord(deckID, wordID uint) error {
	res := s.db.Where("id = ? AND deck_id = ?", wordID, deckID).Delete(&models.FlashcardWord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrWordNotFound
	}
	return nil
}

// ReviewWord 记录一次复习：难度经棘轮规则推进，并刷新复习时间。
func (s *FlashcardService) ReviewWord(deckID, wordID uint, reported string) (*WordDTO, error) {
	if !review.ValidDifficulty(reported) {
		return nil, fmt.Errorf("%w: difficulty must be easy, medium or hard", ErrValidation)
	}
	card, err := s.getWord(deckID, wordID)
	if err != nil {
		return nil, err
	}
	current := ""
	if card.Difficulty != nil {
		current = *card.Difficulty
	}
	next := review.Advance(current, reported)
	now := time.Now()
	card.Difficulty = &next
	card.LastReview = &now
	if err := s.db.Model(card).Updates(map[string]interface{}{
		"difficulty":  next,
		"last_review": now,
	}).Error; err != nil {
		return nil, err
	}
	out := wordDTO(*card)
	return &out, nil
}

// CardCounts 卡片总数与到期数。
type CardCounts struct {
	Total int64 `json:"total"`
	Due   int64 `json:"due"`
}

// Counts 统计用户全部卡组的卡片总数与到期数。
func (s *FlashcardService) Counts(userID uint) (*CardCounts, error) {
	deckIDs, err := s.deckIDs(userID, "")
	if err != nil {
		return nil, err
	}
	if len(deckIDs) == 0 {
		return &CardCounts{}, nil
	}
	var counts CardCounts
	if err := s.db.Model(&models.FlashcardWord{}).
		Where("deck_id IN ?", deckIDs).
		Count(&counts.Total).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.FlashcardWord{}).
		Where("deck_id IN ?", deckIDs).
		Scopes(review.DueScope(time.Now())).
		Count(&counts.Due).Error; err != nil {
		return nil, err
	}
	return &counts, nil
}

func (s *FlashcardService) deckIDs(userID uint, lang string) ([]uint, error) {
	q := s.db.Model(&models.FlashcardDeck{}).Where("user_id = ?", userID)
	if lang != "" {
		q = q.Where("lang = ?", lang)
	}
	var ids []uint
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// PickSession 从指定语言的卡组里随机抽取至多 limit 张到期卡片。
// 只保证"到期"，不保证顺序。
func (s *FlashcardService) PickSession(userID uint, lang string, limit int) ([]WordDTO, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	deckIDs, err := s.deckIDs(userID, lang)
	if err != nil {
		return nil, err
	}
	if len(deckIDs) == 0 {
		return []WordDTO{}, nil
	}
	var cards []models.FlashcardWord
	if err := s.db.Where("deck_id IN ?", deckIDs).
		Scopes(review.DueScope(time.Now())).
		Order("RANDOM()").
		Limit(limit).
		Find(&cards).Error; err != nil {
		return nil, err
	}
	out := make([]WordDTO, 0, len(cards))
	for _, c := range cards {
		out = append(out, wordDTO(c))
	}
	return out, nil
}

var csvHeader = []string{"word", "definition", "example", "difficulty"}

// ExportCSV 导出卡组为 CSV，列为 word,definition,example,difficulty。
func (s *FlashcardService) ExportCSV(userID, deckID uint) ([]byte, error) {
	if _, err := s.getDeck(userID, deckID); err != nil {
		return nil, err
	}
	words, err := s.ListWords(deckID)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, card := range words {
		example, difficulty := "", ""
		if card.Example != nil {
			example = *card.Example
		}
		if card.Difficulty != nil {
			difficulty = *card.Difficulty
		}
		if err := w.Write([]string{card.Word, card.Definition, example, difficulty}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ImportReport 一次导入的结果：成功条数与逐行错误。
type ImportReport struct {
	Imported  int      `json:"imported"`
	RowErrors []string `json:"row_errors"`
}

// ImportCSV 导入 CSV。表头按列名定位，列顺序随意；缺少 word 或
// definition 列整体拒绝；行级问题逐行累积，不影响其余行入库。
func (s *FlashcardService) ImportCSV(userID, deckID uint, r io.Reader) (*ImportReport, error) {
	if _, err := s.getDeck(userID, deckID); err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: malformed csv: %v", ErrValidation, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrValidation)
	}

	index := make(map[string]int)
	for i, col := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	var missing []string
	for _, required := range []string{"word", "definition"} {
		if _, ok := index[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns: %s", ErrValidation, strings.Join(missing, ", "))
	}

	cell := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	report := &ImportReport{}
	for n, row := range rows[1:] {
		line := n + 2 // 1-based, after the header
		word := cell(row, "word")
		definition := cell(row, "definition")
		if word == "" || definition == "" {
			report.RowErrors = append(report.RowErrors, fmt.Sprintf("row %d: word and definition are required", line))
			continue
		}
		var example, difficulty *string
		if v := cell(row, "example"); v != "" {
			example = &v
		}
		if v := cell(row, "difficulty"); v != "" {
			if !review.ValidDifficulty(v) {
				report.RowErrors = append(report.RowErrors, fmt.Sprintf("row %d: invalid difficulty %q", line, v))
				continue
			}
			lowered := strings.ToLower(v)
			difficulty = &lowered
		}
		if _, err := s.SaveWord(deckID, word, definition, example, difficulty); err != nil {
			report.RowErrors = append(report.RowErrors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		report.Imported++
	}
	return report, nil
}
