package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/d1may/LanguageAPP/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type deckReq struct {
	Title       string  `json:"title" binding:"required,min=1,max=50"`
	Description string  `json:"description" binding:"max=50"`
	Category    *string `json:"category" binding:"omitempty,max=50"`
	Lang        string  `json:"lang" binding:"required,wordlang"`
}

type cardReq struct {
	Word       string  `json:"word" binding:"required,min=1,max=50"`
	Definition string  `json:"definition" binding:"required,min=1,max=255"`
	Example    *string `json:"example" binding:"omitempty,max=255"`
	Difficulty *string `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
}

func pathID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s", name)})
		return 0, false
	}
	return uint(v), true
}

// ownDeck 校验卡组归属，不通过时已写好响应。
func (h *Handler) ownDeck(c *gin.Context) (uint, bool) {
	deckID, ok := pathID(c, "id")
	if !ok {
		return 0, false
	}
	if _, err := h.cards.GetDeck(GetUserID(c), deckID); err != nil {
		if errors.Is(err, service.ErrDeckNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "deck not found"})
			return 0, false
		}
		log.Error().Err(err).Uint("deck_id", deckID).Msg("load deck")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load deck"})
		return 0, false
	}
	return deckID, true
}

// SaveDeck 创建或按标题更新卡组。
func (h *Handler) SaveDeck(c *gin.Context) {
	var req deckReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	deck, err := h.cards.SaveDeck(GetUserID(c), req.Title, req.Description, req.Category, req.Lang)
	if err != nil {
		log.Error().Err(err).Uint("user_id", GetUserID(c)).Msg("save deck")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save deck"})
		return
	}
	c.JSON(http.StatusOK, deck)
}

// ListDecks 返回当前用户的卡组列表。
func (h *Handler) ListDecks(c *gin.Context) {
	decks, err := h.cards.ListDecks(GetUserID(c))
	if err != nil {
		log.Error().Err(err).Msg("list decks")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list decks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"decks": decks})
}

// UpdateDeck 更新卡组信息。
func (h *Handler) UpdateDeck(c *gin.Context) {
	deckID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req deckReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	deck, err := h.cards.UpdateDeck(GetUserID(c), deckID, req.Title, req.Description, req.Category, req.Lang)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDeckNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "deck not found"})
		case errors.Is(err, service.ErrDeckTitleTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "deck with this title already exists"})
		default:
			log.Error().Err(err).Uint("deck_id", deckID).Msg("update deck")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update deck"})
		}
		return
	}
	c.JSON(http.StatusOK, deck)
}

// DeleteDeck 删除卡组及其全部卡片。
func (h *Handler) DeleteDeck(c *gin.Context) {
	deckID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.cards.DeleteDeck(GetUserID(c), deckID); err != nil {
		if errors.Is(err, service.ErrDeckNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "deck not found"})
			return
		}
		log.Error().Err(err).Uint("deck_id", deckID).Msg("delete deck")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete deck"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// SaveCard 向卡组添加或更新一张卡片。
func (h *Handler) SaveCard(c *gin.Context) {
	deckID, ok := h.ownDeck(c)
	if !ok {
		return
	}
	var req cardReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	word, err := h.cards.SaveWord(deckID, req.Word, req.Definition, req.Example, req.Difficulty)
	if err != nil {
		log.Error().Err(err).Uint("deck_id", deckID).Msg("save card")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save card"})
		return
	}
	c.JSON(http.StatusOK, word)
}

// ListCards 返回卡组内的全部卡片。
func (h *Handler) ListCards(c *gin.Context) {
	deckID, ok := h.ownDeck(c)
	if !ok {
		return
	}
	words, err := h.cards.ListWords(deckID)
	if err != nil {
		log.Error().Err(err).Uint("deck_id", deckID).Msg("list cards")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list cards"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"words": words})
}

// UpdateCard 更新卡片正文，不触碰难度与复习时间。
func (h *Handler) UpdateCard(c *gin.Context) {
	deckID, ok := h.ownDeck(c)
	if !ok {
		return
	}
	wordID, ok := pathID(c, "wordID")
	if !ok {
		return
	}
	var req struct {
		Word       string  `json:"word" binding:"required,min=1,max=50"`
		Definition string  `json:"definition" binding:"required,min=1,max=255"`
		Example    *string `json:"example" binding:"omitempty,max=255"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	word, err := h.cards.UpdateWord(deckID, wordID, req.Word, req.Definition, req.Example)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		case errors.Is(err, service.ErrWordExists):
			c.JSON(http.StatusConflict, gin.H{"error": "word already exists in this deck"})
		default:
			log.Error().Err(err).Uint("word_id", wordID).Msg("update card")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update card"})
		}
		return
	}
	c.JSON(http.StatusOK, word)
}

// DeleteCard 删除一张卡片。
func (h *Handler) DeleteCard(c *gin.Context) {
	deckID, ok := h.ownDeck(c)
	if !ok {
		return
	}
	wordID, ok := pathID(c, "wordID")
	if !ok {
		return
	}
	if err := h.cards.DeleteWord(deckID, wordID); err != nil {
		if errors.Is(err, service.ErrWordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
			return
		}
		log.Error().Err(err).Uint("word_id", wordID).Msg("delete card")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete card"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ReviewCard 记录一次复习结果，难度按棘轮规则推进。
func (h *Handler) ReviewCard(c *gin.Context) {
	deckID, ok := h.ownDeck(c)
	if !ok {
		return
	}
	wordID, ok := pathID(c, "wordID")
	if !ok {
		return
	}
	var req struct {
		Difficulty string `json:"difficulty" binding:"required,oneof=easy medium hard"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	word, err := h.cards.ReviewWord(deckID, wordID, req.Difficulty)
	if err != nil {
		if errors.Is(err, service.ErrWordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
			return
		}
		log.Error().Err(err).Uint("word_id", wordID).Msg("review card")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to review card"})
		return
	}
	c.JSON(http.StatusOK, word)
}

// CardCounts 返回总卡片数与到期数。
func (h *Handler) CardCounts(c *gin.Context) {
	counts, err := h.cards.Counts(GetUserID(c))
	if err != nil {
		log.Error().Err(err).Msg("card counts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count cards"})
		return
	}
	c.JSON(http.StatusOK, counts)
}

// ReviewSession 抽取一批到期卡片组成复习会话。
func (h *Handler) ReviewSession(c *gin.Context) {
	lang := c.DefaultQuery("lang", "en")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	words, err := h.cards.PickSession(GetUserID(c), lang, limit)
	if err != nil {
		log.Error().Err(err).Msg("review session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"words": words})
}

// ExportDeck 以 CSV 导出卡组。
func (h *Handler) ExportDeck(c *gin.Context) {
	deckID, ok := pathID(c, "id")
	if !ok {
		return
	}
	data, err := h.cards.ExportCSV(GetUserID(c), deckID)
	if err != nil {
		if errors.Is(err, service.ErrDeckNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "deck not found"})
			return
		}
		log.Error().Err(err).Uint("deck_id", deckID).Msg("export deck")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export deck"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=deck-%d.csv", deckID))
	c.Data(http.StatusOK, "text/csv", data)
}

// ImportDeck 从上传的 CSV 导入卡片，逐行报告错误。
func (h *Handler) ImportDeck(c *gin.Context) {
	deckID, ok := pathID(c, "id")
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "csv file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
		return
	}
	defer file.Close()

	report, err := h.cards.ImportCSV(GetUserID(c), deckID, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDeckNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "deck not found"})
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Error().Err(err).Uint("deck_id", deckID).Msg("import deck")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to import deck"})
		}
		return
	}
	c.JSON(http.StatusOK, report)
}
