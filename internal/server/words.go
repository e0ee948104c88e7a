package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/d1may/LanguageAPP/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RateWord 记录一次词汇评级。
func (h *Handler) RateWord(c *gin.Context) {
	var req struct {
		Word        string  `json:"word" binding:"required,min=1,max=50"`
		Status      string  `json:"status" binding:"required,oneof=hard ok easy"`
		Translation *string `json:"translation" binding:"omitempty,max=50"`
		Comment     *string `json:"comment" binding:"omitempty,max=50"`
		Lang        string  `json:"lang" binding:"required,wordlang"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	req.Word = strings.ToLower(strings.TrimSpace(req.Word))
	rating, err := h.words.Rate(GetUserID(c), req.Word, req.Status, req.Translation, req.Comment, req.Lang)
	if err != nil {
		log.Error().Err(err).Str("word", req.Word).Msg("rate word")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rate word"})
		return
	}
	c.JSON(http.StatusOK, rating)
}

// ListRatings 返回最近评级，可按状态过滤。
func (h *Handler) ListRatings(c *gin.Context) {
	lang := c.DefaultQuery("lang", "en")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	status := c.Query("status")

	var (
		ratings []service.RatingDTO
		err     error
	)
	if status == "" {
		ratings, err = h.words.List(GetUserID(c), lang, limit)
	} else {
		if !service.ValidRating(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		ratings, err = h.words.ListByStatus(GetUserID(c), status, lang, limit)
	}
	if err != nil {
		log.Error().Err(err).Msg("list ratings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list words"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"words": ratings})
}

// WordLibrary 返回按掌握程度分桶的词汇库快照。
func (h *Handler) WordLibrary(c *gin.Context) {
	lang := c.DefaultQuery("lang", "en")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	library, err := h.words.GetLibrary(GetUserID(c), lang, limit)
	if err != nil {
		log.Error().Err(err).Msg("word library")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load library"})
		return
	}
	c.JSON(http.StatusOK, library)
}

// UpdateWordMeta 更新评级记录的翻译或备注。
func (h *Handler) UpdateWordMeta(c *gin.Context) {
	wordID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Translation *string `json:"translation" binding:"omitempty,max=50"`
		Comment     *string `json:"comment" binding:"omitempty,max=50"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	rating, err := h.words.UpdateMeta(GetUserID(c), wordID, service.MetaUpdate{Translation: req.Translation, Comment: req.Comment})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRatingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "word rating not found"})
		case errors.Is(err, service.ErrNothingToDo):
			c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		default:
			log.Error().Err(err).Uint("word_id", wordID).Msg("update word meta")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update word"})
		}
		return
	}
	c.JSON(http.StatusOK, rating)
}
