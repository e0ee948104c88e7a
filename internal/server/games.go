package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/d1may/LanguageAPP/internal/metrics"
	"github.com/d1may/LanguageAPP/internal/service"
	"github.com/d1may/LanguageAPP/internal/wordlist"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// WordleCheck 判定一次猜测，纯计算不落库。
func (h *Handler) WordleCheck(c *gin.Context) {
	var req struct {
		Guess  string `json:"guess" binding:"required,min=1,max=20"`
		Target string `json:"target" binding:"required,min=1,max=20"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	result, err := service.EvaluateWordle(req.Guess, req.Target)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only letters are allowed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// WordleWord 按语言和长度抽一个目标词。
func (h *Handler) WordleWord(c *gin.Context) {
	lang := c.Param("lang")
	length, err := strconv.Atoi(c.Param("length"))
	if err != nil || length < 3 || length > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid length"})
		return
	}
	word, err := h.list.RandomOfLength(lang, length)
	if err != nil {
		if errors.Is(err, wordlist.ErrNoWord) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no word of this length"})
			return
		}
		log.Error().Err(err).Str("lang", lang).Int("length", length).Msg("wordle word")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to pick word"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"word": word})
}

// WordleStats 返回当前用户的 Wordle 战绩。
func (h *Handler) WordleStats(c *gin.Context) {
	stats, err := h.users.GetWordleStats(GetUserID(c))
	if err != nil {
		log.Error().Err(err).Msg("wordle stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RecordWordle 记录一局结果并返回更新后的战绩。
func (h *Handler) RecordWordle(c *gin.Context) {
	var req struct {
		IsWin *bool `json:"is_win" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	stats, err := h.users.RecordWordleResult(GetUserID(c), *req.IsWin)
	if err != nil {
		log.Error().Err(err).Msg("record wordle")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record result"})
		return
	}
	result := "loss"
	if *req.IsWin {
		result = "win"
	}
	metrics.WordleResultsTotal.WithLabelValues(result).Inc()
	c.JSON(http.StatusOK, stats)
}

// RandomWord 随机练习：按语言抽一个词。
func (h *Handler) RandomWord(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"word": h.list.Random(c.Param("lang"))})
}

// RecordRandomWord 随机练习计数加一。
func (h *Handler) RecordRandomWord(c *gin.Context) {
	count, err := h.users.RecordRandomSessionWord(GetUserID(c))
	if err != nil {
		log.Error().Err(err).Msg("record random word")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record word"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// ChainAdd 玩家提交一个接龙单词。
func (h *Handler) ChainAdd(c *gin.Context) {
	var req struct {
		Word string `json:"word" binding:"required,min=1,max=50"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if err := h.chain.AddWord(GetUserID(c), req.Word); err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyUsed):
			c.JSON(http.StatusConflict, gin.H{"error": "word already used in this chain"})
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		default:
			log.Error().Err(err).Msg("chain add")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add word"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "added"})
}

// ChainList 返回本局已用单词。
func (h *Handler) ChainList(c *gin.Context) {
	words, err := h.chain.ListWords(GetUserID(c))
	if err != nil {
		log.Error().Err(err).Msg("chain list")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list words"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"words": words})
}

// ChainClear 清空本局历史。
func (h *Handler) ChainClear(c *gin.Context) {
	if err := h.chain.Clear(GetUserID(c)); err != nil {
		log.Error().Err(err).Msg("chain clear")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear chain"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// ChainBot 机器人接一个词。
func (h *Handler) ChainBot(c *gin.Context) {
	var req struct {
		Word string `json:"word" binding:"required,min=1,max=50"`
		Lang string `json:"lang" binding:"required,wordlang"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	word, err := h.chain.BotTurn(GetUserID(c), req.Word, req.Lang)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoBotWord):
			c.JSON(http.StatusNotFound, gin.H{"error": "no playable word left"})
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		default:
			log.Error().Err(err).Msg("chain bot")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "bot move failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"word": word})
}
