package review

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// 难度等级。空串表示尚未评级。
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Window 是复习间隔：上次复习超过该时长（含边界）的卡片重新到期。
const Window = 3 * 24 * time.Hour

// ValidDifficulty 判断难度取值是否合法。
func ValidDifficulty(d string) bool {
	switch strings.ToLower(d) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// IsDue 判定卡片是否到期：从未复习、复习时间落在窗口外（恰好在
// 边界上算到期）、难度为 hard 或尚未评级时均到期。
func IsDue(difficulty string, lastReview *time.Time, now time.Time) bool {
	if lastReview == nil {
		return true
	}
	if !lastReview.After(now.Add(-Window)) {
		return true
	}
	d := strings.ToLower(difficulty)
	return d == "" || d == DifficultyHard
}

// Advance 实现棘轮规则：汇报 easy 时，未评级或 hard 的卡片只前进一步
// 到 medium，避免一次点击就把难卡永久藏起来；其余情况直接采用汇报值。
func Advance(current, reported string) string {
	cur := strings.ToLower(current)
	rep := strings.ToLower(reported)
	if rep == DifficultyEasy && (cur == "" || cur == DifficultyHard) {
		return DifficultyMedium
	}
	return rep
}

// DueScope 返回与 IsDue 等价的 SQL 过滤条件，供计数与抽卡查询复用。
func DueScope(now time.Time) func(*gorm.DB) *gorm.DB {
	cutoff := now.Add(-Window)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"(last_review IS NULL OR last_review <= ? OR difficulty IS NULL OR difficulty = ?)",
			cutoff, DifficultyHard,
		)
	}
}
