package review

import (
	"testing"
	"time"
)

func ptr(t time.Time) *time.Time { return &t }

func TestIsDue(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		difficulty string
		lastReview *time.Time
		want       bool
	}{
		{"never reviewed", DifficultyEasy, nil, true},
		{"reviewed long ago", DifficultyEasy, ptr(now.Add(-10 * 24 * time.Hour)), true},
		{"exactly at the boundary", DifficultyEasy, ptr(now.Add(-Window)), true},
		{"just inside window, easy", DifficultyEasy, ptr(now.Add(-Window + time.Second)), false},
		{"inside window, medium", DifficultyMedium, ptr(now.Add(-time.Hour)), false},
		{"inside window, hard", DifficultyHard, ptr(now.Add(-time.Hour)), true},
		{"inside window, unrated", "", ptr(now.Add(-time.Hour)), true},
		{"inside window, uppercase hard", "HARD", ptr(now.Add(-time.Hour)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDue(tt.difficulty, tt.lastReview, now); got != tt.want {
				t.Errorf("IsDue(%q, %v) = %v, want %v", tt.difficulty, tt.lastReview, got, tt.want)
			}
		})
	}
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		reported string
		want     string
	}{
		{"hard reporting easy ratchets to medium", DifficultyHard, DifficultyEasy, DifficultyMedium},
		{"unrated reporting easy ratchets to medium", "", DifficultyEasy, DifficultyMedium},
		{"medium reporting easy reaches easy", DifficultyMedium, DifficultyEasy, DifficultyEasy},
		{"easy reporting easy stays easy", DifficultyEasy, DifficultyEasy, DifficultyEasy},
		{"easy reporting hard drops straight to hard", DifficultyEasy, DifficultyHard, DifficultyHard},
		{"unrated reporting medium is medium", "", DifficultyMedium, DifficultyMedium},
		{"unrated reporting hard is hard", "", DifficultyHard, DifficultyHard},
		{"case insensitive", "HARD", "Easy", DifficultyMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Advance(tt.current, tt.reported); got != tt.want {
				t.Errorf("Advance(%q, %q) = %q, want %q", tt.current, tt.reported, got, tt.want)
			}
		})
	}
}

func TestValidDifficulty(t *testing.T) {
	for _, ok := range []string{"easy", "medium", "hard", "Easy"} {
		if !ValidDifficulty(ok) {
			t.Errorf("ValidDifficulty(%q) = false, want true", ok)
		}
	}
	for _, bad := range []string{"", "impossible", "ok"} {
		if ValidDifficulty(bad) {
			t.Errorf("ValidDifficulty(%q) = true, want false", bad)
		}
	}
}
