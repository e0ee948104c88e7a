package models

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	Username     string `gorm:"uniqueIndex;size:50;not null"`
	PasswordHash string `gorm:"not null"`
	WordLang     string `gorm:"size:2;not null;default:en"`
	Theme        string `gorm:"size:16;not null;default:amber"`

	WordlePlays  int `gorm:"not null;default:0"`
	WordleWins   int `gorm:"not null;default:0"`
	WordleLosses int `gorm:"not null;default:0"`
	WordleStreak int `gorm:"not null;default:0"`
	RandomWords  int `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null"`
	JTI       string    `gorm:"column:jti;uniqueIndex;size:64;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	Revoked   bool      `gorm:"not null;default:false"`
	RevokedAt *time.Time
	CreatedAt time.Time
}

type FlashcardDeck struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"uniqueIndex:uq_decks_user_title;index;not null"`
	Title       string `gorm:"uniqueIndex:uq_decks_user_title;size:50;not null"`
	Description string `gorm:"size:50;not null"`
	Category    *string `gorm:"size:50"`
	Lang        string `gorm:"size:10;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type FlashcardWord struct {
	ID         uint   `gorm:"primaryKey"`
	DeckID     uint   `gorm:"uniqueIndex:uq_flashcard_words_deck_word;index;not null"`
	Word       string `gorm:"uniqueIndex:uq_flashcard_words_deck_word;size:50;not null"`
	Definition string `gorm:"size:255;not null"`
	Example    *string `gorm:"size:255"`
	Difficulty *string `gorm:"size:16"`
	LastReview *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type WordRating struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"uniqueIndex:uq_word_ratings_user_word;index;not null"`
	Word        string `gorm:"uniqueIndex:uq_word_ratings_user_word;size:50;not null"`
	Status      string `gorm:"size:16;not null"`
	Translation *string `gorm:"size:50"`
	Comment     *string `gorm:"size:50"`
	Lang        string `gorm:"size:10;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type WordChainEntry struct {
	ID       uint   `gorm:"primaryKey"`
	UserID   uint   `gorm:"uniqueIndex:uq_word_chain_user_word;index;not null"`
	UsedWord string `gorm:"uniqueIndex:uq_word_chain_user_word;size:50;not null"`
}
