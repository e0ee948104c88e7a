package service

import "errors"

// 业务层通用错误，handler 可根据错误类型映射到合适的 HTTP 状态码。
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username taken")
	ErrUnauthorized       = errors.New("unauthorized")

	ErrDeckNotFound   = errors.New("deck not found")
	ErrDeckTitleTaken = errors.New("deck with this title already exists")
	ErrWordNotFound   = errors.New("card not found")
	ErrWordExists     = errors.New("word already exists in this deck")

	ErrRatingNotFound = errors.New("word rating not found")
	ErrNothingToDo    = errors.New("nothing to update")

	ErrAlreadyUsed = errors.New("word already used in this chain")
	ErrNoBotWord   = errors.New("no playable word left")

	ErrValidation = errors.New("validation failed")
)
