package service

import (
	"errors"

	"github.com/d1may/LanguageAPP/internal/config"
	"github.com/d1may/LanguageAPP/internal/ledger"
	"github.com/d1may/LanguageAPP/internal/models"
	"github.com/d1may/LanguageAPP/internal/token"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RevocationOracle 回答"这个令牌是否已被吊销"。由账本实现，
// 编排层通过它把吊销判定与签名校验解耦。
type RevocationOracle interface {
	AssertActive(jti string, userID uint) (*models.RefreshToken, error)
}

// AuthService 负责注册、登录、刷新与登出，执行 refresh 轮换协议。
type AuthService struct {
	db     *gorm.DB
	issuer *token.Issuer
	ledger *ledger.Ledger
	cfg    config.Config
}

func NewAuthService(db *gorm.DB, issuer *token.Issuer, l *ledger.Ledger, cfg config.Config) *AuthService {
	return &AuthService{db: db, issuer: issuer, ledger: l, cfg: cfg}
}

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func VerifyPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// RegisterResult 注册成功后返回的数据。
type RegisterResult struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Register 注册新用户，邮箱和用户名都不允许重复。
func (s *AuthService) Register(email, username, password string) (*RegisterResult, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}
	if err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := models.User{Email: email, Username: username, PasswordHash: hash, WordLang: "en", Theme: "amber"}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &RegisterResult{ID: user.ID, Email: user.Email, Username: user.Username}, nil
}

// TokenPair 一次签发的 access/refresh 令牌对。
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// LoginResult 登录成功后返回的数据。
type LoginResult struct {
	Tokens TokenPair
	User   models.User
}

// issuePair 签发令牌对并解析出新 refresh 令牌的 jti 与过期时间。
func (s *AuthService) issuePair(userID uint) (TokenPair, *token.Claims, error) {
	at, err := s.issuer.Issue(userID, token.KindAccess)
	if err != nil {
		return TokenPair{}, nil, err
	}
	rt, err := s.issuer.Issue(userID, token.KindRefresh)
	if err != nil {
		return TokenPair{}, nil, err
	}
	claims, err := s.issuer.Decode(rt)
	if err != nil {
		return TokenPair{}, nil, err
	}
	return TokenPair{AccessToken: at, RefreshToken: rt}, claims, nil
}

// Login 校验邮箱密码并签发令牌对。旧会话的 refresh 令牌在
// replace_for_user 中一并失效：任何时刻每个用户至多一个活跃会话。
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	pair, claims, err := s.issuePair(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.ReplaceForUser(user.ID, claims.ID, claims.Expiry()); err != nil {
		return nil, err
	}
	return &LoginResult{Tokens: pair, User: user}, nil
}

// Refresh 执行一次轮换：校验并吊销旧 refresh 令牌，签发新令牌对。
// refresh 令牌单次可用；任何校验失败都归一化为 ErrUnauthorized，
// 不向客户端透露具体原因。
func (s *AuthService) Refresh(oldRefresh string) (*TokenPair, error) {
	claims, err := s.issuer.Decode(oldRefresh)
	if err != nil || claims.Kind != string(token.KindRefresh) || claims.ID == "" {
		return nil, ErrUnauthorized
	}

	var pair TokenPair
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		led := s.ledger.WithTx(tx)
		if _, err := led.AssertActive(claims.ID, claims.UserID); err != nil {
			return err
		}
		// 条件翻转保证同一令牌并发刷新只有一方胜出。
		flipped, err := led.RevokeActive(claims.ID)
		if err != nil {
			return err
		}
		if !flipped {
			return ledger.ErrRevoked
		}
		newPair, newClaims, err := s.issuePair(claims.UserID)
		if err != nil {
			return err
		}
		if err := led.Add(claims.UserID, newClaims.ID, newClaims.Expiry()); err != nil {
			return err
		}
		pair = newPair
		return nil
	})
	if txErr != nil {
		if isLedgerReject(txErr) {
			return nil, ErrUnauthorized
		}
		return nil, txErr
	}
	return &pair, nil
}

// Logout 尽力吊销携带的 refresh 令牌。令牌缺失或无效不算错误，
// 登出总是成功。
func (s *AuthService) Logout(refreshToken string) {
	if refreshToken == "" {
		return
	}
	claims, err := s.issuer.Decode(refreshToken)
	if err != nil || claims.Kind != string(token.KindRefresh) || claims.ID == "" {
		return
	}
	_ = s.ledger.Revoke(claims.ID)
}

// IsRevoked 是注册给校验层的吊销判定回调。access 令牌不单独吊销，
// 只看过期；refresh 令牌以账本为准，查不到、已吊销、已过期都算吊销。
func (s *AuthService) IsRevoked(tokenStr string) bool {
	claims, err := s.issuer.Decode(tokenStr)
	if err != nil {
		return true
	}
	if claims.Kind != string(token.KindRefresh) || claims.ID == "" {
		return false
	}
	if _, err := s.ledger.AssertActive(claims.ID, claims.UserID); err != nil {
		return true
	}
	return false
}

func isLedgerReject(err error) bool {
	return errors.Is(err, ledger.ErrNotRegistered) ||
		errors.Is(err, ledger.ErrRevoked) ||
		errors.Is(err, ledger.ErrExpired)
}
