package ledger

import (
	"errors"
	"time"

	"github.com/d1may/LanguageAPP/internal/models"
	"gorm.io/gorm"
)

var (
	ErrNotRegistered = errors.New("refresh token is not registered")
	ErrRevoked       = errors.New("refresh token has been revoked")
	ErrExpired       = errors.New("refresh token has expired")
)

// Ledger 持久化已签发的 refresh 令牌，作为吊销判定的唯一可信来源。
// 签名有效但不在账本里（或已吊销）的令牌一律拒绝。
type Ledger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// WithTx 返回绑定到指定事务的 Ledger，供编排层组合多步操作。
func (l *Ledger) WithTx(tx *gorm.DB) *Ledger {
	return &Ledger{db: tx}
}

// Add 记录一条新的有效令牌。
func (l *Ledger) Add(userID uint, jti string, expiresAt time.Time) error {
	rec := models.RefreshToken{UserID: userID, JTI: jti, ExpiresAt: expiresAt}
	return l.db.Create(&rec).Error
}

// ReplaceForUser 在单个事务内删除用户全部旧令牌并写入新令牌，
// 保证登录后恰好存在一个活跃会话。
func (l *Ledger) ReplaceForUser(userID uint, jti string, expiresAt time.Time) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		rec := models.RefreshToken{UserID: userID, JTI: jti, ExpiresAt: expiresAt}
		return tx.Create(&rec).Error
	})
}

// GetByJTI 按 jti 查找令牌记录。
func (l *Ledger) GetByJTI(jti string) (*models.RefreshToken, error) {
	var rec models.RefreshToken
	if err := l.db.Where("jti = ?", jti).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotRegistered
		}
		return nil, err
	}
	return &rec, nil
}

// Revoke 幂等地吊销令牌：首次吊销时写入吊销时间，之后的调用不再改动。
func (l *Ledger) Revoke(jti string) error {
	_, err := l.revokeActive(jti)
	return err
}

// RevokeActive 吊销令牌并报告本次调用是否真正完成了 ACTIVE → REVOKED
// 的翻转。条件更新保证并发提交同一令牌时只有一方成功，
// 这是 refresh 单次使用语义的原子闸门。
func (l *Ledger) RevokeActive(jti string) (bool, error) {
	return l.revokeActive(jti)
}

func (l *Ledger) revokeActive(jti string) (bool, error) {
	now := time.Now()
	res := l.db.Model(&models.RefreshToken{}).
		Where("jti = ? AND revoked = ?", jti, false).
		Updates(map[string]interface{}{"revoked": true, "revoked_at": &now})
	return res.RowsAffected == 1, res.Error
}

// AssertActive 校验令牌仍然活跃。归属不符视同未登记；
// 过期令牌在此处顺手吊销（惰性折叠为 REVOKED）。
func (l *Ledger) AssertActive(jti string, userID uint) (*models.RefreshToken, error) {
	rec, err := l.GetByJTI(jti)
	if err != nil {
		return nil, err
	}
	if rec.UserID != userID {
		return nil, ErrNotRegistered
	}
	if rec.Revoked {
		return nil, ErrRevoked
	}
	if !rec.ExpiresAt.After(time.Now()) {
		if _, err := l.revokeActive(jti); err != nil {
			return nil, err
		}
		return nil, ErrExpired
	}
	return rec, nil
}

// SweepExpired 吊销所有已过期但尚未吊销的令牌，返回处理条数。
// 已吊销的行不会被再次触碰，与请求路径上的惰性吊销互不冲突。
func (l *Ledger) SweepExpired() (int64, error) {
	now := time.Now()
	res := l.db.Model(&models.RefreshToken{}).
		Where("revoked = ? AND expires_at <= ?", false, now).
		Updates(map[string]interface{}{"revoked": true, "revoked_at": &now})
	return res.RowsAffected, res.Error
}
