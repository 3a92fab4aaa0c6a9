package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"HugHub/internal/model"
)

type AccountRepository struct {
	DB *gorm.DB
}

func (r *AccountRepository) Create(ctx context.Context, a *model.Account) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*model.Account, error) {
	var a model.Account
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&a).Error
	return &a, err
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var a model.Account
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&a).Error
	return &a, err
}

func (r *AccountRepository) FindByResetToken(ctx context.Context, token string) (*model.Account, error) {
	var a model.Account
	err := r.DB.WithContext(ctx).Where("reset_token = ?", token).First(&a).Error
	return &a, err
}

func (r *AccountRepository) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// MarkVerified 只在令牌仍匹配时更新，避免重复点击链接时覆盖
func (r *AccountRepository) MarkVerified(ctx context.Context, token string) (int64, error) {
	tx := r.DB.WithContext(ctx).Model(&model.Account{}).
		Where("verification_token = ?", token).
		Updates(map[string]any{"verified": true, "verification_token": nil})
	return tx.RowsAffected, tx.Error
}

func (r *AccountRepository) SetVerificationToken(ctx context.Context, id, token string) error {
	return r.DB.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).
		Update("verification_token", token).Error
}

func (r *AccountRepository) SetResetToken(ctx context.Context, id, token string, expires time.Time) error {
	return r.DB.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).
		Updates(map[string]any{"reset_token": token, "reset_token_expires": expires}).Error
}

// ResetPassword 更新密码并作废重置令牌
func (r *AccountRepository) ResetPassword(ctx context.Context, token, hash string) (int64, error) {
	tx := r.DB.WithContext(ctx).Model(&model.Account{}).
		Where("reset_token = ?", token).
		Updates(map[string]any{"password_hash": hash, "reset_token": nil, "reset_token_expires": nil})
	return tx.RowsAffected, tx.Error
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.DB.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).
		Update("password_hash", hash).Error
}

// List 按昵称排序，excludeID 非空时排除该账户
func (r *AccountRepository) List(ctx context.Context, excludeID string) ([]model.AccountSummary, error) {
	var list []model.AccountSummary
	q := r.DB.WithContext(ctx).Model(&model.Account{}).
		Select("id, email, display_name, mobile")
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Order("display_name ASC").Scan(&list).Error
	return list, err
}

func (r *AccountRepository) Summary(ctx context.Context, id string) (*model.AccountSummary, error) {
	var s model.AccountSummary
	err := r.DB.WithContext(ctx).Model(&model.Account{}).
		Select("id, email, display_name, mobile").
		Where("id = ?", id).
		Take(&s).Error
	return &s, err
}

type ProfileRepository struct {
	DB *gorm.DB
}

// Find 账户不存在返回 gorm.ErrRecordNotFound；资料不存在时 gender/location 为空
func (r *ProfileRepository) Find(ctx context.Context, accountID string) (*model.ProfileView, error) {
	var rows []model.ProfileView
	err := r.DB.WithContext(ctx).Table("accounts AS a").
		Select("a.id AS account_id, a.display_name AS name, COALESCE(p.gender, '') AS gender, COALESCE(p.location, '') AS location").
		Joins("LEFT JOIN profiles p ON p.account_id = a.id").
		Where("a.id = ?", accountID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

// Save 同一事务内更新昵称并 upsert 资料
func (r *ProfileRepository) Save(ctx context.Context, accountID, name string, p *model.Profile) (bool, error) {
	var found bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Account{}).Where("id = ?", accountID).Update("display_name", name)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&model.Account{}).Where("id = ?", accountID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return nil
			}
		}
		found = true
		p.AccountID = accountID
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"gender", "location", "updated_at"}),
		}).Create(p).Error
	})
	return found, err
}
