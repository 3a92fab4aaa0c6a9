package model

import "time"

type Account struct {
	ID                string     `gorm:"primaryKey;size:36" json:"user_id"`
	Email             string     `gorm:"uniqueIndex;size:128;not null" json:"user_email"`
	DisplayName       string     `gorm:"size:100;not null" json:"name"`
	Mobile            string     `gorm:"size:32" json:"user_mobile"`
	PasswordHash      string     `gorm:"size:255;not null" json:"-"`
	Verified          bool       `gorm:"not null;default:false" json:"-"`
	VerificationToken *string    `gorm:"size:64;index" json:"-"`
	ResetToken        *string    `gorm:"size:64;index" json:"-"`
	ResetTokenExpires *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"-"`
	UpdatedAt         time.Time  `json:"-"`
}

// Profile 用户资料，与 Account 一对一，主键即账户 ID
type Profile struct {
	AccountID string `gorm:"primaryKey;size:36"`
	Gender    string `gorm:"size:16"`
	Location  string `gorm:"size:100"`
	UpdatedAt time.Time
}

// AccountSummary 列表接口返回的公开账户信息
type AccountSummary struct {
	ID          string `json:"user_id"`
	Email       string `json:"user_email"`
	DisplayName string `json:"name"`
	Mobile      string `json:"user_mobile"`
}

// ProfileView 账户昵称与资料合并后的视图
type ProfileView struct {
	AccountID string `json:"user_id"`
	Name      string `json:"name"`
	Gender    string `json:"gender"`
	Location  string `json:"location"`
}
