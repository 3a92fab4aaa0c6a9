package mysql

import (
	"context"

	"gorm.io/gorm"

	"HugHub/internal/model"
)

// ModerationLogRepository 审核日志只追加，不提供修改和删除
type ModerationLogRepository struct {
	DB *gorm.DB
}

func (r *ModerationLogRepository) Create(ctx context.Context, entry *model.ModerationLogEntry) error {
	return r.DB.WithContext(ctx).Create(entry).Error
}
