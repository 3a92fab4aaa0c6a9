package mysql

import (
	"context"
	"encoding/json"
	"time"

	"github.com/juju/clock"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"HugHub/internal/model"
)

type FollowRepository struct {
	DB    *gorm.DB
	Clock clock.Clock
}

type OutboxRepository struct {
	DB *gorm.DB
}

// Follow 建立关注关系（幂等）。新建边返回 changed=true，已存在返回 false；
// 被关注者不存在时返回 gorm.ErrRecordNotFound
func (r *FollowRepository) Follow(ctx context.Context, followerID, followeeID string) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Account{}).Where("id = ?", followeeID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}

		edge := model.FollowEdge{FollowerID: followerID, FolloweeID: followeeID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge)
		if res.Error != nil {
			return res.Error
		}
		// 重复关注，直接返回
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		return insertOutbox(tx, r.Clock.Now(), "follow", followerID, map[string]any{
			"follower": followerID,
			"followee": followeeID,
		})
	})
	return changed, err
}

// Unfollow 删除关注关系，边不存在时返回 changed=false
func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followeeID string) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).Delete(&model.FollowEdge{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		return insertOutbox(tx, r.Clock.Now(), "unfollow", followerID, map[string]any{
			"follower": followerID,
			"followee": followeeID,
		})
	})
	return changed, err
}

// IsFollowing 判断是否关注
func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).
		Model(&model.FollowEdge{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListFollowing 获取 accountID 关注的人，按关注时间倒序
func (r *FollowRepository) ListFollowing(ctx context.Context, accountID string) ([]model.FollowView, error) {
	var rows []model.FollowView
	err := r.DB.WithContext(ctx).Table("follow_edges AS f").
		Select("a.id, a.email, a.display_name, a.mobile, f.created_at AS since").
		Joins("JOIN accounts a ON a.id = f.followee_id").
		Where("f.follower_id = ?", accountID).
		Order("f.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

// ListFollowers 获取 accountID 的粉丝
func (r *FollowRepository) ListFollowers(ctx context.Context, accountID string) ([]model.FollowView, error) {
	var rows []model.FollowView
	err := r.DB.WithContext(ctx).Table("follow_edges AS f").
		Select("a.id, a.email, a.display_name, a.mobile, f.created_at AS since").
		Joins("JOIN accounts a ON a.id = f.follower_id").
		Where("f.followee_id = ?", accountID).
		Order("f.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

// insertOutbox 写 outbox 事件表，必须在业务事务内调用
func insertOutbox(tx *gorm.DB, at time.Time, event, aggregateID string, fields map[string]any) error {
	fields["event"] = event
	fields["event_time"] = at.UTC().Format(time.RFC3339Nano)
	payload, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	ob := &model.OutboxEvent{
		EventType:   event,
		AggregateID: aggregateID,
		Payload:     string(payload),
		Status:      0,
	}
	return tx.Create(ob).Error
}

// MaxOutboxRetry 失败超过该次数的事件不再投递
const MaxOutboxRetry = 5

// List 待投递的 outbox 记录，失败记录在重试次数内同样返回
func (r *OutboxRepository) List(ctx context.Context, batchSize int) ([]model.OutboxEvent, error) {
	var list []model.OutboxEvent
	if err := r.DB.WithContext(ctx).
		Where("status = 0 OR (status = 2 AND retry < ?)", MaxOutboxRetry).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// RetryUpdate outbox记录消息失败重试
func (r *OutboxRepository) RetryUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.OutboxEvent{}).Where("id = ?", id).
		Updates(map[string]any{"status": 2, "retry": gorm.Expr("retry + 1")}).Error
}

// SuccessUpdate outbox成功记录消息更新
func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.OutboxEvent{}).Where("id = ?", id).
		Update("status", 1).Error
}
