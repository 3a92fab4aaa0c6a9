package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"HugHub/internal/model"
	"HugHub/internal/pkg"
)

// failDeletesOn 模拟存储故障：对指定表的删除语句注入错误
func failDeletesOn(t *testing.T, db *gorm.DB, table string) {
	t.Helper()
	err := db.Callback().Delete().Before("gorm:delete").Register("test:fail_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(errors.New("injected storage fault"))
		}
	})
	require.NoError(t, err)
}

// failCreatesOn 对指定表的插入语句注入错误
func failCreatesOn(t *testing.T, db *gorm.DB, table string) {
	t.Helper()
	err := db.Callback().Create().Before("gorm:create").Register("test:fail_create_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(errors.New("injected storage fault"))
		}
	})
	require.NoError(t, err)
}

// assertScenarioIntact seedScenario 之后没有任何行被删除
func assertScenarioIntact(t *testing.T, db *gorm.DB) {
	t.Helper()
	assert.Equal(t, int64(4), count(t, db, &model.Comment{}, "1 = 1"))
	assert.Equal(t, int64(3), count(t, db, &model.Post{}, "1 = 1"))
	assert.Equal(t, int64(3), count(t, db, &model.FollowEdge{}, "1 = 1"))
	assert.Equal(t, int64(1), count(t, db, &model.Profile{}, "1 = 1"))
	assert.Equal(t, int64(3), count(t, db, &model.Account{}, "1 = 1"))
	assert.Equal(t, int64(2), count(t, db, &model.ModerationLogEntry{}, "1 = 1"))
	assert.Zero(t, count(t, db, &model.OutboxEvent{}, "1 = 1"))
}

// seedScenario U1 有帖子 P1（两条评论）和 P2（无评论），关注 U2，被 U3 关注
func seedScenario(t *testing.T, db *gorm.DB) {
	t.Helper()
	now := testEpoch
	seedAccount(t, db, "u1", "One")
	seedAccount(t, db, "u2", "Two")
	seedAccount(t, db, "u3", "Three")
	require.NoError(t, db.Create(&model.Profile{AccountID: "u1", Gender: "Other", Location: "Lisbon"}).Error)

	seedPost(t, db, "p1", "u1", now)
	seedPost(t, db, "p2", "u1", now)
	seedPost(t, db, "p3", "u2", now)
	seedComment(t, db, "c1", "p1", "u2", now)
	seedComment(t, db, "c2", "p1", "u3", now)
	seedComment(t, db, "c3", "p3", "u1", now)
	seedComment(t, db, "c4", "p3", "u3", now)

	require.NoError(t, db.Create(&model.FollowEdge{FollowerID: "u1", FolloweeID: "u2"}).Error)
	require.NoError(t, db.Create(&model.FollowEdge{FollowerID: "u3", FolloweeID: "u1"}).Error)
	require.NoError(t, db.Create(&model.FollowEdge{FollowerID: "u2", FolloweeID: "u3"}).Error)

	for _, id := range []string{"m1", "m2"} {
		require.NoError(t, db.Create(&model.ModerationLogEntry{
			ID: id, ContentType: model.ContentPost, AuthorID: "u1", Content: "nasty", PredictedLabel: "toxic", PredictedScore: 0.97,
		}).Error)
	}
}

func TestDeleteAccountCascades(t *testing.T) {
	db := newTestDB(t)
	seedScenario(t, db)
	repo := &CascadeRepository{DB: db, Clock: newTestClock()}

	removed, err := repo.DeleteAccount(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	assert.Zero(t, count(t, db, &model.Post{}, "id IN ?", []string{"p1", "p2"}))
	assert.Zero(t, count(t, db, &model.Comment{}, "post_id = ? OR author_id = ?", "p1", "u1"))
	assert.Zero(t, count(t, db, &model.FollowEdge{}, "follower_id = ? OR followee_id = ?", "u1", "u1"))
	assert.Zero(t, count(t, db, &model.Profile{}, "account_id = ?", "u1"))
	assert.Zero(t, count(t, db, &model.Account{}, "id = ?", "u1"))

	// 其他账户的数据不受影响
	assert.Equal(t, int64(1), count(t, db, &model.Post{}, "id = ?", "p3"))
	assert.Equal(t, int64(1), count(t, db, &model.Comment{}, "id = ?", "c4"))
	assert.Equal(t, int64(1), count(t, db, &model.FollowEdge{}, "follower_id = ? AND followee_id = ?", "u2", "u3"))

	// 审核日志保留
	assert.Equal(t, int64(2), count(t, db, &model.ModerationLogEntry{}, "author_id = ?", "u1"))

	var ev model.OutboxEvent
	require.NoError(t, db.Where("event_type = ? AND aggregate_id = ?", "account.deleted", "u1").First(&ev).Error)
	assert.Contains(t, ev.Payload, testEpoch.Format(time.RFC3339Nano))
}

func TestDeleteAccountMissing(t *testing.T) {
	db := newTestDB(t)
	repo := &CascadeRepository{DB: db, Clock: newTestClock()}

	removed, err := repo.DeleteAccount(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Zero(t, count(t, db, &model.OutboxEvent{}, "1 = 1"))
}

func TestDeleteAccountRollsBackOnFault(t *testing.T) {
	for _, table := range []string{"comments", "posts", "follow_edges", "profiles", "accounts"} {
		t.Run(table, func(t *testing.T) {
			db := newTestDB(t)
			seedScenario(t, db)
			failDeletesOn(t, db, table)
			repo := &CascadeRepository{DB: db, Clock: newTestClock()}

			removed, err := repo.DeleteAccount(context.Background(), "u1")
			require.Error(t, err)
			assert.ErrorIs(t, err, pkg.ErrDeletionFailed)
			assert.Zero(t, removed)

			// 事务整体回滚，原状态完整
			assertScenarioIntact(t, db)
		})
	}
}

// 账户行已删除后写事件失败，前面的删除也要全部回滚
func TestDeleteAccountRollsBackOnOutboxFault(t *testing.T) {
	db := newTestDB(t)
	seedScenario(t, db)
	failCreatesOn(t, db, "outbox_events")
	repo := &CascadeRepository{DB: db, Clock: newTestClock()}

	removed, err := repo.DeleteAccount(context.Background(), "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, pkg.ErrDeletionFailed)
	assert.Zero(t, removed)
	assertScenarioIntact(t, db)
}

func TestDeletePostRemovesOnlyItsComments(t *testing.T) {
	db := newTestDB(t)
	seedScenario(t, db)
	repo := &CascadeRepository{DB: db, Clock: newTestClock()}

	ok, err := repo.DeletePost(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Zero(t, count(t, db, &model.Post{}, "id = ?", "p1"))
	assert.Zero(t, count(t, db, &model.Comment{}, "post_id = ?", "p1"))
	assert.Equal(t, int64(2), count(t, db, &model.Comment{}, "post_id = ?", "p3"))
	assert.Equal(t, int64(1), count(t, db, &model.OutboxEvent{}, "event_type = ? AND aggregate_id = ?", "post.deleted", "p1"))
}

func TestDeletePostMissing(t *testing.T) {
	db := newTestDB(t)
	seedScenario(t, db)
	repo := &CascadeRepository{DB: db, Clock: newTestClock()}

	ok, err := repo.DeletePost(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(4), count(t, db, &model.Comment{}, "1 = 1"))
	assert.Zero(t, count(t, db, &model.OutboxEvent{}, "1 = 1"))
}

func TestDeletePostRollsBackOnFault(t *testing.T) {
	db := newTestDB(t)
	seedScenario(t, db)
	failDeletesOn(t, db, "posts")
	repo := &CascadeRepository{DB: db, Clock: newTestClock()}

	ok, err := repo.DeletePost(context.Background(), "p1")
	assert.ErrorIs(t, err, pkg.ErrDeletionFailed)
	assert.False(t, ok)
	assert.Equal(t, int64(2), count(t, db, &model.Comment{}, "post_id = ?", "p1"))
}

func TestDeleteComment(t *testing.T) {
	db := newTestDB(t)
	seedScenario(t, db)
	repo := &CascadeRepository{DB: db, Clock: newTestClock()}

	ok, err := repo.DeleteComment(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DeleteComment(context.Background(), "c1")
	require.NoError(t, err)
	assert.False(t, ok)
}
