package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"HugHub/internal/model"
)

// testEpoch 仓储测试统一使用的固定时间
var testEpoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestClock() *testclock.Clock {
	return testclock.NewClock(testEpoch)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedAccount(t *testing.T, db *gorm.DB, id, name string) {
	t.Helper()
	require.NoError(t, db.Create(&model.Account{
		ID:           id,
		Email:        id + "@hughub.test",
		DisplayName:  name,
		PasswordHash: "x",
		Verified:     true,
	}).Error)
}

func seedPost(t *testing.T, db *gorm.DB, id, author string, at time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&model.Post{ID: id, AuthorID: author, Text: "hello " + id, CreatedAt: at}).Error)
}

func seedComment(t *testing.T, db *gorm.DB, id, post, author string, at time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&model.Comment{ID: id, PostID: post, AuthorID: author, Text: "re " + post, CreatedAt: at}).Error)
}

func count(t *testing.T, db *gorm.DB, m any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Where(query, args...).Count(&n).Error)
	return n
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("postgres", "dsn")
	require.Error(t, err)
}

func TestMigrateIsRepeatable(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Migrate(db))
	require.True(t, db.WithContext(context.Background()).Migrator().HasTable(&model.OutboxEvent{}))
}
