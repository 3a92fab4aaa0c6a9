package service

import (
	"context"
	"testing"

	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HugHub/internal/model"
	"HugHub/internal/pkg"
)

func TestGateAllows(t *testing.T) {
	e := newEnv(t)

	err := e.gate.Check(context.Background(), model.ContentPost, "u1", "have a lovely day")
	require.NoError(t, err)
	assert.Zero(t, e.count(t, &model.ModerationLogEntry{}, "1 = 1"))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.Moderation.WithLabelValues(model.ContentPost, "allowed")))
}

func TestGateBlocksAndLogs(t *testing.T) {
	e := newEnv(t)

	err := e.gate.Check(context.Background(), model.ContentComment, "u1", "you are toxic")
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkg.ErrContentBlocked))

	var blocked *BlockedError
	require.True(t, errors.As(err, &blocked))
	assert.Equal(t, "toxic", blocked.Label)
	assert.InDelta(t, 0.93, blocked.Score, 1e-9)

	var entry model.ModerationLogEntry
	require.NoError(t, e.db.First(&entry).Error)
	assert.Equal(t, model.ContentComment, entry.ContentType)
	assert.Equal(t, "u1", entry.AuthorID)
	assert.Equal(t, "you are toxic", entry.Content)
	assert.Equal(t, "toxic", entry.PredictedLabel)
	assert.True(t, entry.CreatedAt.Equal(epoch))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.Moderation.WithLabelValues(model.ContentComment, "blocked")))
}

func TestGateLogsEmptyAuthor(t *testing.T) {
	e := newEnv(t)

	err := e.gate.Check(context.Background(), model.ContentPost, "", "toxic edit")
	assert.True(t, errors.Is(err, pkg.ErrContentBlocked))
	assert.Equal(t, int64(1), e.count(t, &model.ModerationLogEntry{}, "author_id = ?", ""))
}

func TestGateLogFailureStillBlocks(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.db.Migrator().DropTable(&model.ModerationLogEntry{}))

	err := e.gate.Check(context.Background(), model.ContentPost, "u1", "toxic")
	assert.True(t, errors.Is(err, pkg.ErrContentBlocked))
}

func TestGateUpstreamFailure(t *testing.T) {
	e := newEnv(t)
	e.classifier.err = errBoom

	err := e.gate.Check(context.Background(), model.ContentPost, "u1", "toxic")
	assert.True(t, errors.Is(err, pkg.ErrUpstreamUnavailable))
	assert.False(t, errors.Is(err, pkg.ErrContentBlocked))
	assert.Zero(t, e.count(t, &model.ModerationLogEntry{}, "1 = 1"))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.Moderation.WithLabelValues(model.ContentPost, "error")))
}
