package service

import (
	"context"
	"fmt"

	"github.com/juju/clock"
	"github.com/juju/errors"

	"HugHub/internal/metrics"
	"HugHub/internal/model"
	"HugHub/internal/pkg"
	"HugHub/internal/repository/mysql"
)

// Classifier 外部毒性分类服务
type Classifier interface {
	Classify(ctx context.Context, text string) (pkg.ModerationResult, error)
}

// BlockedError 内容被判定为有害，errors.Is(err, pkg.ErrContentBlocked) 成立
type BlockedError struct {
	ContentType string
	Label       string
	Score       float64
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("%s blocked: %s (%.2f)", e.ContentType, e.Label, e.Score)
}

func (e *BlockedError) Is(target error) bool {
	return target == pkg.ErrContentBlocked
}

// Gate 帖子和评论落库前的同步审核
type Gate struct {
	classifier Classifier
	log        *mysql.ModerationLogRepository
	clock      clock.Clock
	metrics    *metrics.Metrics
}

func NewGate(classifier Classifier, log *mysql.ModerationLogRepository, clk clock.Clock, m *metrics.Metrics) *Gate {
	return &Gate{classifier: classifier, log: log, clock: clk, metrics: m}
}

// Check 分类失败返回 ErrUpstreamUnavailable，调用方不得继续写入。
// 被拦截的内容写入审核日志，日志写入失败只记录不影响拦截结果；authorID 可以为空
func (g *Gate) Check(ctx context.Context, contentType, authorID, text string) error {
	res, err := g.classifier.Classify(ctx, text)
	if err != nil {
		g.count(contentType, "error")
		logger.Warningf("moderation of %s failed: %v", contentType, err)
		if !errors.Is(err, pkg.ErrUpstreamUnavailable) {
			err = fmt.Errorf("%w: %v", pkg.ErrUpstreamUnavailable, err)
		}
		return err
	}
	if !res.IsToxic {
		g.count(contentType, "allowed")
		return nil
	}

	g.count(contentType, "blocked")
	g.record(ctx, contentType, authorID, text, res)
	return &BlockedError{ContentType: contentType, Label: res.Label, Score: res.Score}
}

func (g *Gate) record(ctx context.Context, contentType, authorID, text string, res pkg.ModerationResult) {
	id, err := pkg.NewShortID()
	if err != nil {
		logger.Errorf("moderation log id: %v", err)
		return
	}
	entry := &model.ModerationLogEntry{
		ID:             id,
		ContentType:    contentType,
		AuthorID:       authorID,
		Content:        text,
		PredictedLabel: res.Label,
		PredictedScore: res.Score,
		CreatedAt:      g.clock.Now(),
	}
	if err = g.log.Create(ctx, entry); err != nil {
		logger.Errorf("write moderation log for %s by %q: %v", contentType, authorID, err)
	}
}

func (g *Gate) count(contentType, outcome string) {
	if g.metrics != nil {
		g.metrics.Moderation.WithLabelValues(contentType, outcome).Inc()
	}
}
