package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"HugHub/internal/metrics"
	"HugHub/internal/model"
	"HugHub/internal/pkg"
	"HugHub/internal/repository/mysql"
	"HugHub/internal/repository/redis"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

const testWait = 5 * time.Second

// fakeClassifier 把包含 toxic 字样的文本判为有害
type fakeClassifier struct {
	err   error
	calls int
}

func (f *fakeClassifier) Classify(_ context.Context, text string) (pkg.ModerationResult, error) {
	f.calls++
	if f.err != nil {
		return pkg.ModerationResult{}, f.err
	}
	if strings.Contains(text, "toxic") {
		return pkg.ModerationResult{IsToxic: true, Label: "toxic", Score: 0.93}, nil
	}
	return pkg.ModerationResult{Label: "non-toxic", Score: 0.02}, nil
}

type sentMail struct {
	Kind  string
	To    string
	Token string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendVerification(to, _, token string) error {
	return m.record("verify", to, token)
}

func (m *fakeMailer) SendPasswordReset(to, _, token string) error {
	return m.record("reset", to, token)
}

func (m *fakeMailer) record(kind, to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{Kind: kind, To: to, Token: token})
	return nil
}

func (m *fakeMailer) last(t *testing.T) sentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	return m.sent[len(m.sent)-1]
}

type env struct {
	db         *gorm.DB
	mr         *miniredis.Miniredis
	clock      *testclock.Clock
	metrics    *metrics.Metrics
	classifier *fakeClassifier
	mailer     *fakeMailer
	tokens     *redis.TokenRepository

	gate     *Gate
	users    *UserService
	profiles *ProfileService
	posts    *PostService
	comments *CommentService
	follows  *FollowService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := mysql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, mysql.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mr := miniredis.RunT(t)
	rdb, err := redis.NewClient(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	e := &env{
		db:         db,
		mr:         mr,
		clock:      testclock.NewClock(epoch),
		metrics:    metrics.New(),
		classifier: &fakeClassifier{},
		mailer:     &fakeMailer{},
		tokens:     &redis.TokenRepository{Client: rdb},
	}
	maker := pkg.NewTokenMaker("access-secret", "refresh-secret")
	cooldown := &redis.CooldownRepository{Client: rdb, TTL: time.Minute}

	e.gate = NewGate(e.classifier, &mysql.ModerationLogRepository{DB: db}, e.clock, e.metrics)
	e.users = NewUserService(db, e.tokens, cooldown, maker, e.mailer, e.clock, e.metrics)
	e.profiles = NewProfileService(db, e.clock)
	e.posts = NewPostService(db, e.gate, e.clock, e.metrics)
	e.comments = NewCommentService(db, e.gate, e.clock, e.metrics)
	e.follows = NewFollowService(db, e.clock)
	return e
}

// verifiedUser 直接写库创建已验证账户
func (e *env) verifiedUser(t *testing.T, name string) string {
	t.Helper()
	hash, err := pkg.HashPassword("Passw0rd!")
	require.NoError(t, err)
	id := pkg.NewAccountID()
	require.NoError(t, e.db.Create(&model.Account{
		ID:           id,
		Email:        name + "@hughub.test",
		DisplayName:  name,
		PasswordHash: hash,
		Verified:     true,
	}).Error)
	return id
}

func (e *env) count(t *testing.T, m any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(m).Where(query, args...).Count(&n).Error)
	return n
}

var errBoom = errors.New("boom")
