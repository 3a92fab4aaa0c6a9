package service

import (
	"context"
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"gorm.io/gorm"

	"HugHub/internal/metrics"
	"HugHub/internal/model"
	"HugHub/internal/pkg"
	"HugHub/internal/repository/mysql"
	"HugHub/internal/repository/redis"
)

// ResetTokenTTL 重置密码链接有效期
const ResetTokenTTL = 5 * time.Minute

const (
	scopeVerify = "verify"
	scopeReset  = "reset"
)

type UserService struct {
	repo     *mysql.AccountRepository
	cascade  *mysql.CascadeRepository
	rToken   *redis.TokenRepository
	cooldown *redis.CooldownRepository
	tokens   *pkg.TokenMaker
	mailer   Mailer
	clock    clock.Clock
	metrics  *metrics.Metrics
}

// SignupInput 注册参数
type SignupInput struct {
	Email    string
	Name     string
	Mobile   string
	Password string
}

func NewUserService(db *gorm.DB, rToken *redis.TokenRepository, cooldown *redis.CooldownRepository,
	tokens *pkg.TokenMaker, mailer Mailer, clk clock.Clock, m *metrics.Metrics) *UserService {
	return &UserService{
		repo:     &mysql.AccountRepository{DB: db},
		cascade:  &mysql.CascadeRepository{DB: db, Clock: clk},
		rToken:   rToken,
		cooldown: cooldown,
		tokens:   tokens,
		mailer:   mailer,
		clock:    clk,
		metrics:  m,
	}
}

// Signup 创建未验证账户并发送验证邮件；邮件发送失败不影响注册
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*model.AccountSummary, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)
	if email == "" || name == "" {
		return nil, errors.NotValidf("email and name")
	}
	if !pkg.StrongPassword(in.Password) {
		return nil, errors.NotValidf("password")
	}

	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil, errors.AlreadyExistsf("account with email %q", email)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storageError(err)
	}

	hash, err := pkg.HashPassword(in.Password)
	if err != nil {
		return nil, errors.Trace(err)
	}
	token, err := pkg.RandToken()
	if err != nil {
		return nil, errors.Trace(err)
	}

	acc := &model.Account{
		ID:                pkg.NewAccountID(),
		Email:             email,
		DisplayName:       name,
		Mobile:            strings.TrimSpace(in.Mobile),
		PasswordHash:      hash,
		VerificationToken: &token,
		CreatedAt:         s.clock.Now(),
	}
	if err = s.repo.Create(ctx, acc); err != nil {
		return nil, storageError(err)
	}

	if err = s.mailer.SendVerification(acc.Email, acc.DisplayName, token); err != nil {
		logger.Errorf("send verification mail to %s: %v", acc.Email, err)
	}
	return summaryOf(acc), nil
}

// Verify 通过邮件里的令牌激活账户
func (s *UserService) Verify(ctx context.Context, token string) error {
	if token == "" {
		return errors.NotValidf("verification token")
	}
	n, err := s.repo.MarkVerified(ctx, token)
	if err != nil {
		return storageError(err)
	}
	if n == 0 {
		return errors.NotValidf("verification token")
	}
	return nil
}

// ResendVerification 重新生成验证令牌并发信
func (s *UserService) ResendVerification(ctx context.Context, email string) error {
	acc, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return lookupError(err, "account with email %q", email)
	}
	if acc.Verified {
		return errors.NewNotValid(nil, "account already verified")
	}
	if err = s.acquireCooldown(ctx, scopeVerify, acc.Email); err != nil {
		return err
	}

	token, err := pkg.RandToken()
	if err != nil {
		return errors.Trace(err)
	}
	if err = s.repo.SetVerificationToken(ctx, acc.ID, token); err != nil {
		return storageError(err)
	}
	if err = s.mailer.SendVerification(acc.Email, acc.DisplayName, token); err != nil {
		logger.Errorf("send verification mail to %s: %v", acc.Email, err)
		s.releaseCooldown(ctx, scopeVerify, acc.Email)
	}
	return nil
}

// ForgotPassword 生成 5 分钟有效的重置令牌并发信
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	acc, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return lookupError(err, "account with email %q", email)
	}
	if err = s.acquireCooldown(ctx, scopeReset, acc.Email); err != nil {
		return err
	}

	token, err := pkg.RandToken()
	if err != nil {
		return errors.Trace(err)
	}
	if err = s.repo.SetResetToken(ctx, acc.ID, token, s.clock.Now().Add(ResetTokenTTL)); err != nil {
		return storageError(err)
	}
	if err = s.mailer.SendPasswordReset(acc.Email, acc.DisplayName, token); err != nil {
		logger.Errorf("send reset mail to %s: %v", acc.Email, err)
		s.releaseCooldown(ctx, scopeReset, acc.Email)
	}
	return nil
}

// ValidateResetToken 令牌不存在或已过期都返回 NotValid
func (s *UserService) ValidateResetToken(ctx context.Context, token string) error {
	_, err := s.resetAccount(ctx, token)
	return err
}

// ResetPassword 校验令牌和密码强度后更新密码，并使现有会话失效
func (s *UserService) ResetPassword(ctx context.Context, token, password string) error {
	acc, err := s.resetAccount(ctx, token)
	if err != nil {
		return err
	}
	if !pkg.StrongPassword(password) {
		return errors.NotValidf("password")
	}
	hash, err := pkg.HashPassword(password)
	if err != nil {
		return errors.Trace(err)
	}
	n, err := s.repo.ResetPassword(ctx, token, hash)
	if err != nil {
		return storageError(err)
	}
	if n == 0 {
		return errors.NotValidf("reset token")
	}
	s.revoke(ctx, acc.ID)
	return nil
}

func (s *UserService) resetAccount(ctx context.Context, token string) (*model.Account, error) {
	if token == "" {
		return nil, errors.NotValidf("reset token")
	}
	acc, err := s.repo.FindByResetToken(ctx, token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NotValidf("reset token")
	}
	if err != nil {
		return nil, storageError(err)
	}
	if acc.ResetTokenExpires == nil || s.clock.Now().After(*acc.ResetTokenExpires) {
		return nil, errors.NotValidf("expired reset token")
	}
	return acc, nil
}

// Login 校验密码，签发令牌并把 access token 写入 redis（每个账户只保留一个会话）
func (s *UserService) Login(ctx context.Context, email, password string) (*pkg.Pair, *model.AccountSummary, error) {
	acc, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, errors.Unauthorizedf("invalid email or password")
	}
	if err != nil {
		return nil, nil, storageError(err)
	}
	if !pkg.CheckPassword(acc.PasswordHash, password) {
		return nil, nil, errors.Unauthorizedf("invalid email or password")
	}
	if !acc.Verified {
		return nil, nil, pkg.ErrNotVerified
	}

	pair, err := s.tokens.GeneratePair(acc.ID)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	if err = s.rToken.Add(ctx, acc.ID, pair.AccessToken); err != nil {
		return nil, nil, errors.Annotate(err, "store session")
	}
	return pair, summaryOf(acc), nil
}

func (s *UserService) Logout(ctx context.Context, accountID string) error {
	return s.rToken.Delete(ctx, accountID)
}

// Refresh 用 refresh token 换新令牌，已删除的账户不能续期
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error) {
	accountID, pair, err := s.tokens.Refresh(refreshToken)
	if err != nil {
		return nil, errors.Unauthorizedf("%v", err)
	}
	ok, err := s.repo.Exists(ctx, accountID)
	if err != nil {
		return nil, storageError(err)
	}
	if !ok {
		return nil, errors.Unauthorizedf("account no longer exists")
	}
	if err = s.rToken.Add(ctx, accountID, pair.AccessToken); err != nil {
		return nil, errors.Annotate(err, "store session")
	}
	return pair, nil
}

// ChangePassword 登录态修改密码，成功后强制重新登录
func (s *UserService) ChangePassword(ctx context.Context, accountID, oldPassword, newPassword string) error {
	if !pkg.StrongPassword(newPassword) {
		return errors.NotValidf("new password")
	}
	acc, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return lookupError(err, "account %q", accountID)
	}
	if !pkg.CheckPassword(acc.PasswordHash, oldPassword) {
		return errors.NotValidf("old password")
	}
	hash, err := pkg.HashPassword(newPassword)
	if err != nil {
		return errors.Trace(err)
	}
	if err = s.repo.UpdatePassword(ctx, acc.ID, hash); err != nil {
		return storageError(err)
	}
	s.revoke(ctx, acc.ID)
	return nil
}

// DeleteAccount 只能删除自己的账户；级联删除全部内容后注销会话
func (s *UserService) DeleteAccount(ctx context.Context, requesterID, accountID string) error {
	if requesterID != accountID {
		return errors.Forbiddenf("deleting another account")
	}
	removed, err := s.cascade.DeleteAccount(ctx, accountID)
	if err != nil {
		s.countDeletion("failed")
		logger.Errorf("delete account %s: %v", accountID, err)
		return err
	}
	if removed == 0 {
		s.countDeletion("not_found")
		return errors.NotFoundf("account %q", accountID)
	}
	s.countDeletion("deleted")
	s.revoke(ctx, accountID)
	logger.Infof("account %s deleted", accountID)
	return nil
}

// ListUsers 用户目录，excludeID 用于排除当前用户
func (s *UserService) ListUsers(ctx context.Context, excludeID string) ([]model.AccountSummary, error) {
	list, err := s.repo.List(ctx, excludeID)
	if err != nil {
		return nil, storageError(err)
	}
	return list, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*model.AccountSummary, error) {
	sum, err := s.repo.Summary(ctx, id)
	if err != nil {
		return nil, lookupError(err, "user %q", id)
	}
	return sum, nil
}

// revoke 尽力而为，redis 故障不回滚已提交的数据库修改
func (s *UserService) revoke(ctx context.Context, accountID string) {
	if err := s.rToken.Delete(ctx, accountID); err != nil {
		logger.Warningf("revoke session of %s: %v", accountID, err)
	}
}

// acquireCooldown redis 不可用时放行
func (s *UserService) acquireCooldown(ctx context.Context, scope, email string) error {
	if s.cooldown == nil {
		return nil
	}
	ok, err := s.cooldown.Acquire(ctx, scope, email)
	if err != nil {
		logger.Warningf("mail cooldown for %s: %v", email, err)
		return nil
	}
	if !ok {
		return pkg.ErrRateLimited
	}
	return nil
}

func (s *UserService) releaseCooldown(ctx context.Context, scope, email string) {
	if s.cooldown == nil {
		return
	}
	if err := s.cooldown.Release(ctx, scope, email); err != nil {
		logger.Warningf("release mail cooldown for %s: %v", email, err)
	}
}

func (s *UserService) countDeletion(result string) {
	if s.metrics != nil {
		s.metrics.Deletions.WithLabelValues("account", result).Inc()
	}
}

func summaryOf(acc *model.Account) *model.AccountSummary {
	return &model.AccountSummary{
		ID:          acc.ID,
		Email:       acc.Email,
		DisplayName: acc.DisplayName,
		Mobile:      acc.Mobile,
	}
}
