package service

import (
	"HugHub/internal/pkg"
)

// Mailer 发送账户相关邮件
type Mailer interface {
	SendVerification(to, name, token string) error
	SendPasswordReset(to, name, token string) error
}

// EmailService 通过 SMTP 发信；未配置 SMTP 时只把链接打到日志里，便于本地调试
type EmailService struct {
	emailCfg     pkg.SMTPConfig
	apiBase      string
	frontendBase string
}

func NewEmailService(cfg pkg.SMTPConfig, apiBase, frontendBase string) *EmailService {
	return &EmailService{emailCfg: cfg, apiBase: apiBase, frontendBase: frontendBase}
}

// SendVerification 发送注册验证链接
func (s *EmailService) SendVerification(to, name, token string) error {
	link := pkg.VerificationURL(s.apiBase, token)
	if !s.emailCfg.Configured() {
		logger.Infof("smtp not configured, verification link for %s: %s", to, link)
		return nil
	}
	return pkg.SendEmail(s.emailCfg, to, "Verify your HugHub account", pkg.VerificationHTML(name, link))
}

// SendPasswordReset 发送重置密码链接
func (s *EmailService) SendPasswordReset(to, name, token string) error {
	link := pkg.PasswordResetURL(s.frontendBase, token)
	if !s.emailCfg.Configured() {
		logger.Infof("smtp not configured, reset link for %s: %s", to, link)
		return nil
	}
	return pkg.SendEmail(s.emailCfg, to, "Reset your HugHub password", pkg.PasswordResetHTML(name, link))
}
