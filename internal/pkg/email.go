package pkg

import (
	"crypto/tls"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string // 发件人邮箱
	Password string // 授权码/密码
	From     string // 显示的发件人，可与 Username 相同
}

// Configured 未配置账号时退化为只打印日志的发送方式
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

func SendEmail(cfg SMTPConfig, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.Port == 465
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	return d.DialAndSend(m)
}

func VerificationURL(apiBase, token string) string {
	return fmt.Sprintf("%s/api/auth/verify/%s", apiBase, token)
}

func PasswordResetURL(frontendBase, token string) string {
	return fmt.Sprintf("%s/?resetToken=%s", frontendBase, token)
}

func VerificationHTML(name, link string) string {
	return fmt.Sprintf(`<h2>Welcome to the Hub, %s!</h2><p>Please verify your email to start sharing positive vibes.</p><p><a href="%s">Verify My Account</a></p><p>If the button doesn't work, copy this: %s</p>`,
		html.EscapeString(name), link, link)
}

func PasswordResetHTML(name, link string) string {
	return fmt.Sprintf(`<h2>Password Reset Request</h2><p>Hello %s,</p><p>Click the link below to reset your password. This link will expire in 5 minutes.</p><p><a href="%s">Reset My Password</a></p><p>If the button doesn't work, copy this: %s</p>`,
		html.EscapeString(name), link, link)
}
