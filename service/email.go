package service

import (
	"errors"
	"fmt"

	"budgeto/config"

	"gopkg.in/gomail.v2"
)

// ErrEmailDisabled 邮件服务未启用
var ErrEmailDisabled = errors.New("邮件服务未启用，请配置 email.enabled=true")

// EmailService 邮件服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled 是否已启用
func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Enabled
}

// SendWelcomeEmail 注册成功后发送欢迎邮件
func (s *EmailService) SendWelcomeEmail(toEmail string) error {
	if !s.Enabled() {
		return ErrEmailDisabled
	}
	return s.sendEmail(toEmail, "Welcome to Budgeto", s.generateWelcomeEmailBody(toEmail))
}

func (s *EmailService) generateWelcomeEmailBody(email string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; }
        .header { background: linear-gradient(135deg, #10b981, #059669); color: white; padding: 30px; text-align: center; }
        .content { padding: 40px 30px; color: #333; line-height: 1.8; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Budgeto</h1>
        </div>
        <div class="content">
            <p>Hi <strong>%s</strong>,</p>
            <p>Your account is ready. Start recording expenses and income, then set a monthly budget to keep track of your spending.</p>
        </div>
        <div class="footer">
            <p>This is an automated message, please do not reply.</p>
        </div>
    </div>
</body>
</html>
`, email)
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	return nil
}
