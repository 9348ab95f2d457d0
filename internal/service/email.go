package service

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/user/vidgate/internal/config"
)

// EmailService SMTP 邮件通知
// 播放列表创建成功后给用户发一封带链接的通知邮件；
// 发送失败只记录并在响应里标记，不影响创建本身
type EmailService struct {
	host     string
	port     string
	user     string
	pass     string
	from     string
	siteName string
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		pass:     cfg.SMTPPass,
		from:     cfg.SMTPFrom,
		siteName: cfg.SiteName,
	}
}

// Enabled 是否配置了 SMTP
func (s *EmailService) Enabled() bool {
	return s.host != ""
}

// SendPlaylistReady 发送"播放列表已就绪"通知
func (s *EmailService) SendPlaylistReady(to, playlistURL string) error {
	if !s.Enabled() {
		return fmt.Errorf("未配置 SMTP")
	}

	subject := "你的播放列表已就绪"
	body := playlistReadyBody(playlistURL)
	msg := BuildMessage(s.from, to, s.siteName, subject, body)

	addr := s.host + ":" + s.port
	auth := smtp.PlainAuth("", s.user, s.pass, s.host)
	return smtp.SendMail(addr, auth, s.from, []string{to}, msg)
}

// BuildMessage 组装带头部的 HTML 邮件
func BuildMessage(from, to, fromName, subject, htmlBody string) []byte {
	var msg strings.Builder

	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", fromName, from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	return []byte(msg.String())
}

// playlistReadyBody 通知邮件正文
func playlistReadyBody(playlistURL string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">你的播放列表已就绪 🎉</h2>
  <p>播放列表创建成功，点击下方按钮开始观看：</p>
  <a href="%s"
     style="display: inline-block; background-color: #0070f3; color: white;
            padding: 12px 24px; text-decoration: none; border-radius: 5px;
            margin: 20px 0;">查看播放列表</a>
  <p style="color: #666; font-size: 14px;">
    如果按钮无法打开，请把下面的链接复制到浏览器：<br>
    <span style="color: #0070f3;">%s</span>
  </p>
</div>`, playlistURL, playlistURL)
}
