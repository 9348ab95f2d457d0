package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMessage(t *testing.T) {
	msg := string(BuildMessage("noreply@example.com", "user@example.com", "VidGate", "你的播放列表已就绪", "<p>hello</p>"))

	headers, body, found := strings.Cut(msg, "\r\n\r\n")
	assert.True(t, found, "头部和正文之间应有空行")
	assert.Contains(t, headers, "From: VidGate <noreply@example.com>")
	assert.Contains(t, headers, "To: user@example.com")
	assert.Contains(t, headers, "Subject: 你的播放列表已就绪")
	assert.Contains(t, headers, "MIME-Version: 1.0")
	assert.Contains(t, headers, `Content-Type: text/html; charset="UTF-8"`)
	assert.Equal(t, "<p>hello</p>", body)
}

func TestEmailServiceDisabled(t *testing.T) {
	svc := &EmailService{}
	assert.False(t, svc.Enabled())

	err := svc.SendPlaylistReady("user@example.com", "https://example.com/playlist/x")
	assert.Error(t, err)
}

func TestPlaylistReadyBodyContainsLink(t *testing.T) {
	url := "https://example.com/playlist/abc-123"
	body := playlistReadyBody(url)
	assert.Contains(t, body, `href="`+url+`"`)
}
