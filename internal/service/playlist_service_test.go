package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/user/vidgate/internal/model"
)

func TestCreateRejectsEmptySelection(t *testing.T) {
	// 校验发生在任何 I/O 之前，空勾选不会触碰依赖
	svc := NewPlaylistService(nil, nil, &EmailService{}, "https://example.com")

	playlist, emailSent, err := svc.Create(model.SessionUser{ID: 1}, nil)
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Nil(t, playlist)
	assert.False(t, emailSent)
}

func TestShareURL(t *testing.T) {
	svc := NewPlaylistService(nil, nil, &EmailService{}, "https://example.com")
	playlist := &model.Playlist{ShareID: "abc-123"}
	assert.Equal(t, "https://example.com/playlist/abc-123", svc.ShareURL(playlist))
}
