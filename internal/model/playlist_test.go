package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaylistVideoAt(t *testing.T) {
	p := &Playlist{Videos: []PlaylistVideo{
		{VideoID: 10, Title: "第一集"},
		{VideoID: 11, Title: "第二集"},
	}}

	assert.Equal(t, 2, p.Len())
	assert.Equal(t, 10, p.VideoAt(0).VideoID)
	assert.Equal(t, 11, p.VideoAt(1).VideoID)
	assert.Nil(t, p.VideoAt(2))
	assert.Nil(t, p.VideoAt(-1))
}

func TestVideoDisplayFallbacks(t *testing.T) {
	v := &Video{}
	assert.Equal(t, "未命名视频", v.DisplayTitle())
	assert.Equal(t, "未分类", v.DisplayCategory())

	v.Title = "入门教程"
	v.Category = "教程"
	assert.Equal(t, "入门教程", v.DisplayTitle())
	assert.Equal(t, "教程", v.DisplayCategory())
}
