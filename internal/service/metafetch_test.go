package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageMetaOpenGraph(t *testing.T) {
	html := `<html><head>
		<title>普通标题</title>
		<meta property="og:title" content="OG 标题">
		<meta property="og:description" content="OG 描述">
		<meta property="og:image" content="https://example.com/cover.jpg">
	</head><body></body></html>`

	meta, err := ParsePageMeta(strings.NewReader(html))
	require.NoError(t, err)
	assert.Equal(t, "OG 标题", meta.Title)
	assert.Equal(t, "OG 描述", meta.Description)
	assert.Equal(t, "https://example.com/cover.jpg", meta.Image)
}

func TestParsePageMetaFallbacks(t *testing.T) {
	html := `<html><head>
		<title>  回退标题  </title>
		<meta name="description" content="回退描述">
	</head><body></body></html>`

	meta, err := ParsePageMeta(strings.NewReader(html))
	require.NoError(t, err)
	assert.Equal(t, "回退标题", meta.Title)
	assert.Equal(t, "回退描述", meta.Description)
	assert.Empty(t, meta.Image)
}
