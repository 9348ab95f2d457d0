package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/vidgate/internal/utils"
)

// PageMeta 外部页面的 Open Graph 元数据
type PageMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// MetaFetcher 管理员按 URL 添加视频时，抓取页面元数据做表单预填
type MetaFetcher struct {
	client *utils.HTTPClient
}

// NewMetaFetcher 创建抓取器
func NewMetaFetcher(timeout time.Duration) *MetaFetcher {
	return &MetaFetcher{
		client: utils.NewHTTPClient(timeout),
	}
}

// Fetch 抓取并解析页面
func (f *MetaFetcher) Fetch(url string) (*PageMeta, error) {
	resp, err := f.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("请求失败，状态码: %d", resp.StatusCode)
	}

	body, err := utils.ReadBody(resp)
	if err != nil {
		return nil, err
	}
	return ParsePageMeta(strings.NewReader(string(body)))
}

// ParsePageMeta 从 HTML 中提取 og:title / og:description / og:image
// 缺失时回退到 <title> 和 meta description
func ParsePageMeta(r io.Reader) (*PageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("解析HTML失败: %w", err)
	}

	meta := &PageMeta{}

	meta.Title, _ = doc.Find(`meta[property="og:title"]`).Attr("content")
	if meta.Title == "" {
		meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	meta.Description, _ = doc.Find(`meta[property="og:description"]`).Attr("content")
	if meta.Description == "" {
		meta.Description, _ = doc.Find(`meta[name="description"]`).Attr("content")
	}

	meta.Image, _ = doc.Find(`meta[property="og:image"]`).Attr("content")

	return meta, nil
}
