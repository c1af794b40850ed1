package collector

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

// FeedFetcher 拉取 RSS/Atom 订阅并用 gofeed 解析
type FeedFetcher struct {
	// Client 为空时按 Timeout 新建
	Client    *http.Client
	Timeout   time.Duration
	UserAgent string
}

func (f *FeedFetcher) Fetch(ctx context.Context, src Source) ([]RawItem, error) {
	timeout := timeoutFor(ctx, f.Timeout)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := httpGet(ctx, f.Client, timeout, src, f.UserAgent)
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &Failure{Reason: ReasonParse, URL: src.URL, Err: err}
	}

	items := make([]RawItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil {
			continue
		}
		items = append(items, feedItem(it))
	}
	return items, nil
}

// httpGet 发起一次 GET，非 2xx、超时、读取失败都转换为 Failure
func httpGet(ctx context.Context, client *http.Client, timeout time.Duration, src Source, userAgent string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, &Failure{Reason: ReasonHTTPError, URL: src.URL, Err: err}
	}
	applyHeaders(req, src.Headers, userAgent)

	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, classify(src.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Failure{
			Reason: ReasonHTTPError,
			Status: resp.StatusCode,
			URL:    src.URL,
			Err:    fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, classify(src.URL, err)
	}
	return body, nil
}

func feedItem(it *gofeed.Item) RawItem {
	raw := RawItem{
		Title:       it.Title,
		Link:        strings.TrimSpace(it.Link),
		Description: it.Description,
		Media:       mediaCandidates(it),
	}
	if raw.Link == "" && len(it.Links) > 0 {
		raw.Link = strings.TrimSpace(it.Links[0])
	}
	// content:encoded 里常有 description 没有的配图
	if it.Content != "" {
		raw.Description += it.Content
	}
	return raw
}

// mediaCandidates 按优先级收集结构化图片：media:content > media:group > media:thumbnail > image > enclosure
func mediaCandidates(it *gofeed.Item) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(u string) {
		u = strings.TrimSpace(u)
		if u == "" {
			return
		}
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}

	if media, ok := it.Extensions["media"]; ok {
		for _, c := range media["content"] {
			if isImageMedia(c) {
				add(c.Attrs["url"])
			}
		}
		for _, g := range media["group"] {
			for _, c := range g.Children["content"] {
				if isImageMedia(c) {
					add(c.Attrs["url"])
				}
			}
		}
		for _, th := range media["thumbnail"] {
			add(th.Attrs["url"])
		}
	}
	if it.Image != nil {
		add(it.Image.URL)
	}
	for _, enc := range it.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") {
			add(enc.URL)
		}
	}
	return out
}

// isImageMedia 没有 medium/type 标注的 media:content 默认视为图片
func isImageMedia(e ext.Extension) bool {
	if m := e.Attrs["medium"]; m != "" {
		return m == "image"
	}
	if t := e.Attrs["type"]; t != "" {
		return strings.HasPrefix(t, "image/")
	}
	return true
}
