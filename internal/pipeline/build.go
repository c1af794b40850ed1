package pipeline

import (
	"net/http"

	"github.com/LJTian/NewsCard/internal/collector"
	"github.com/LJTian/NewsCard/internal/config"
	"github.com/LJTian/NewsCard/internal/processor"
)

// FromConfig 按配置组装采集器与处理器。cache 为空时不做 og:image 缓存。
func FromConfig(cfg *config.Config, cache processor.ImageCache) *Pipeline {
	client := &http.Client{Timeout: cfg.FetchTimeout}

	fetchers := map[collector.Kind]collector.Fetcher{
		collector.KindFeed: &collector.FeedFetcher{Client: client, Timeout: cfg.FetchTimeout, UserAgent: cfg.UserAgent},
		collector.KindPage: &collector.PageFetcher{Timeout: cfg.FetchTimeout, UserAgent: cfg.UserAgent},
	}

	proc := processor.NewProcessor(cfg.TitleMaxLen, cfg.PlaceholderImage)
	proc.Resolver = &collector.OGImageResolver{Client: client, Timeout: cfg.FetchTimeout, UserAgent: cfg.UserAgent}
	proc.Cache = cache

	p := New(fetchers, proc)
	p.MaxCount = cfg.MaxCount
	// 主抓取 + og:image 查找，各占一个超时周期
	p.Deadline = 2 * cfg.FetchTimeout
	return p
}
