package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/LJTian/NewsCard/internal/card"
	"github.com/LJTian/NewsCard/internal/collector"
	"github.com/LJTian/NewsCard/internal/processor"
	"github.com/LJTian/NewsCard/internal/topic"
)

// Pipeline 采集 → 抽取 → 格式化。任何失败都折叠为占位卡片，不向调用方返回错误。
type Pipeline struct {
	fetchers  map[collector.Kind]collector.Fetcher
	processor *processor.Processor

	// Deadline 单次调用的总时限（含 og:image 查找），0 表示不额外限制
	Deadline time.Duration
	MaxCount int
}

func New(fetchers map[collector.Kind]collector.Fetcher, p *processor.Processor) *Pipeline {
	return &Pipeline{
		fetchers:  fetchers,
		processor: p,
		MaxCount:  processor.DefaultMaxCount,
	}
}

// Run 执行一次主题采集；maxCount <= 0 时使用默认条数
func (p *Pipeline) Run(ctx context.Context, t topic.Topic, maxCount int) card.Response {
	if maxCount <= 0 {
		maxCount = p.MaxCount
	}
	if p.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Deadline)
		defer cancel()
	}

	start := time.Now()
	items, err := p.collect(ctx, t, maxCount)
	if err != nil {
		log.Printf("pipeline: %s fetch failed (%s): %v", t.Code, collector.ReasonOf(err), err)
	} else if len(items) == 0 {
		log.Printf("pipeline: %s got 0 usable items", t.Code)
	} else {
		log.Printf("pipeline: %s done, items=%d cost=%s", t.Code, len(items), time.Since(start).Round(time.Millisecond))
	}

	return card.Format(t.Name, items, t.WebURL, p.processor.PlaceholderImage)
}

func (p *Pipeline) collect(ctx context.Context, t topic.Topic, maxCount int) (items []processor.NewsItem, err error) {
	// 采集器里的第三方解析库若 panic，同样按失败处理
	defer func() {
		if r := recover(); r != nil {
			items, err = nil, &collector.Failure{Reason: collector.ReasonParse, URL: t.URL, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	f, ok := p.fetchers[t.Kind]
	if !ok {
		return nil, &collector.Failure{Reason: collector.ReasonParse, URL: t.URL, Err: fmt.Errorf("no fetcher for kind %q", t.Kind)}
	}
	src := t.Source()
	raws, err := f.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	return p.processor.Process(ctx, raws, src, maxCount), nil
}
