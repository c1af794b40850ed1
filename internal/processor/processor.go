package processor

import (
	"context"
	"html"
	"log"
	"regexp"
	"strings"
	"sync"

	"github.com/LJTian/NewsCard/internal/collector"
	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultMaxCount = 5
	// NoLink 链接无法解析时的占位
	NoLink = "#"

	ogConcurrency = 4
)

// NewsItem 归一化后的新闻条目，构造后不再修改
type NewsItem struct {
	Title string `json:"title"`
	Link  string `json:"link"`
	Image string `json:"image"`
}

// ImageCache 按文章链接缓存 og:image 结果，必须有容量上限
type ImageCache interface {
	Get(link string) (string, bool)
	Add(link, image string)
}

// ImageResolver 从文章页解析配图
type ImageResolver interface {
	Resolve(ctx context.Context, link string) (string, error)
}

// Processor 把原始条目转换为 NewsItem：标题清洗、链接补全、配图候选链
type Processor struct {
	TitleMaxLen      int
	PlaceholderImage string
	// Resolver 为空时不做 og:image 查找
	Resolver ImageResolver
	Cache    ImageCache
}

func NewProcessor(titleMaxLen int, placeholder string) *Processor {
	return &Processor{TitleMaxLen: titleMaxLen, PlaceholderImage: placeholder}
}

// imageCandidate 返回一个图片地址，空串表示本候选没有结果
type imageCandidate func(raw collector.RawItem) string

// 候选顺序即优先级：结构化媒体字段 > 摘要 HTML 里的第一张 <img>
var imageCandidates = []imageCandidate{
	mediaImage,
	descriptionImage,
}

// Extract 处理单个条目；标题清洗后为空的条目返回 false
func (p *Processor) Extract(raw collector.RawItem, baseOrigin string) (NewsItem, bool) {
	it, ok := p.extract(raw, baseOrigin)
	if ok && it.Image == "" {
		it.Image = p.PlaceholderImage
	}
	return it, ok
}

func (p *Processor) extract(raw collector.RawItem, baseOrigin string) (NewsItem, bool) {
	title := Sanitize(raw.Title, p.TitleMaxLen)
	if title == "" {
		return NewsItem{}, false
	}

	link := NormalizeURL(raw.Link, baseOrigin)
	if link == "" {
		link = NoLink
	}

	var image string
	for _, c := range imageCandidates {
		if u := NormalizeURL(c(raw), baseOrigin); u != "" {
			image = u
			break
		}
	}

	return NewsItem{Title: title, Link: link, Image: image}, true
}

// Process 按原始顺序抽取，最多保留 max 条；同一链接只保留第一次出现的条目
func (p *Processor) Process(ctx context.Context, raws []collector.RawItem, src collector.Source, max int) []NewsItem {
	if max <= 0 {
		max = DefaultMaxCount
	}
	out := make([]NewsItem, 0, max)
	seen := make(map[string]struct{})

	for _, raw := range raws {
		if len(out) >= max {
			break
		}
		it, ok := p.extract(raw, src.BaseOrigin)
		if !ok {
			continue
		}
		if it.Link != NoLink {
			if _, dup := seen[it.Link]; dup {
				continue
			}
			seen[it.Link] = struct{}{}
		}
		out = append(out, it)
	}

	if src.OGImage && p.Resolver != nil {
		p.fillOGImages(ctx, out, src.BaseOrigin)
	}
	for i := range out {
		if out[i].Image == "" {
			out[i].Image = p.PlaceholderImage
		}
	}
	return out
}

// fillOGImages 并发补齐缺图条目的 og:image，每个 goroutine 只写自己的下标
func (p *Processor) fillOGImages(ctx context.Context, items []NewsItem, baseOrigin string) {
	var (
		wg  sync.WaitGroup
		sem = make(chan struct{}, ogConcurrency)
	)
	for i := range items {
		if items[i].Image != "" || items[i].Link == NoLink {
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			items[idx].Image = NormalizeURL(p.ogImage(ctx, items[idx].Link), baseOrigin)
		}(i)
	}
	wg.Wait()
}

func (p *Processor) ogImage(ctx context.Context, link string) string {
	if p.Cache != nil {
		if img, ok := p.Cache.Get(link); ok {
			return img
		}
	}
	img, err := p.Resolver.Resolve(ctx, link)
	if err != nil {
		log.Printf("processor: og:image %s: %s", link, collector.ReasonOf(err))
		return ""
	}
	// 空结果也缓存，避免对没有配图的文章反复请求
	if p.Cache != nil {
		p.Cache.Add(link, img)
	}
	return img
}

func mediaImage(raw collector.RawItem) string {
	for _, m := range raw.Media {
		if m = strings.TrimSpace(m); m != "" {
			return m
		}
	}
	return ""
}

var imgSrcPattern = regexp.MustCompile(`(?i)<img[^>]+src\s*=\s*["']([^"']+)["']`)

// descriptionImage 先用 goquery 解析，解析不到再对反转义后的文本跑正则
func descriptionImage(raw collector.RawItem) string {
	desc := raw.Description
	if !strings.Contains(strings.ToLower(desc), "img") {
		return ""
	}

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(desc)); err == nil {
		var src string
		doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			for _, attr := range []string{"src", "data-src"} {
				v := strings.TrimSpace(s.AttrOr(attr, ""))
				if v != "" && !strings.HasPrefix(v, "data:") {
					src = v
					return false
				}
			}
			return true
		})
		if src != "" {
			return src
		}
	}

	if m := imgSrcPattern.FindStringSubmatch(html.UnescapeString(desc)); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}
	return ""
}
