package collector

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

// Strategy 一组选择器：Item 定位条目节点，其余字段在节点内部查找。
// 网页结构可能调整，因此按顺序尝试多组，取第一组有结果的。
type Strategy struct {
	Item  string `yaml:"item" json:"item"`
	Title string `yaml:"title,omitempty" json:"title,omitempty"`
	// Link 为空时：节点本身是 <a> 则取自身，否则取第一个 <a>
	Link  string `yaml:"link,omitempty" json:"link,omitempty"`
	Image string `yaml:"image,omitempty" json:"image,omitempty"`
	// ImageAttrs 懒加载图片常把地址放在 data-src
	ImageAttrs []string `yaml:"image_attrs,omitempty" json:"image_attrs,omitempty"`
}

var defaultImageAttrs = []string{"data-src", "data-lazy-src", "src"}

// PageFetcher 用 colly 抓取网页，再按 Strategy 链抽取条目
type PageFetcher struct {
	Timeout   time.Duration
	UserAgent string
}

func (p *PageFetcher) Fetch(ctx context.Context, src Source) ([]RawItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, classify(src.URL, err)
	}
	if len(src.Strategies) == 0 {
		return nil, &Failure{Reason: ReasonParse, URL: src.URL, Err: errors.New("no extraction strategy")}
	}

	var opts []colly.CollectorOption
	if p.UserAgent != "" {
		opts = append(opts, colly.UserAgent(p.UserAgent))
	}
	c := colly.NewCollector(opts...)
	c.SetRequestTimeout(timeoutFor(ctx, p.Timeout))

	c.OnRequest(func(r *colly.Request) {
		for k, v := range src.Headers {
			r.Headers.Set(k, v)
		}
	})

	var (
		items   []RawItem
		matched bool
		status  int
	)
	c.OnHTML("html", func(e *colly.HTMLElement) {
		matched = true
		items = ApplyStrategies(e.DOM, src.Strategies)
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	if err := c.Visit(src.URL); err != nil {
		if status != 0 {
			return nil, &Failure{Reason: ReasonHTTPError, Status: status, URL: src.URL, Err: err}
		}
		return nil, classify(src.URL, err)
	}
	if !matched {
		return nil, &Failure{Reason: ReasonParse, URL: src.URL, Err: errors.New("response is not an html document")}
	}
	return items, nil
}

// ApplyStrategies 依次尝试每组选择器，返回第一组抽到条目的结果
func ApplyStrategies(root *goquery.Selection, strategies []Strategy) []RawItem {
	for _, s := range strategies {
		if items := s.extract(root); len(items) > 0 {
			return items
		}
	}
	return nil
}

func (s Strategy) extract(root *goquery.Selection) []RawItem {
	if s.Item == "" {
		return nil
	}
	var out []RawItem
	root.Find(s.Item).Each(func(_ int, node *goquery.Selection) {
		raw := RawItem{
			Title: s.title(node),
			Link:  s.link(node),
			Media: s.images(node),
		}
		if strings.TrimSpace(raw.Title) == "" {
			return
		}
		out = append(out, raw)
	})
	return out
}

func (s Strategy) title(node *goquery.Selection) string {
	sel := node
	if s.Title != "" {
		sel = node.Find(s.Title).First()
	}
	if t := strings.TrimSpace(sel.Text()); t != "" {
		return t
	}
	// 纯图片链接：用 alt 兜底
	alt, _ := node.Find("img").First().Attr("alt")
	return alt
}

func (s Strategy) link(node *goquery.Selection) string {
	var sel *goquery.Selection
	switch {
	case s.Link != "":
		sel = node.Find(s.Link).First()
	case node.Is("a"):
		sel = node
	default:
		sel = node.Find("a").First()
	}
	href, _ := sel.Attr("href")
	return strings.TrimSpace(href)
}

func (s Strategy) images(node *goquery.Selection) []string {
	selector := s.Image
	if selector == "" {
		selector = "img"
	}
	img := node.Find(selector).First()
	if img.Length() == 0 {
		return nil
	}
	attrs := s.ImageAttrs
	if len(attrs) == 0 {
		attrs = defaultImageAttrs
	}
	for _, a := range attrs {
		v := strings.TrimSpace(img.AttrOr(a, ""))
		if v != "" && !strings.HasPrefix(v, "data:") {
			return []string{v}
		}
	}
	return nil
}
