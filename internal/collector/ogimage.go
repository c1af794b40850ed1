package collector

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var ogImageSelectors = []string{
	`meta[property="og:image"]`,
	`meta[name="og:image"]`,
	`meta[name="twitter:image"]`,
	`link[rel="image_src"]`,
}

// OGImageResolver 访问文章页读取 og:image，用于订阅里没有配图的条目
type OGImageResolver struct {
	Client    *http.Client
	Timeout   time.Duration
	UserAgent string
}

func (o *OGImageResolver) Resolve(ctx context.Context, link string) (string, error) {
	timeout := timeoutFor(ctx, o.Timeout)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := httpGet(ctx, o.Client, timeout, Source{URL: link}, o.UserAgent)
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", &Failure{Reason: ReasonParse, URL: link, Err: err}
	}
	return ogImage(doc), nil
}

func ogImage(doc *goquery.Document) string {
	for _, sel := range ogImageSelectors {
		node := doc.Find(sel).First()
		v := node.AttrOr("content", "")
		if v == "" {
			v = node.AttrOr("href", "")
		}
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
