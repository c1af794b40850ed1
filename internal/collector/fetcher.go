package collector

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Kind 区分数据源协议：RSS/Atom 订阅或普通网页
type Kind string

const (
	KindFeed Kind = "feed"
	KindPage Kind = "page"
)

const (
	DefaultTimeout = 5 * time.Second
	// 响应体上限，防止异常大的页面拖垮进程
	maxBodyBytes = 4 << 20
)

// Source 描述一次采集的目标，由调用方按主题提供
type Source struct {
	Kind Kind
	URL  string
	// BaseOrigin 用于补全相对链接，例如 "www.yna.co.kr"；从不根据抓到的文档推断
	BaseOrigin string
	Headers    map[string]string
	// Strategies 仅 page 类型使用，按顺序尝试
	Strategies []Strategy
	// OGImage 为 true 时，没有图片的条目会去文章页取 og:image
	OGImage bool
}

// RawItem 订阅条目或网页节点的原始字段，抽取完成后即丢弃
type RawItem struct {
	Title string
	Link  string
	// Media 结构化的图片候选（media:content、enclosure 等），按优先级排列
	Media []string
	// Description 条目内嵌的 HTML 摘要，用于兜底查找 <img>
	Description string
}

// Fetcher 抽象一种协议的采集方式
type Fetcher interface {
	Fetch(ctx context.Context, src Source) ([]RawItem, error)
}

// Reason 失败原因标签
type Reason string

const (
	ReasonTimeout   Reason = "timeout"
	ReasonHTTPError Reason = "http_error"
	ReasonParse     Reason = "parse_error"
)

// Failure 采集失败，调用方通过 errors.As 取出原因
type Failure struct {
	Reason Reason
	Status int
	URL    string
	Err    error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s %s: %v", f.Tag(), f.URL, f.Err)
	}
	return fmt.Sprintf("%s %s", f.Tag(), f.URL)
}

func (f *Failure) Unwrap() error { return f.Err }

// Tag 返回用于日志的短标签，如 timeout / http_error(503)
func (f *Failure) Tag() string {
	if f.Reason == ReasonHTTPError && f.Status != 0 {
		return fmt.Sprintf("%s(%d)", f.Reason, f.Status)
	}
	return string(f.Reason)
}

// ReasonOf 返回任意错误对应的原因标签，非 Failure 视为 parse_error
func ReasonOf(err error) string {
	if err == nil {
		return ""
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Tag()
	}
	return string(ReasonParse)
}

// classify 把网络层错误归类为 timeout 或 http_error
func classify(url string, err error) *Failure {
	if isTimeout(err) {
		return &Failure{Reason: ReasonTimeout, URL: url, Err: err}
	}
	return &Failure{Reason: ReasonHTTPError, URL: url, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// timeoutFor 取 ctx 剩余时间与 def 中较小者
func timeoutFor(ctx context.Context, def time.Duration) time.Duration {
	if def <= 0 {
		def = DefaultTimeout
	}
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < def {
			return left
		}
	}
	return def
}

func applyHeaders(req *http.Request, headers map[string]string, userAgent string) {
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
}
