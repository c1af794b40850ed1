package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/LJTian/NewsCard/internal/collector"
)

const placeholder = "https://via.placeholder.com/640"

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		in, origin, want string
	}{
		{"//x.com/i.png", "example.com", "https://x.com/i.png"},
		{"/i.png", "example.com", "https://example.com/i.png"},
		{"https://x.com/i.png", "example.com", "https://x.com/i.png"},
		{"/i.png", "https://example.com/", "https://example.com/i.png"},
		{"  /view/AKR1 ", "www.yna.co.kr", "https://www.yna.co.kr/view/AKR1"},
		{"/i.png", "", ""},
		{"", "example.com", ""},
	}
	for _, c := range cases {
		if got := NormalizeURL(c.in, c.origin); got != c.want {
			t.Fatalf("NormalizeURL(%q, %q) = %q, want %q", c.in, c.origin, got, c.want)
		}
	}
}

func TestNormalizeURLIdempotent(t *testing.T) {
	for _, u := range []string{"https://x.com/a", "//x.com/a", "/a", "http://y.org/b?c=1"} {
		once := NormalizeURL(u, "example.com")
		if twice := NormalizeURL(once, "example.com"); twice != once {
			t.Fatalf("NormalizeURL not idempotent for %q: %q vs %q", u, once, twice)
		}
	}
}

func TestSanitize(t *testing.T) {
	if got := Sanitize("<b>Hello</b>  World\n", 40); got != "Hello World" {
		t.Fatalf("Sanitize = %q, want %q", got, "Hello World")
	}
	if got := Sanitize("&lt;b&gt;속보&lt;/b&gt; 국회 &amp; 정부", 40); got != "속보 국회 & 정부" {
		t.Fatalf("Sanitize entities = %q", got)
	}
	if got := Sanitize(" <br/>\n\t ", 40); got != "" {
		t.Fatalf("Sanitize blank = %q, want empty", got)
	}
}

func TestSanitizeTruncates(t *testing.T) {
	long := strings.Repeat("a", 41)
	got := Sanitize(long, 40)
	if len(got) > 40 || !strings.HasSuffix(got, Ellipsis) {
		t.Fatalf("Sanitize(41 chars) = %q (len %d)", got, len(got))
	}

	// 按字计数而不是字节
	korean := strings.Repeat("가", 45)
	got = Sanitize(korean, 40)
	if n := utf8.RuneCountInString(got); n != 40 {
		t.Fatalf("rune count = %d, want 40: %q", n, got)
	}

	exact := strings.Repeat("b", 40)
	if got := Sanitize(exact, 40); got != exact {
		t.Fatalf("title at cap should be kept: %q", got)
	}
}

func TestSanitizeComposesHangul(t *testing.T) {
	// "한" 的分解形式：ᄒ + ᅡ + ᆫ
	decomposed := "\u1112\u1161\u11ab"
	if got := Sanitize(decomposed, 40); got != "한" {
		t.Fatalf("Sanitize NFD = %q, want %q", got, "한")
	}
}

func TestExtractImageCandidateOrder(t *testing.T) {
	p := NewProcessor(40, placeholder)

	cases := []struct {
		name string
		raw  collector.RawItem
		want string
	}{
		{
			name: "media wins over description",
			raw: collector.RawItem{
				Title:       "t",
				Media:       []string{"//img.example.com/m.jpg"},
				Description: `<img src="https://img.example.com/d.jpg">`,
			},
			want: "https://img.example.com/m.jpg",
		},
		{
			name: "description img",
			raw:  collector.RawItem{Title: "t", Description: `<p>hi</p><img alt="x" src="/d.jpg">`},
			want: "https://example.com/d.jpg",
		},
		{
			name: "escaped description img",
			raw:  collector.RawItem{Title: "t", Description: `&lt;img src=&quot;https://img.example.com/e.jpg&quot;&gt;`},
			want: "https://img.example.com/e.jpg",
		},
		{
			name: "placeholder",
			raw:  collector.RawItem{Title: "t", Description: "no picture"},
			want: placeholder,
		},
	}
	for _, c := range cases {
		it, ok := p.Extract(c.raw, "example.com")
		if !ok {
			t.Fatalf("%s: item unexpectedly excluded", c.name)
		}
		if it.Image != c.want {
			t.Fatalf("%s: image = %q, want %q", c.name, it.Image, c.want)
		}
	}
}

func TestExtractLinkSentinelAndTitleExclusion(t *testing.T) {
	p := NewProcessor(40, placeholder)

	it, ok := p.Extract(collector.RawItem{Title: "제목"}, "example.com")
	if !ok || it.Link != NoLink {
		t.Fatalf("missing link should give %q and keep item, got %+v ok=%v", NoLink, it, ok)
	}

	if _, ok := p.Extract(collector.RawItem{Title: "<span> </span>", Link: "/a"}, "example.com"); ok {
		t.Fatalf("item with empty sanitized title should be excluded")
	}
}

func TestProcessKeepsOrderAndBound(t *testing.T) {
	p := NewProcessor(40, placeholder)

	var raws []collector.RawItem
	for i := 1; i <= 7; i++ {
		raws = append(raws, collector.RawItem{Title: fmt.Sprintf("기사 %d", i), Link: fmt.Sprintf("/view/%d", i)})
	}
	// 空标题与重复链接不占名额
	raws = append([]collector.RawItem{{Title: " "}, {Title: "dup", Link: "/view/1"}}, raws...)
	raws[1], raws[2] = raws[2], raws[1]

	out := p.Process(context.Background(), raws, collector.Source{BaseOrigin: "example.com"}, 5)
	if len(out) != 5 {
		t.Fatalf("expected 5 items, got %d", len(out))
	}
	for i, it := range out {
		want := fmt.Sprintf("기사 %d", i+1)
		if it.Title != want {
			t.Fatalf("out[%d].Title = %q, want %q", i, it.Title, want)
		}
		if it.Link == "" || it.Image != placeholder {
			t.Fatalf("out[%d] not normalized: %+v", i, it)
		}
	}
}

type stubResolver struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]bool
}

func (s *stubResolver) Resolve(_ context.Context, link string) (string, error) {
	s.mu.Lock()
	s.calls[link]++
	s.mu.Unlock()
	if s.fail[link] {
		return "", errors.New("boom")
	}
	return "//og.example.com" + strings.TrimPrefix(link, "https://example.com") + ".jpg", nil
}

type mapCache struct {
	mu sync.Mutex
	m  map[string]string
}

func (c *mapCache) Get(link string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[link]
	return v, ok
}

func (c *mapCache) Add(link, image string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[link] = image
}

func TestProcessOGImageFallbackUsesCache(t *testing.T) {
	res := &stubResolver{calls: map[string]int{}, fail: map[string]bool{"https://example.com/b": true}}
	p := NewProcessor(40, placeholder)
	p.Resolver = res
	p.Cache = &mapCache{m: map[string]string{}}

	raws := []collector.RawItem{
		{Title: "a", Link: "/a"},
		{Title: "b", Link: "/b"},
		{Title: "c", Link: "/c", Media: []string{"https://img.example.com/c.jpg"}},
		{Title: "d"},
	}
	src := collector.Source{BaseOrigin: "example.com", OGImage: true}

	for round := 0; round < 2; round++ {
		out := p.Process(context.Background(), raws, src, 5)
		if out[0].Image != "https://og.example.com/a.jpg" {
			t.Fatalf("round %d: og image = %q", round, out[0].Image)
		}
		if out[1].Image != placeholder {
			t.Fatalf("round %d: failed lookup should fall back to placeholder, got %q", round, out[1].Image)
		}
		if out[2].Image != "https://img.example.com/c.jpg" || out[3].Image != placeholder {
			t.Fatalf("round %d: unexpected images: %+v", round, out)
		}
	}

	if res.calls["https://example.com/a"] != 1 {
		t.Fatalf("cached link resolved %d times, want 1", res.calls["https://example.com/a"])
	}
	// 失败结果不缓存
	if res.calls["https://example.com/b"] != 2 {
		t.Fatalf("failed link resolved %d times, want 2", res.calls["https://example.com/b"])
	}
	if res.calls["https://example.com/c"] != 0 || res.calls[NoLink] != 0 {
		t.Fatalf("items with image or without link must not be resolved: %v", res.calls)
	}
}
