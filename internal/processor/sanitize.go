package processor

import (
	"html"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	DefaultTitleMaxLen = 40
	Ellipsis           = "..."
)

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// Sanitize 去掉标签、实体与多余空白，超过 maxLen 个字符时截断并追加 "..."。
// 部分订阅的韩文是分解形式（NFD），先做 NFC 归一，保证按字计数。
func Sanitize(raw string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultTitleMaxLen
	}
	s := tagPattern.ReplaceAllString(raw, "")
	s = html.UnescapeString(s)
	// 实体里转义过的标签，解码后再清一次
	s = tagPattern.ReplaceAllString(s, "")
	s = norm.NFC.String(s)
	s = strings.Join(strings.Fields(s), " ")
	return truncateRunes(s, maxLen)
}

// truncateRunes 按 rune 截断，总长度（含省略号）不超过 limit
func truncateRunes(s string, limit int) string {
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	if limit <= len(Ellipsis) {
		return string(rs[:limit])
	}
	return string(rs[:limit-len(Ellipsis)]) + Ellipsis
}
