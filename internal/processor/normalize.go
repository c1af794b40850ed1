package processor

import "strings"

// NormalizeURL 把协议相对 (//host/path) 和根相对 (/path) 链接补全为 https 绝对地址，
// 其他形式原样返回（视为已是绝对地址）。
// baseOrigin 为空时根相对链接无法补全，返回空串。
func NormalizeURL(u, baseOrigin string) string {
	u = strings.TrimSpace(u)
	switch {
	case u == "":
		return ""
	case strings.HasPrefix(u, "//"):
		return "https:" + u
	case strings.HasPrefix(u, "/"):
		origin := trimOrigin(baseOrigin)
		if origin == "" {
			return ""
		}
		return "https://" + origin + u
	default:
		return u
	}
}

// trimOrigin 容忍配置里写成 "https://example.com/" 的情况
func trimOrigin(origin string) string {
	origin = strings.TrimSpace(origin)
	origin = strings.TrimPrefix(origin, "https://")
	origin = strings.TrimPrefix(origin, "http://")
	return strings.TrimRight(origin, "/")
}
