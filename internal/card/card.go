package card

import (
	"fmt"

	"github.com/LJTian/NewsCard/internal/processor"
)

// MoreLabel "전체 보기" 按钮文案
const MoreLabel = "전체 보기"

type Item struct {
	Title string `json:"title"`
	Image string `json:"image"`
	Link  string `json:"link"`
}

type Button struct {
	Label  string `json:"label"`
	WebURL string `json:"webUrl"`
}

// Response 与平台无关的卡片结构，由 HTTP 层序列化成具体的技能响应
type Response struct {
	Header string `json:"header"`
	Items  []Item `json:"items"`
	More   Button `json:"more"`
	// Placeholder 为 true 表示采集失败或结果为空
	Placeholder bool `json:"placeholder"`
}

// Format 纯函数：空列表替换为单条占位，标题为 "<topic> TOP <n>"，始终附带一个"更多"按钮
func Format(topic string, items []processor.NewsItem, fallbackURL, placeholderImage string) Response {
	resp := Response{
		More: Button{Label: MoreLabel, WebURL: fallbackURL},
	}

	if len(items) == 0 {
		resp.Items = []Item{{
			Title: UnavailableTitle(topic),
			Image: placeholderImage,
			Link:  fallbackURL,
		}}
		resp.Placeholder = true
	} else {
		resp.Items = make([]Item, 0, len(items))
		for _, it := range items {
			resp.Items = append(resp.Items, Item{Title: it.Title, Image: it.Image, Link: it.Link})
		}
	}

	resp.Header = fmt.Sprintf("%s TOP %d", topic, len(resp.Items))
	return resp
}

func UnavailableTitle(topic string) string {
	return fmt.Sprintf("%s unavailable, try again later", topic)
}
