package api

import (
	"strconv"
	"strings"

	"github.com/LJTian/NewsCard/internal/card"
	"github.com/LJTian/NewsCard/internal/processor"
)

const (
	skillVersion = "2.0"
	// 平台限制：listCard 最多 5 条，carousel 最多 10 张
	listCardMaxItems = 5
	carouselMaxItems = 10

	articleButtonLabel = "기사 보기"
)

// skillRequest 只解析用得到的字段，其余忽略
type skillRequest struct {
	UserRequest struct {
		Utterance string `json:"utterance"`
	} `json:"userRequest"`
	Action struct {
		Params      map[string]any `json:"params"`
		ClientExtra map[string]any `json:"clientExtra"`
	} `json:"action"`
}

// count 平台传来的参数可能是字符串或数字
func (r skillRequest) count() int {
	for _, m := range []map[string]any{r.Action.ClientExtra, r.Action.Params} {
		switch v := m["count"].(type) {
		case float64:
			return int(v)
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n
			}
		}
	}
	return 0
}

type SkillResponse struct {
	Version  string   `json:"version"`
	Template Template `json:"template"`
}

type Template struct {
	Outputs []Output `json:"outputs"`
}

type Output struct {
	ListCard *ListCard `json:"listCard,omitempty"`
	Carousel *Carousel `json:"carousel,omitempty"`
	TextCard *TextCard `json:"textCard,omitempty"`
}

type ListCard struct {
	Header  ListHeader `json:"header"`
	Items   []ListItem `json:"items"`
	Buttons []Button   `json:"buttons"`
}

type ListHeader struct {
	Title string `json:"title"`
}

type ListItem struct {
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl,omitempty"`
	Link     *Link  `json:"link,omitempty"`
}

type Link struct {
	Web string `json:"web"`
}

type Button struct {
	Label      string `json:"label"`
	Action     string `json:"action"`
	WebLinkURL string `json:"webLinkUrl"`
}

type Carousel struct {
	Type  string      `json:"type"`
	Items []BasicCard `json:"items"`
}

type BasicCard struct {
	Title     string    `json:"title"`
	Thumbnail Thumbnail `json:"thumbnail"`
	Buttons   []Button  `json:"buttons"`
}

type Thumbnail struct {
	ImageURL string `json:"imageUrl"`
}

type TextCard struct {
	Title   string   `json:"title"`
	Buttons []Button `json:"buttons"`
}

func webLink(label, url string) Button {
	return Button{Label: label, Action: "webLink", WebLinkURL: url}
}

// ToListCard 卡片转为 listCard 技能响应
func ToListCard(resp card.Response) SkillResponse {
	lc := &ListCard{
		Header:  ListHeader{Title: resp.Header},
		Items:   make([]ListItem, 0, len(resp.Items)),
		Buttons: []Button{webLink(resp.More.Label, resp.More.WebURL)},
	}
	for _, it := range resp.Items {
		li := ListItem{Title: it.Title, ImageURL: it.Image}
		if it.Link != "" && it.Link != processor.NoLink {
			li.Link = &Link{Web: it.Link}
		}
		lc.Items = append(lc.Items, li)
	}
	return SkillResponse{Version: skillVersion, Template: Template{Outputs: []Output{{ListCard: lc}}}}
}

// ToCarousel basicCard 轮播，标题与"更多"按钮放在后面的 textCard 里
func ToCarousel(resp card.Response) SkillResponse {
	cr := &Carousel{Type: "basicCard", Items: make([]BasicCard, 0, len(resp.Items))}
	for _, it := range resp.Items {
		link := it.Link
		if link == "" || link == processor.NoLink {
			link = resp.More.WebURL
		}
		cr.Items = append(cr.Items, BasicCard{
			Title:     it.Title,
			Thumbnail: Thumbnail{ImageURL: it.Image},
			Buttons:   []Button{webLink(articleButtonLabel, link)},
		})
	}
	tc := &TextCard{
		Title:   resp.Header,
		Buttons: []Button{webLink(resp.More.Label, resp.More.WebURL)},
	}
	return SkillResponse{Version: skillVersion, Template: Template{Outputs: []Output{{Carousel: cr}, {TextCard: tc}}}}
}

func clampCount(n, max int) int {
	if n <= 0 || n > max {
		return max
	}
	return n
}
