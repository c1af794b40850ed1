package topic

import "github.com/LJTian/NewsCard/internal/collector"

const yonhapOrigin = "www.yna.co.kr"

func yonhap(code, name, section string) Topic {
	return Topic{
		Code:       code,
		Name:       name,
		Kind:       collector.KindFeed,
		URL:        "https://www.yna.co.kr/rss/" + section + ".xml",
		BaseOrigin: yonhapOrigin,
		WebURL:     "https://www.yna.co.kr/" + section + "/all",
	}
}

// naverSectionStrategies Naver 新闻分区页头条列表；页面结构经常调整，旧版选择器留在后面兜底
var naverSectionStrategies = []collector.Strategy{
	{Item: "li.sa_item", Title: "strong.sa_text_strong", Link: "a.sa_text_title", Image: "a.sa_thumb img"},
	{Item: "div.sh_item", Title: "a.sh_text_headline", Link: "a.sh_text_headline", Image: "div.sh_thumb img"},
	{Item: "ul.type06_headline li", Title: "dt:not(.photo) a", Link: "dt a", Image: "dt.photo img"},
}

// Defaults 内置主题表，可被 TOPICS_FILE 与数据库中的配置覆盖
func Defaults() []Topic {
	return []Topic{
		yonhap("politics", "정치", "politics"),
		yonhap("economy", "경제", "economy"),
		yonhap("society", "사회", "society"),
		yonhap("culture", "문화", "culture"),
		{
			Code:       "it",
			Name:       "IT",
			Kind:       collector.KindPage,
			URL:        "https://news.naver.com/section/105",
			BaseOrigin: "news.naver.com",
			WebURL:     "https://news.naver.com/section/105",
			Headers:    map[string]string{"Accept-Language": "ko-KR,ko;q=0.9"},
			Strategies: naverSectionStrategies,
		},
		yonhap("world", "국제", "international"),
		yonhap("sports", "스포츠", "sports"),
		yonhap("entertainment", "연예", "entertainment"),
	}
}
