package storage

import (
	"testing"

	"github.com/LJTian/NewsCard/internal/collector"
	"github.com/LJTian/NewsCard/internal/topic"
	"gorm.io/datatypes"
)

func TestChannelTopicConversion(t *testing.T) {
	var it topic.Topic
	for _, tp := range topic.Defaults() {
		if tp.Kind == collector.KindPage {
			it = tp
		}
	}

	ch, err := ChannelFromTopic(it)
	if err != nil {
		t.Fatalf("ChannelFromTopic error: %v", err)
	}
	if ch.Status != StatusActive || ch.Kind != "page" {
		t.Fatalf("unexpected channel: %+v", ch)
	}

	back, err := ch.Topic()
	if err != nil {
		t.Fatalf("Topic error: %v", err)
	}
	if len(back.Strategies) != len(it.Strategies) || back.Strategies[0].Item != it.Strategies[0].Item {
		t.Fatalf("strategies lost: %+v", back.Strategies)
	}
	if back.Headers["Accept-Language"] != it.Headers["Accept-Language"] {
		t.Fatalf("headers lost: %+v", back.Headers)
	}
	if err := back.Validate(); err != nil {
		t.Fatalf("converted topic invalid: %v", err)
	}
}

func TestChannelDisabledAndDefaults(t *testing.T) {
	ch := Channel{
		Code:    "weather",
		Name:    "날씨",
		URL:     "https://weather.example.com/rss",
		WebURL:  "https://weather.example.com",
		Status:  StatusDisabled,
		Headers: datatypes.JSONMap{"User-Agent": "x", "Retry": 3},
	}
	tp, err := ch.Topic()
	if err != nil {
		t.Fatalf("Topic error: %v", err)
	}
	if !tp.Disabled || tp.Kind != collector.KindFeed {
		t.Fatalf("unexpected topic: %+v", tp)
	}
	if len(tp.Headers) != 1 || tp.Headers["User-Agent"] != "x" {
		t.Fatalf("non-string header values should be dropped: %+v", tp.Headers)
	}

	bad := Channel{Code: "bad", Strategies: datatypes.JSON(`{not json`)}
	if _, err := bad.Topic(); err == nil {
		t.Fatalf("invalid strategies json should error")
	}
}
