package storage

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/LJTian/NewsCard/internal/collector"
	"github.com/LJTian/NewsCard/internal/topic"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// Channel 主题配置表。只保存数据源配置，不保存采集到的新闻。
type Channel struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	Code       string            `gorm:"size:64;uniqueIndex" json:"code"`
	Name       string            `gorm:"size:128" json:"name"`
	Kind       string            `gorm:"size:16" json:"kind"`
	URL        string            `gorm:"size:1024" json:"url"`
	BaseOrigin string            `gorm:"size:256" json:"baseOrigin"`
	WebURL     string            `gorm:"size:1024" json:"webUrl"`
	Status     string            `gorm:"size:32;index" json:"status"` // active / disabled
	OGImage    bool              `json:"ogImage"`
	Headers    datatypes.JSONMap `gorm:"type:jsonb" json:"headers"`
	Strategies datatypes.JSON    `gorm:"type:jsonb" json:"strategies"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Store struct {
	DB *gorm.DB
}

func NewStore(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Channel{}); err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

// EnsureChannel 确保某个主题存在；已存在时保持数据库中的配置不变
func (s *Store) EnsureChannel(t topic.Topic) (*Channel, error) {
	ch := &Channel{}
	if err := s.DB.Where("code = ?", t.Code).First(ch).Error; err == nil {
		return ch, nil
	}

	ch, err := ChannelFromTopic(t)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Create(ch).Error; err != nil {
		return nil, err
	}
	return ch, nil
}

// SeedTopics 把内置主题写入数据库，单个失败只记录日志
func (s *Store) SeedTopics(topics []topic.Topic) {
	for _, t := range topics {
		if _, err := s.EnsureChannel(t); err != nil {
			log.Printf("warn: ensure channel %s failed: %v", t.Code, err)
		}
	}
}

// ListTopics 返回所有主题；disabled 的行以 Disabled=true 返回，供 topic.Merge 移除
func (s *Store) ListTopics() ([]topic.Topic, error) {
	var list []Channel
	if err := s.DB.Order("id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	out := make([]topic.Topic, 0, len(list))
	for _, ch := range list {
		t, err := ch.Topic()
		if err != nil {
			log.Printf("warn: channel %s: %v", ch.Code, err)
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func ChannelFromTopic(t topic.Topic) (*Channel, error) {
	ch := &Channel{
		Code:       t.Code,
		Name:       t.Name,
		Kind:       string(t.Kind),
		URL:        t.URL,
		BaseOrigin: t.BaseOrigin,
		WebURL:     t.WebURL,
		Status:     StatusActive,
		OGImage:    t.OGImage,
	}
	if t.Disabled {
		ch.Status = StatusDisabled
	}
	if len(t.Headers) > 0 {
		ch.Headers = datatypes.JSONMap{}
		for k, v := range t.Headers {
			ch.Headers[k] = v
		}
	}
	if len(t.Strategies) > 0 {
		bs, err := json.Marshal(t.Strategies)
		if err != nil {
			return nil, fmt.Errorf("marshal strategies: %w", err)
		}
		ch.Strategies = datatypes.JSON(bs)
	}
	return ch, nil
}

func (ch Channel) Topic() (topic.Topic, error) {
	t := topic.Topic{
		Code:       ch.Code,
		Name:       ch.Name,
		Kind:       collector.Kind(ch.Kind),
		URL:        ch.URL,
		BaseOrigin: ch.BaseOrigin,
		WebURL:     ch.WebURL,
		OGImage:    ch.OGImage,
		Disabled:   ch.Status == StatusDisabled,
	}
	if t.Kind == "" {
		t.Kind = collector.KindFeed
	}
	if len(ch.Headers) > 0 {
		t.Headers = make(map[string]string, len(ch.Headers))
		for k, v := range ch.Headers {
			// 非字符串的值忽略
			if s, ok := v.(string); ok {
				t.Headers[k] = s
			}
		}
	}
	if len(ch.Strategies) > 0 {
		if err := json.Unmarshal(ch.Strategies, &t.Strategies); err != nil {
			return topic.Topic{}, fmt.Errorf("unmarshal strategies: %w", err)
		}
	}
	return t, nil
}
