package topic

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/LJTian/NewsCard/internal/collector"
	"gopkg.in/yaml.v3"
)

// Topic 一个主题对应一个数据源与一个"更多"跳转地址
type Topic struct {
	Code       string               `yaml:"code" json:"code"`
	Name       string               `yaml:"name" json:"name"`
	Kind       collector.Kind       `yaml:"kind" json:"kind"`
	URL        string               `yaml:"url" json:"url"`
	BaseOrigin string               `yaml:"base_origin" json:"baseOrigin"`
	WebURL     string               `yaml:"web_url" json:"webUrl"`
	Headers    map[string]string    `yaml:"headers,omitempty" json:"headers,omitempty"`
	Strategies []collector.Strategy `yaml:"strategies,omitempty" json:"strategies,omitempty"`
	OGImage    bool                 `yaml:"og_image,omitempty" json:"ogImage,omitempty"`
	// Disabled 用于在覆盖配置中下线内置主题
	Disabled bool `yaml:"disabled,omitempty" json:"-"`
}

func (t Topic) Source() collector.Source {
	return collector.Source{
		Kind:       t.Kind,
		URL:        t.URL,
		BaseOrigin: t.BaseOrigin,
		Headers:    t.Headers,
		Strategies: t.Strategies,
		OGImage:    t.OGImage,
	}
}

func (t Topic) Validate() error {
	if t.Code == "" {
		return errors.New("topic: code is required")
	}
	if t.Name == "" || t.URL == "" || t.WebURL == "" {
		return fmt.Errorf("topic %s: name, url and web_url are required", t.Code)
	}
	switch t.Kind {
	case collector.KindFeed:
	case collector.KindPage:
		if len(t.Strategies) == 0 {
			return fmt.Errorf("topic %s: page topics need at least one strategy", t.Code)
		}
	default:
		return fmt.Errorf("topic %s: unknown kind %q", t.Code, t.Kind)
	}
	return nil
}

type fileFormat struct {
	Topics []Topic `yaml:"topics"`
}

// LoadFile 读取 YAML 主题表；kind 缺省为 feed
func LoadFile(path string) ([]Topic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("topic: read %s: %w", path, err)
	}
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("topic: parse %s: %w", path, err)
	}
	for i := range f.Topics {
		if f.Topics[i].Kind == "" {
			f.Topics[i].Kind = collector.KindFeed
		}
	}
	return f.Topics, nil
}

// Merge 以 code 为键用 overrides 覆盖 base；Disabled 的条目会移除同名主题，
// 非法条目跳过并返回错误列表。顺序：base 原顺序，新增主题追加在后。
func Merge(base []Topic, overrides ...[]Topic) ([]Topic, []error) {
	var errs []error
	out := append([]Topic(nil), base...)
	index := make(map[string]int, len(out))
	for i, t := range out {
		index[t.Code] = i
	}
	removed := make(map[string]bool)

	for _, list := range overrides {
		for _, t := range list {
			if t.Disabled {
				removed[t.Code] = true
				continue
			}
			if err := t.Validate(); err != nil {
				errs = append(errs, err)
				continue
			}
			delete(removed, t.Code)
			if i, ok := index[t.Code]; ok {
				out[i] = t
				continue
			}
			index[t.Code] = len(out)
			out = append(out, t)
		}
	}

	if len(removed) == 0 {
		return out, errs
	}
	kept := out[:0]
	for _, t := range out {
		if !removed[t.Code] {
			kept = append(kept, t)
		}
	}
	return kept, errs
}

// Registry 当前生效的主题表，可在运行时整体替换
type Registry struct {
	mu     sync.RWMutex
	topics []Topic
}

func NewRegistry(topics []Topic) *Registry {
	r := &Registry{}
	r.Replace(topics)
	return r
}

func (r *Registry) Replace(topics []Topic) {
	cp := append([]Topic(nil), topics...)
	r.mu.Lock()
	r.topics = cp
	r.mu.Unlock()
}

// Get 先按 code 查找，再按显示名（如 "정치"）查找
func (r *Registry) Get(key string) (Topic, bool) {
	key = strings.TrimSpace(key)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.topics {
		if strings.EqualFold(t.Code, key) {
			return t, true
		}
	}
	for _, t := range r.topics {
		if t.Name == key {
			return t, true
		}
	}
	return Topic{}, false
}

func (r *Registry) List() []Topic {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Topic(nil), r.topics...)
}
