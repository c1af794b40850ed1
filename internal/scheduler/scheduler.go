package scheduler

import (
	"log"

	"github.com/LJTian/NewsCard/internal/storage"
	"github.com/LJTian/NewsCard/internal/topic"
	"github.com/robfig/cron/v3"
)

// TopicSources 主题表来源：内置表 < YAML 文件 < 数据库
type TopicSources struct {
	File  string
	Store *storage.Store
}

// Load 合并所有来源。文件或数据库读取失败时跳过该来源，内置表总是可用。
func (ts TopicSources) Load() []topic.Topic {
	var overrides [][]topic.Topic
	if ts.File != "" {
		list, err := topic.LoadFile(ts.File)
		if err != nil {
			log.Printf("warn: %v", err)
		} else {
			overrides = append(overrides, list)
		}
	}
	if ts.Store != nil {
		list, err := ts.Store.ListTopics()
		if err != nil {
			log.Printf("warn: list topics from db: %v", err)
		} else {
			overrides = append(overrides, list)
		}
	}

	topics, errs := topic.Merge(topic.Defaults(), overrides...)
	for _, err := range errs {
		log.Printf("warn: skip topic: %v", err)
	}
	return topics
}

type Scheduler struct {
	cron     *cron.Cron
	registry *topic.Registry
	sources  TopicSources
}

func New(spec string, registry *topic.Registry, sources TopicSources) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:     c,
		registry: registry,
		sources:  sources,
	}

	_, err := c.AddFunc(spec, s.runOnce)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce 对外暴露的单次执行入口，方便启动时立即加载
func (s *Scheduler) RunOnce() {
	s.runOnce()
}

func (s *Scheduler) runOnce() {
	topics := s.sources.Load()
	s.registry.Replace(topics)
	log.Printf("topics reloaded: %d active", len(topics))
}
