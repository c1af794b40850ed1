package main

import (
	"log"

	"github.com/LJTian/NewsCard/internal/api"
	"github.com/LJTian/NewsCard/internal/cache"
	"github.com/LJTian/NewsCard/internal/config"
	"github.com/LJTian/NewsCard/internal/logger"
	"github.com/LJTian/NewsCard/internal/pipeline"
	"github.com/LJTian/NewsCard/internal/processor"
	"github.com/LJTian/NewsCard/internal/scheduler"
	"github.com/LJTian/NewsCard/internal/storage"
	"github.com/LJTian/NewsCard/internal/topic"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	closer, err := logger.Setup(logger.Options{File: cfg.LogFile})
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	// 数据库可选：配置了 DSN 才启用主题表
	sources := scheduler.TopicSources{File: cfg.TopicsFile}
	if cfg.PostgresDSN != "" {
		store, err := storage.NewStore(cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("init store failed: %v", err)
		}
		// 确保内置主题都有对应渠道，方便在库里直接改
		store.SeedTopics(topic.Defaults())
		sources.Store = store
	}

	registry := topic.NewRegistry(nil)
	s, err := scheduler.New(cfg.CronSpec, registry, sources)
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}
	// 启动时先加载一次，再按周期重载
	s.RunOnce()
	s.Start()
	defer s.Stop()

	var imgCache processor.ImageCache
	if cfg.RedisAddr != "" {
		rc := cache.NewRedis(cfg.RedisAddr, cfg.ImageCacheTTL)
		defer rc.Close()
		imgCache = rc
	} else {
		imgCache = cache.NewLRU(cfg.ImageCacheSize)
	}

	p := pipeline.FromConfig(cfg, imgCache)

	// API
	r := gin.Default()
	apiServer := api.NewServer(registry, p, cfg.MaxCount)
	apiServer.RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	log.Printf("starting api server at %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}
