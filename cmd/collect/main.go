package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/LJTian/NewsCard/internal/api"
	"github.com/LJTian/NewsCard/internal/cache"
	"github.com/LJTian/NewsCard/internal/config"
	"github.com/LJTian/NewsCard/internal/pipeline"
	"github.com/LJTian/NewsCard/internal/scheduler"
	"github.com/LJTian/NewsCard/internal/topic"
	"github.com/spf13/cobra"
)

// 一个仅执行一次采集的命令行入口：适合手动检查某个主题的出卡结果
func main() {
	var (
		count    int
		carousel bool
	)

	root := &cobra.Command{
		Use:   "collect [topic...]",
		Short: "采集一次并打印技能响应 JSON，不带参数时采集全部主题",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			registry := topic.NewRegistry(scheduler.TopicSources{File: cfg.TopicsFile}.Load())

			var topics []topic.Topic
			for _, key := range args {
				t, ok := registry.Get(key)
				if !ok {
					return fmt.Errorf("unknown topic: %s", key)
				}
				topics = append(topics, t)
			}
			if len(args) == 0 {
				topics = registry.List()
			}

			p := pipeline.FromConfig(cfg, cache.NewLRU(cfg.ImageCacheSize))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			for _, t := range topics {
				resp := p.Run(cmd.Context(), t, count)
				out := api.ToListCard(resp)
				if carousel {
					out = api.ToCarousel(resp)
				}
				if err := enc.Encode(out); err != nil {
					return fmt.Errorf("encode %s: %w", t.Code, err)
				}
			}
			return nil
		},
	}
	root.Flags().IntVarP(&count, "count", "n", 0, "每个主题的条数，0 使用默认值")
	root.Flags().BoolVar(&carousel, "carousel", false, "输出 carousel 布局")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
