package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options 日志轮转参数，单位与 lumberjack 一致（MB / 个 / 天）
type Options struct {
	File       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
}

// Setup 将标准库 log 输出到 stdout，配置了文件时同时写入轮转文件。
// 返回的 io.Closer 用于退出时关闭文件；未配置文件时为 nil。
func Setup(opts Options) (io.Closer, error) {
	log.SetFlags(log.LstdFlags)
	if opts.File == "" {
		log.SetOutput(os.Stdout)
		return nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, fmt.Errorf("logger: create log dir: %w", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    orDefault(opts.MaxSize, 50),
		MaxBackups: orDefault(opts.MaxBackups, 5),
		MaxAge:     orDefault(opts.MaxAge, 14),
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	return rotator, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
