package api

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/LJTian/NewsCard/internal/card"
	"github.com/LJTian/NewsCard/internal/topic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const healthText = "뉴스봇 서버 작동 중입니다."

// Runner 执行一次主题采集，由 pipeline.Pipeline 实现
type Runner interface {
	Run(ctx context.Context, t topic.Topic, maxCount int) card.Response
}

type Server struct {
	registry *topic.Registry
	runner   Runner
	maxCount int
}

func NewServer(registry *topic.Registry, runner Runner, maxCount int) *Server {
	if maxCount <= 0 {
		maxCount = listCardMaxItems
	}
	return &Server{registry: registry, runner: runner, maxCount: maxCount}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.Use(requestID())

	r.GET("/", s.root)
	r.GET("/health", s.health)

	// 技能回调：每个主题一个入口，平台以 POST 调用
	r.POST("/news/:topic", s.skill)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/topics", s.listTopics)
		v1.GET("/cards/:topic", s.getCard)
	}
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func (s *Server) root(c *gin.Context) {
	c.String(http.StatusOK, healthText)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) skill(c *gin.Context) {
	t, ok := s.registry.Get(c.Param("topic"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    "not_found",
			"message": "unknown topic",
		})
		return
	}

	// 请求体解析失败不影响出卡，按默认参数处理
	var req skillRequest
	_ = c.ShouldBindJSON(&req)

	n := req.count()
	if q, err := strconv.Atoi(c.Query("count")); err == nil {
		n = q
	}
	if n <= 0 {
		n = s.maxCount
	}

	carousel := c.Query("layout") == "carousel"
	if carousel {
		n = clampCount(n, carouselMaxItems)
	} else {
		n = clampCount(n, listCardMaxItems)
	}

	resp := s.runner.Run(c.Request.Context(), t, n)
	log.Printf("api: [%s] skill topic=%s items=%d placeholder=%v", c.GetString("request_id"), t.Code, len(resp.Items), resp.Placeholder)

	// 平台要求始终返回 200，失败信息体现在卡片内容里
	if carousel {
		c.JSON(http.StatusOK, ToCarousel(resp))
		return
	}
	c.JSON(http.StatusOK, ToListCard(resp))
}

func (s *Server) listTopics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    s.registry.List(),
	})
}

func (s *Server) getCard(c *gin.Context) {
	t, ok := s.registry.Get(c.Param("topic"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    "not_found",
			"message": "unknown topic",
		})
		return
	}

	limitStr := c.DefaultQuery("count", strconv.Itoa(s.maxCount))
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = s.maxCount
	}
	limit = clampCount(limit, carouselMaxItems)

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    s.runner.Run(c.Request.Context(), t, limit),
	})
}
