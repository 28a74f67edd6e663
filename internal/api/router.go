// internal/api/router.go
package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Slade66/todo-notifier/internal/status"
	"github.com/Slade66/todo-notifier/pkg/event"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Server 把完成请求投递到 Redis Stream，由 worker 驱动真正的通知
type Server struct {
	rdb           redis.Cmdable
	statusManager *status.Manager
}

// NewServer 创建一个新的 API 服务
func NewServer(rdb redis.Cmdable, statusManager *status.Manager) *Server {
	return &Server{rdb: rdb, statusManager: statusManager}
}

// Router 返回配置好路由的 gin 引擎
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	{
		api.POST("/todos/:id/complete", s.completeHandler)
		api.GET("/todos", s.getTodosHandler)
	}
	return router
}

// completeHandler 处理完成（或重新打开）一个 Todo 的请求
func (s *Server) completeHandler(c *gin.Context) {
	todoID, err := strconv.Atoi(c.Param("id"))
	if err != nil || todoID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的 Todo ID: " + c.Param("id")})
		return
	}

	var request struct {
		Completed *bool `json:"completed"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求: " + err.Error()})
			return
		}
	}
	completed := true
	if request.Completed != nil {
		completed = *request.Completed
	}

	evt := &event.Completion{
		ID:        uuid.New(),
		TodoID:    todoID,
		Completed: completed,
		Source:    "api",
	}
	payload, err := evt.Encode()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法编码事件"})
		return
	}

	// 1. 只接受 worker 看板上存在的 Todo
	ctx := c.Request.Context()
	current, err := s.statusManager.Get(ctx, todoID)
	if errors.Is(err, status.ErrUnknownTodo) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Todo %d 不存在", todoID)})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法从 Redis 读取 Todo 状态: " + err.Error()})
		return
	}

	// 2. 先记录待处理状态，再投递事件，worker 写回的结果不会被覆盖
	if err := s.statusManager.MarkPending(ctx, todoID, evt.ID.String()); err != nil {
		log.Warnf("无法记录 Todo %d 的待处理状态: %v", todoID, err)
	}

	// 3. 投递事件到 Stream
	err = s.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: event.StreamName,
		Values: map[string]interface{}{"payload": payload},
	}).Err()
	if err != nil {
		// 事件没有投递出去，撤销待处理状态
		if err := s.statusManager.SetStatus(ctx, todoID, current.Status); err != nil {
			log.Warnf("无法恢复 Todo %d 的状态: %v", todoID, err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法将事件发布到 Redis"})
		return
	}

	log.Infof("事件已投递到消息队列，ID: %s, Todo: %d, completed: %t", evt.ID, todoID, completed)
	c.JSON(http.StatusAccepted, gin.H{
		"message":  "事件已接收，正在排队等待处理...",
		"event_id": evt.ID.String(),
	})
}

// getTodosHandler 返回所有 Todo 的状态
func (s *Server) getTodosHandler(c *gin.Context) {
	todos, err := s.statusManager.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法从 Redis 获取 Todo 列表: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, todos)
}
