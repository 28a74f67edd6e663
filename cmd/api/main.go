package main

import (
	"context"
	"time"

	"github.com/Slade66/todo-notifier/internal/api"
	"github.com/Slade66/todo-notifier/internal/config"
	"github.com/Slade66/todo-notifier/internal/logging"
	"github.com/Slade66/todo-notifier/internal/status"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// initRedis 初始化 Redis 连接
func initRedis(cfg *config.Config) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("API 无法连接到 Redis: %v", err)
	}
	log.Info("API 成功连接到 Redis!")
	return rdb
}

func main() {
	cfg := config.FromEnv()
	logging.Init(cfg.LogLevel)

	rdb := initRedis(cfg)
	defer rdb.Close()

	server := api.NewServer(rdb, status.NewManager(rdb))
	router := server.Router()

	log.Infof("API 服务已启动，监听端口 %s", cfg.ListenAddr)
	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("API 服务退出: %v", err)
	}
}
