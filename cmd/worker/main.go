package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Slade66/todo-notifier/internal/board"
	"github.com/Slade66/todo-notifier/internal/config"
	"github.com/Slade66/todo-notifier/internal/logging"
	"github.com/Slade66/todo-notifier/internal/status"
	"github.com/Slade66/todo-notifier/internal/uploader"
	"github.com/Slade66/todo-notifier/pkg/event"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// GroupName 是消费者组的名称
const GroupName = "todo-group"

type worker struct {
	rdb           redis.Cmdable
	board         *board.Board
	statusManager *status.Manager
}

// initRedis 初始化 Redis 连接
func initRedis(cfg *config.Config) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Worker 无法连接到 Redis: %v", err)
	}
	log.Info("Worker 成功连接到 Redis!")
	return rdb
}

// ensureConsumerGroup 确保消费者组存在，如果不存在则创建
func (w *worker) ensureConsumerGroup(ctx context.Context) {
	err := w.rdb.XGroupCreateMkStream(ctx, event.StreamName, GroupName, "$").Err()
	if err != nil {
		if strings.Contains(err.Error(), "BUSYGROUP") {
			log.Infof("消费者组 '%s' 已存在，无需创建。", GroupName)
		} else {
			log.Fatalf("无法创建消费者组: %v", err)
		}
	} else {
		log.Infof("成功创建消费者组 '%s' 并关联到 Stream '%s'。", GroupName, event.StreamName)
	}
}

// restore 用 Redis 里的状态恢复看板，必须在订阅观察者之前调用。
// 已经完成的 Todo 保持完成，不会重新通知；没有记录的 Todo 写入初始状态。
func (w *worker) restore(ctx context.Context) {
	for _, t := range w.board.Todos() {
		found, err := w.statusManager.Restore(ctx, t)
		if err != nil {
			log.Warnf("无法恢复 Todo %d 的状态: %v", t.ID, err)
			continue
		}
		if found {
			log.Infof("Todo %d 已从 Redis 恢复，completed: %t", t.ID, t.Completed())
		}
	}
}

// apply 把一个事件应用到看板上，观察者在这里被同步通知
func (w *worker) apply(ctx context.Context, evt *event.Completion) error {
	t, ok := w.board.Get(evt.TodoID)
	if !ok {
		return errors.Wrapf(board.ErrTodoNotFound, "id %d", evt.TodoID)
	}
	wasCompleted := t.Completed()
	if err := w.board.Complete(evt.TodoID, evt.Completed); err != nil {
		return err
	}
	// 重新打开和重复完成都不会触发观察者，这里直接把状态写回，覆盖 API 写的 pending
	if !evt.Completed || wasCompleted {
		return errors.Wrap(w.statusManager.Record(ctx, t), "记录 Todo 状态失败")
	}
	return nil
}

// handle 处理一条 Stream 消息，并决定是否 ACK。
// 解析失败和 Todo 不存在属于永久失败，ACK 后跳过；其他失败不 ACK，以便后续重试或手动处理。
func (w *worker) handle(ctx context.Context, message redis.XMessage) {
	payload, _ := message.Values["payload"].(string)
	evt, err := event.Decode(payload)
	if err != nil {
		log.Errorf("无法解析事件 payload: %v。Payload: %s", err, payload)
		w.ack(ctx, message.ID)
		return
	}
	log.Infof("接收到新事件: [ID: %s, Todo: %d, completed: %t]", evt.ID, evt.TodoID, evt.Completed)

	if err := w.apply(ctx, evt); err != nil {
		if errors.Is(err, board.ErrTodoNotFound) {
			log.Errorf("事件指向不存在的 Todo，已丢弃: [ID: %s], 错误: %v", evt.ID, err)
			w.ack(ctx, message.ID)
			return
		}
		log.Errorf("事件处理失败: [ID: %s], 错误: %v", evt.ID, err)
		return
	}
	w.ack(ctx, message.ID)
}

func (w *worker) ack(ctx context.Context, messageID string) {
	if err := w.rdb.XAck(ctx, event.StreamName, GroupName, messageID).Err(); err != nil {
		log.Errorf("关键错误: 无法 ACK 事件 %s: %v", messageID, err)
	}
}

// processEvents 是 Worker 的主循环，持续处理事件
func (w *worker) processEvents(ctx context.Context) {
	consumerName, err := os.Hostname()
	if err != nil {
		consumerName = fmt.Sprintf("worker-%d", time.Now().Unix())
		log.Warnf("无法获取主机名，使用默认消费者名称 '%s'", consumerName)
	}
	log.Infof("Worker '%s' 开始监听事件...", consumerName)

	for ctx.Err() == nil {
		// 从 Stream 中阻塞式地读取一个新事件
		streams, err := w.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    GroupName,
			Consumer: consumerName,
			Streams:  []string{event.StreamName, ">"},
			Count:    1,
			Block:    5 * time.Second,
		}).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Errorf("从 Redis Stream 读取事件失败: %v。5秒后重试...", err)
			time.Sleep(5 * time.Second)
			continue
		}
		for _, message := range streams[0].Messages {
			w.handle(ctx, message)
		}
	}
}

func main() {
	cfg := config.FromEnv()
	logging.Init(cfg.LogLevel)
	if err := cfg.ValidateObs(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := initRedis(cfg)
	defer rdb.Close()

	w := &worker{
		rdb:           rdb,
		board:         board.NewClosureBoard(os.Stdout),
		statusManager: status.NewManager(rdb),
	}
	board.Seed(w.board)
	w.restore(ctx)
	w.board.SubscribeAll(board.Printer(os.Stdout, "Todo completed: %s"))
	w.board.SubscribeAll(status.NewObserver(ctx, w.statusManager))

	if cfg.ObsEnabled() {
		obsUploader, err := uploader.NewObsUploader(cfg.ObsEndpoint, cfg.ObsAK, cfg.ObsSK, cfg.ObsBucket)
		if err != nil {
			log.Fatalf("初始化 OBS Uploader 失败: %v", err)
		}
		defer obsUploader.Close()
		w.board.SubscribeAll(uploader.NewArchiveObserver(obsUploader, cfg.ObsPrefix))
		log.Info("OBS Uploader 初始化成功。")
	}

	w.ensureConsumerGroup(ctx)
	w.processEvents(ctx)
	log.Info("Worker 已退出。")
}
