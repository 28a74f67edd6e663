package status

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/Slade66/todo-notifier/internal/todo"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	StatusOpen      = "open"
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// ErrUnknownTodo 表示 Redis 里没有这个 Todo 的状态记录
var ErrUnknownTodo = errors.New("unknown todo")

// StatusInfo 定义了 Todo 状态的详细信息，用于JSON序列化
type StatusInfo struct {
	ID         int    `json:"id"`
	Title      string `json:"title,omitempty"`
	Status     string `json:"status"`
	EventID    string `json:"event_id,omitempty"`
	UpdateTime string `json:"update_time"`
	FinishTime string `json:"finish_time,omitempty"`
}

// Manager 结构体封装了与Redis的交互
type Manager struct {
	rdb redis.Cmdable
	now func() time.Time
}

// NewManager 创建一个新的状态管理器实例
func NewManager(rdb redis.Cmdable) *Manager {
	return &Manager{rdb: rdb, now: time.Now}
}

// todoKey 返回一个 Todo 状态在Redis中的键名
func (m *Manager) todoKey(id int) string {
	return fmt.Sprintf("todo:status:%d", id)
}

func (m *Manager) timestamp() string {
	return m.now().UTC().Format(time.RFC3339)
}

// InitTodo 把一个 Todo 的当前状态写入 Redis
func (m *Manager) InitTodo(ctx context.Context, t *todo.Todo) error {
	status := StatusInfo{
		ID:         t.ID,
		Title:      t.Title,
		Status:     StatusOpen,
		UpdateTime: m.timestamp(),
	}
	if t.Completed() {
		status.Status = StatusCompleted
		status.FinishTime = status.UpdateTime
	}
	statusMap, err := structToMap(status)
	if err != nil {
		return err
	}
	return m.rdb.HSet(ctx, m.todoKey(t.ID), statusMap).Err()
}

// Restore 用 Redis 里已有的记录恢复 t 的完成状态，没有记录时写入初始状态。
// 必须在订阅观察者之前调用，恢复出来的完成状态不会通知任何人。
func (m *Manager) Restore(ctx context.Context, t *todo.Todo) (bool, error) {
	info, err := m.Get(ctx, t.ID)
	if errors.Is(err, ErrUnknownTodo) {
		return false, m.InitTodo(ctx, t)
	}
	if err != nil {
		return false, err
	}
	if info.Status == StatusCompleted {
		t.SetCompleted(true)
	}
	return true, nil
}

// Get 读取一个 Todo 的状态，没有记录时返回 ErrUnknownTodo
func (m *Manager) Get(ctx context.Context, todoID int) (*StatusInfo, error) {
	data, err := m.rdb.HGetAll(ctx, m.todoKey(todoID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "read status of todo %d", todoID)
	}
	if len(data) == 0 {
		return nil, errors.Wrapf(ErrUnknownTodo, "id %d", todoID)
	}
	return &StatusInfo{
		ID:         todoID,
		Title:      data["title"],
		Status:     data["status"],
		EventID:    data["event_id"],
		UpdateTime: data["update_time"],
		FinishTime: data["finish_time"],
	}, nil
}

// SetStatus 只改写 'status' 字段，用于投递失败后撤销 MarkPending
func (m *Manager) SetStatus(ctx context.Context, todoID int, status string) error {
	updateMap := map[string]interface{}{
		"status":      status,
		"update_time": m.timestamp(),
	}
	return m.rdb.HSet(ctx, m.todoKey(todoID), updateMap).Err()
}

// MarkPending 在投递事件之前把状态标记为待处理
func (m *Manager) MarkPending(ctx context.Context, todoID int, eventID string) error {
	updateMap := map[string]interface{}{
		"id":          todoID,
		"status":      StatusPending,
		"event_id":    eventID,
		"update_time": m.timestamp(),
	}
	return m.rdb.HSet(ctx, m.todoKey(todoID), updateMap).Err()
}

// Record 根据 Todo 当前的完成状态更新 'status' 字段
func (m *Manager) Record(ctx context.Context, t *todo.Todo) error {
	now := m.timestamp()
	updateMap := map[string]interface{}{
		"id":          t.ID,
		"title":       t.Title,
		"status":      StatusOpen,
		"update_time": now,
	}
	// 完成时记录完成时间，重新打开时清掉它
	if t.Completed() {
		updateMap["status"] = StatusCompleted
		updateMap["finish_time"] = now
	} else if err := m.rdb.HDel(ctx, m.todoKey(t.ID), "finish_time").Err(); err != nil {
		return errors.Wrapf(err, "clear finish time of todo %d", t.ID)
	}
	return m.rdb.HSet(ctx, m.todoKey(t.ID), updateMap).Err()
}

// GetAll 获取所有 Todo 的状态信息，按 ID 排序
func (m *Manager) GetAll(ctx context.Context) ([]StatusInfo, error) {
	keys, err := m.rdb.Keys(ctx, "todo:status:*").Result()
	if err != nil {
		return nil, errors.Wrap(err, "list status keys")
	}
	todos := make([]StatusInfo, 0, len(keys))

	for _, key := range keys {
		data, err := m.rdb.HGetAll(ctx, key).Result()
		if err != nil {
			// 如果某个键读取失败，记录日志并跳过它继续处理其他的
			log.Warnf("无法读取 Todo 状态 key '%s': %v", key, err)
			continue
		}
		id, err := strconv.Atoi(data["id"])
		if err != nil {
			log.Warnf("Todo 状态 key '%s' 的 id 无效: %q", key, data["id"])
			continue
		}
		todos = append(todos, StatusInfo{
			ID:         id,
			Title:      data["title"],
			Status:     data["status"],
			EventID:    data["event_id"],
			UpdateTime: data["update_time"],
			FinishTime: data["finish_time"],
		})
	}
	sort.Slice(todos, func(i, j int) bool { return todos[i].ID < todos[j].ID })
	return todos, nil
}

// structToMap 是一个辅助函数，用于将结构体转换为 map
func structToMap(s StatusInfo) (map[string]interface{}, error) {
	// 使用 json 标签来控制键名
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var resultMap map[string]interface{}
	if err := json.Unmarshal(data, &resultMap); err != nil {
		return nil, err
	}
	// 删除空的字段，避免在 Redis 中存储空值
	for k, v := range resultMap {
		if vs, ok := v.(string); ok && vs == "" {
			delete(resultMap, k)
		}
	}
	return resultMap, nil
}
