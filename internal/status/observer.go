package status

import (
	"context"

	"github.com/Slade66/todo-notifier/internal/todo"
	log "github.com/sirupsen/logrus"
)

// Observer 在 Todo 完成时把状态写入 Redis。
// 写入失败只记录日志，不会打断同一轮通知里的其他观察者。
type Observer struct {
	ctx     context.Context
	manager *Manager
}

// NewObserver 创建一个状态观察者
func NewObserver(ctx context.Context, manager *Manager) *Observer {
	return &Observer{ctx: ctx, manager: manager}
}

// Update 实现了 observer.Observer 接口
func (o *Observer) Update(t *todo.Todo) {
	if err := o.manager.Record(o.ctx, t); err != nil {
		log.Errorf("记录 Todo %d 的完成状态失败: %v", t.ID, err)
		return
	}
	log.Debugf("Todo %d 的状态已更新为 %s", t.ID, StatusCompleted)
}
