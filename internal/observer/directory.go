// internal/observer/directory.go
package observer

import (
	"sync"

	"github.com/google/uuid"
)

// Directory 按 ID 登记委托协作者。
// 协作者的生命周期由它的拥有者决定：Unregister 之后，所有指向它的委托槽都会静默失效。
type Directory[T any] struct {
	mu        sync.RWMutex
	delegates map[uuid.UUID]Delegate[T]
}

// NewDirectory 创建一个空的协作者目录
func NewDirectory[T any]() *Directory[T] {
	return &Directory[T]{
		delegates: make(map[uuid.UUID]Delegate[T]),
	}
}

// Register 登记一个协作者，重复登记同一个 ID 会覆盖旧的记录
func (d *Directory[T]) Register(delegate Delegate[T]) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delegates[delegate.DelegateID()] = delegate
}

// Unregister 释放一个协作者
func (d *Directory[T]) Unregister(id uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.delegates, id)
}

// Lookup 查找协作者，不存在时返回 false
func (d *Directory[T]) Lookup(id uuid.UUID) (Delegate[T], bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	delegate, ok := d.delegates[id]
	return delegate, ok
}
