// internal/observer/sink.go
package observer

import "github.com/google/uuid"

// MultiObserverSink 按登记顺序保存任意多个观察者，触发时全部通知
type MultiObserverSink[T any] struct {
	observers []Observer[T]
}

// NewMultiObserverSink 创建一个空的多观察者槽
func NewMultiObserverSink[T any]() *MultiObserverSink[T] {
	return &MultiObserverSink[T]{
		observers: make([]Observer[T], 0),
	}
}

// Attach 追加一个观察者，重复登记的观察者会各自被通知。nil 也会被接受，但通知时跳过。
func (s *MultiObserverSink[T]) Attach(o Observer[T]) {
	s.observers = append(s.observers, o)
}

// Notify 按登记顺序通知观察者。
// 遍历的是通知开始时的快照，观察者在通知过程中追加的观察者要等下一次才会收到。
// 观察者 panic 不会被捕获，剩下的观察者这一轮不再通知。nil 观察者被跳过。
func (s *MultiObserverSink[T]) Notify(subject T) {
	snapshot := make([]Observer[T], len(s.observers))
	copy(snapshot, s.observers)
	for _, o := range snapshot {
		if o == nil {
			continue
		}
		o.Update(subject)
	}
}

// Len 返回已登记的观察者数量
func (s *MultiObserverSink[T]) Len() int {
	return len(s.observers)
}

// SingleDelegateSink 最多保存一个协作者，新的协作者会替换旧的
type SingleDelegateSink[T any] struct {
	directory *Directory[T]
	// 委托只记 ID，触发时到 directory 里查找
	delegateID uuid.UUID
	bound      bool
	// 没有外部拥有者的普通观察者（例如闭包）直接保存
	direct Observer[T]
}

// NewSingleDelegateSink 创建一个单委托槽。
// directory 为 nil 时，委托也按普通观察者直接保存。
func NewSingleDelegateSink[T any](directory *Directory[T]) *SingleDelegateSink[T] {
	return &SingleDelegateSink[T]{directory: directory}
}

// Attach 替换当前的协作者
func (s *SingleDelegateSink[T]) Attach(o Observer[T]) {
	s.direct = nil
	s.bound = false
	if d, ok := o.(Delegate[T]); ok && s.directory != nil {
		s.delegateID = d.DelegateID()
		s.bound = true
		return
	}
	s.direct = o
}

// Notify 通知当前的协作者；协作者已经被释放时什么也不做
func (s *SingleDelegateSink[T]) Notify(subject T) {
	if o := s.current(); o != nil {
		o.Update(subject)
	}
}

// Len 返回 0 或 1，已释放的协作者不计数
func (s *SingleDelegateSink[T]) Len() int {
	if s.current() == nil {
		return 0
	}
	return 1
}

func (s *SingleDelegateSink[T]) current() Observer[T] {
	if s.direct != nil {
		return s.direct
	}
	if !s.bound {
		return nil
	}
	delegate, ok := s.directory.Lookup(s.delegateID)
	if !ok {
		return nil
	}
	return delegate
}
