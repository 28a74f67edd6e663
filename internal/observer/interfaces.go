// internal/observer/interfaces.go
package observer

import "github.com/google/uuid"

// Observer 观察者接口
type Observer[T any] interface {
	// Update 是观察者接收通知的方法
	Update(subject T)
}

// Func 把一个普通函数（闭包）适配成 Observer
type Func[T any] func(subject T)

// Update 实现了 Observer 接口，nil 函数什么也不做
func (f Func[T]) Update(subject T) {
	if f == nil {
		return
	}
	f(subject)
}

// Delegate 是委托风格的协作者。
// 被观察者只记住它的 ID，触发时再去 Directory 里查找，从不持有它本身。
type Delegate[T any] interface {
	Observer[T]
	DelegateID() uuid.UUID
}

// Sink 是被观察者背后的"反应槽"，闭包列表和单一委托是它的两种实现
type Sink[T any] interface {
	// Attach 登记一个观察者，永远不会失败
	Attach(o Observer[T])
	// Notify 在当前 goroutine 上同步通知所有有效的观察者
	Notify(subject T)
	// Len 返回当前登记的观察者数量
	Len() int
}
