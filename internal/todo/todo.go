// internal/todo/todo.go
package todo

import "github.com/Slade66/todo-notifier/internal/observer"

// Todo 是被观察者（主题）：完成状态从 false 变成 true 时通知观察者
type Todo struct {
	ID    int
	Title string

	completed bool
	sink      observer.Sink[*Todo]
}

// New 创建一个未完成的 Todo。sink 为 nil 时使用闭包列表风格。
func New(id int, title string, sink observer.Sink[*Todo]) *Todo {
	if sink == nil {
		sink = observer.NewMultiObserverSink[*Todo]()
	}
	return &Todo{
		ID:    id,
		Title: title,
		sink:  sink,
	}
}

// Subscribe 用闭包订阅完成事件，fn 为 nil 时登记一个空的观察者
func (t *Todo) Subscribe(fn func(*Todo)) {
	t.sink.Attach(observer.Func[*Todo](fn))
}

// SubscribeObserver 订阅一个实现了 Observer 接口的观察者
func (t *Todo) SubscribeObserver(o observer.Observer[*Todo]) {
	t.sink.Attach(o)
}

// SetDelegate 设置委托。单委托风格下会替换之前的委托。
func (t *Todo) SetDelegate(d observer.Delegate[*Todo]) {
	t.sink.Attach(d)
}

// Completed 返回当前的完成状态
func (t *Todo) Completed() bool {
	return t.completed
}

// Observers 返回当前有效的观察者数量
func (t *Todo) Observers() int {
	return t.sink.Len()
}

// SetCompleted 修改完成状态。
// 只有 false -> true 的转换会在当前 goroutine 上同步通知观察者；
// true -> true 不会重复通知，设置为 false 是静默的重新武装。
func (t *Todo) SetCompleted(completed bool) {
	wasCompleted := t.completed
	t.completed = completed
	if !completed || wasCompleted {
		return
	}
	t.sink.Notify(t)
}
