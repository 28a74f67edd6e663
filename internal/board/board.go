// internal/board/board.go
package board

import (
	"fmt"
	"io"

	"github.com/Slade66/todo-notifier/internal/observer"
	"github.com/Slade66/todo-notifier/internal/todo"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrTodoNotFound 表示看板上没有这个 ID 的 Todo
var ErrTodoNotFound = errors.New("todo not found")

// Style 表示看板用哪种方式接收完成通知
type Style string

const (
	StyleClosure  Style = "closure"
	StyleDelegate Style = "delegate"
)

// Board 是 Todo 的拥有者（控制器），负责把完成通知渲染到 out
type Board struct {
	id        uuid.UUID
	style     Style
	out       io.Writer
	directory *observer.Directory[*todo.Todo]
	todos     []*todo.Todo
	index     map[int]*todo.Todo
}

// NewClosureBoard 创建一个闭包风格的看板，每个 Todo 可以有任意多个订阅者
func NewClosureBoard(out io.Writer) *Board {
	return &Board{
		id:    uuid.New(),
		style: StyleClosure,
		out:   out,
		index: make(map[int]*todo.Todo),
	}
}

// NewDelegateBoard 创建一个委托风格的看板。
// 看板把自己登记到 directory，所有 Todo 只通过 ID 找到它；Close 之后通知静默丢弃。
func NewDelegateBoard(out io.Writer, directory *observer.Directory[*todo.Todo]) *Board {
	b := &Board{
		id:        uuid.New(),
		style:     StyleDelegate,
		out:       out,
		directory: directory,
		index:     make(map[int]*todo.Todo),
	}
	directory.Register(b)
	return b
}

// Style 返回看板的通知风格
func (b *Board) Style() Style {
	return b.style
}

// Add 在看板上创建一个新的 Todo。委托风格下会把看板设为它的委托。
func (b *Board) Add(id int, title string) *todo.Todo {
	var t *todo.Todo
	if b.style == StyleDelegate {
		t = todo.New(id, title, observer.NewSingleDelegateSink[*todo.Todo](b.directory))
		t.SetDelegate(b)
	} else {
		t = todo.New(id, title, nil)
	}
	b.todos = append(b.todos, t)
	b.index[id] = t
	return t
}

// Get 按 ID 查找 Todo
func (b *Board) Get(id int) (*todo.Todo, bool) {
	t, ok := b.index[id]
	return t, ok
}

// Todos 按创建顺序返回看板上的所有 Todo
func (b *Board) Todos() []*todo.Todo {
	out := make([]*todo.Todo, len(b.todos))
	copy(out, b.todos)
	return out
}

// SubscribeAll 给看板上每一个 Todo 追加同一个观察者
func (b *Board) SubscribeAll(o observer.Observer[*todo.Todo]) {
	for _, t := range b.todos {
		t.SubscribeObserver(o)
	}
}

// Complete 修改指定 Todo 的完成状态，观察者在本次调用返回前被通知
func (b *Board) Complete(id int, completed bool) error {
	t, ok := b.index[id]
	if !ok {
		return errors.Wrapf(ErrTodoNotFound, "id %d", id)
	}
	t.SetCompleted(completed)
	return nil
}

// Update 是委托风格下看板对完成事件的反应
func (b *Board) Update(t *todo.Todo) {
	switch t.ID {
	case 1:
		fmt.Fprintf(b.out, "Do something with todo: %s\n", t.Title)
	case 2:
		fmt.Fprintf(b.out, "Do another thing with todo: %s\n", t.Title)
	case 3:
		fmt.Fprintf(b.out, "Do final thing with todo: %s\n", t.Title)
	}
}

// DelegateID 实现了 observer.Delegate 接口
func (b *Board) DelegateID() uuid.UUID {
	return b.id
}

// Close 释放看板。委托风格下，之后再完成的 Todo 不会通知任何人。
func (b *Board) Close() {
	if b.directory != nil {
		b.directory.Unregister(b.id)
	}
}
