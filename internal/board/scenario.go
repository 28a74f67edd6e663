// internal/board/scenario.go
package board

import (
	"fmt"
	"io"

	"github.com/Slade66/todo-notifier/internal/observer"
	"github.com/Slade66/todo-notifier/internal/todo"
)

// Seed 在看板上创建三个标准的 Todo
func Seed(b *Board) {
	for i := 1; i <= 3; i++ {
		b.Add(i, fmt.Sprintf("Todo item %d", i))
	}
}

// Printer 返回一个把一行文字写到 out 的观察者
func Printer(out io.Writer, format string) observer.Observer[*todo.Todo] {
	return observer.Func[*todo.Todo](func(t *todo.Todo) {
		fmt.Fprintf(out, format+"\n", t.Title)
	})
}

// RunClosure 演示闭包风格：Todo 1 有两个订阅者，Todo 2、3 各一个，然后依次完成
func RunClosure(out io.Writer) *Board {
	b := NewClosureBoard(out)
	Seed(b)

	todo1, _ := b.Get(1)
	todo2, _ := b.Get(2)
	todo3, _ := b.Get(3)
	todo1.SubscribeObserver(Printer(out, "Do something with todo: %s"))
	todo2.SubscribeObserver(Printer(out, "Do another thing with todo: %s"))
	todo3.SubscribeObserver(Printer(out, "Do final thing with todo: %s"))
	todo1.SubscribeObserver(Printer(out, "Another one for fun with todo: %s"))

	completeAll(b)
	return b
}

// RunDelegate 演示委托风格：看板本身是所有 Todo 的委托
func RunDelegate(out io.Writer, directory *observer.Directory[*todo.Todo]) *Board {
	b := NewDelegateBoard(out, directory)
	Seed(b)
	completeAll(b)
	return b
}

func completeAll(b *Board) {
	for _, t := range b.Todos() {
		t.SetCompleted(true)
	}
}
