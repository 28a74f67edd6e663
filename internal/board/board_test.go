package board

import (
	"bytes"
	"testing"

	"github.com/Slade66/todo-notifier/internal/observer"
	"github.com/Slade66/todo-notifier/internal/todo"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunClosurePrintsInRegistrationOrder(t *testing.T) {
	var out bytes.Buffer
	RunClosure(&out)

	assert.Equal(t,
		"Do something with todo: Todo item 1\n"+
			"Another one for fun with todo: Todo item 1\n"+
			"Do another thing with todo: Todo item 2\n"+
			"Do final thing with todo: Todo item 3\n",
		out.String())
}

func TestRunDelegatePrintsEachTodo(t *testing.T) {
	var out bytes.Buffer
	RunDelegate(&out, observer.NewDirectory[*todo.Todo]())

	assert.Equal(t,
		"Do something with todo: Todo item 1\n"+
			"Do another thing with todo: Todo item 2\n"+
			"Do final thing with todo: Todo item 3\n",
		out.String())
}

func TestDelegateBoardCloseSilencesTodos(t *testing.T) {
	var out bytes.Buffer
	b := NewDelegateBoard(&out, observer.NewDirectory[*todo.Todo]())
	Seed(b)

	require.NoError(t, b.Complete(1, true))
	b.Close()
	require.NoError(t, b.Complete(2, true))

	assert.Equal(t, "Do something with todo: Todo item 1\n", out.String())
	todo2, ok := b.Get(2)
	require.True(t, ok)
	assert.True(t, todo2.Completed())
}

func TestDelegateIgnoresUnknownIDs(t *testing.T) {
	var out bytes.Buffer
	b := NewDelegateBoard(&out, observer.NewDirectory[*todo.Todo]())
	b.Add(42, "extra")

	require.NoError(t, b.Complete(42, true))
	assert.Empty(t, out.String())
}

func TestCompleteUnknownTodo(t *testing.T) {
	b := NewClosureBoard(&bytes.Buffer{})
	Seed(b)

	err := b.Complete(7, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTodoNotFound))
}

func TestSubscribeAllAndRearm(t *testing.T) {
	var seen []int
	b := NewClosureBoard(&bytes.Buffer{})
	Seed(b)
	b.SubscribeAll(observer.Func[*todo.Todo](func(t *todo.Todo) { seen = append(seen, t.ID) }))

	require.NoError(t, b.Complete(2, true))
	require.NoError(t, b.Complete(2, true))
	require.NoError(t, b.Complete(2, false))
	require.NoError(t, b.Complete(2, true))
	require.NoError(t, b.Complete(3, true))

	assert.Equal(t, []int{2, 2, 3}, seen)
	assert.Len(t, b.Todos(), 3)
	assert.Equal(t, StyleClosure, b.Style())
}
