package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Slade66/todo-notifier/internal/status"
	"github.com/Slade66/todo-notifier/pkg/event"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	redis.Cmdable
	stream  []string
	hashes  map[string]map[string]string
	failAdd bool
	// 每次 XAdd 时 Todo 2 的状态
	statusAtAdd []string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{hashes: make(map[string]map[string]string)}
}

func (f *fakeRedis) XAdd(_ context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.statusAtAdd = append(f.statusAtAdd, f.hashes["todo:status:2"]["status"])
	if f.failAdd {
		return redis.NewStringResult("", errors.New("redis down"))
	}
	values := a.Values.(map[string]interface{})
	f.stream = append(f.stream, string(values["payload"].([]byte)))
	return redis.NewStringResult(fmt.Sprintf("%d-0", len(f.stream)), nil)
}

func (f *fakeRedis) HSet(_ context.Context, key string, values ...interface{}) *redis.IntCmd {
	h, ok := f.hashes[key]
	if !ok {
		h = make(map[string]string)
		f.hashes[key] = h
	}
	for _, v := range values {
		for field, value := range v.(map[string]interface{}) {
			h[field] = fmt.Sprint(value)
		}
	}
	return redis.NewIntResult(int64(len(h)), nil)
}

func (f *fakeRedis) Keys(context.Context, string) *redis.StringSliceCmd {
	keys := make([]string, 0, len(f.hashes))
	for k := range f.hashes {
		keys = append(keys, k)
	}
	return redis.NewStringSliceResult(keys, nil)
}

func (f *fakeRedis) HGetAll(_ context.Context, key string) *redis.MapStringStringCmd {
	return redis.NewMapStringStringResult(f.hashes[key], nil)
}

// seed 写入 worker 启动时为看板上的 Todo 准备的状态记录
func (f *fakeRedis) seed(ids ...int) {
	for _, id := range ids {
		f.hashes[fmt.Sprintf("todo:status:%d", id)] = map[string]string{
			"id":     fmt.Sprint(id),
			"title":  fmt.Sprintf("Todo item %d", id),
			"status": status.StatusOpen,
		}
	}
}

func setupRouter(rdb *fakeRedis) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewServer(rdb, status.NewManager(rdb)).Router()
}

func TestCompletePublishesEvent(t *testing.T) {
	rdb := newFakeRedis()
	rdb.seed(1, 2, 3)
	router := setupRouter(rdb)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/todos/2/complete", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, rdb.stream, 1)
	evt, err := event.Decode(rdb.stream[0])
	require.NoError(t, err)
	assert.Equal(t, 2, evt.TodoID)
	assert.True(t, evt.Completed)
	assert.Equal(t, "api", evt.Source)
	assert.Equal(t, evt.ID.String(), resp["event_id"])

	assert.Equal(t, status.StatusPending, rdb.hashes["todo:status:2"]["status"])
	assert.Equal(t, evt.ID.String(), rdb.hashes["todo:status:2"]["event_id"])
	// 待处理状态必须在事件投递之前写入，否则会覆盖 worker 写回的结果
	assert.Equal(t, []string{status.StatusPending}, rdb.statusAtAdd)
}

func TestCompleteRejectsUnknownTodo(t *testing.T) {
	rdb := newFakeRedis()
	rdb.seed(1, 2, 3)
	router := setupRouter(rdb)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/todos/99/complete", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, rdb.stream)
	assert.NotContains(t, rdb.hashes, "todo:status:99")
}

func TestCompleteCanReopen(t *testing.T) {
	rdb := newFakeRedis()
	rdb.seed(1)
	router := setupRouter(rdb)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/todos/1/complete", strings.NewReader(`{"completed":false}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusAccepted, w.Code)

	evt, err := event.Decode(rdb.stream[0])
	require.NoError(t, err)
	assert.False(t, evt.Completed)
}

func TestCompleteRejectsBadInput(t *testing.T) {
	rdb := newFakeRedis()
	rdb.seed(1)
	router := setupRouter(rdb)

	for _, tc := range []struct {
		path string
		body string
	}{
		{"/api/todos/abc/complete", ""},
		{"/api/todos/0/complete", ""},
		{"/api/todos/1/complete", "{"},
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, tc.path, strings.NewReader(tc.body))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, tc.path)
	}
	assert.Empty(t, rdb.stream)
}

func TestCompleteReportsRedisFailure(t *testing.T) {
	rdb := newFakeRedis()
	rdb.seed(2)
	rdb.failAdd = true
	router := setupRouter(rdb)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/todos/2/complete", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, []string{status.StatusPending}, rdb.statusAtAdd)
	assert.Equal(t, status.StatusOpen, rdb.hashes["todo:status:2"]["status"])
}

func TestGetTodos(t *testing.T) {
	rdb := newFakeRedis()
	rdb.hashes["todo:status:1"] = map[string]string{"id": "1", "title": "Todo item 1", "status": "completed"}
	router := setupRouter(rdb)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/todos", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var todos []status.StatusInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &todos))
	require.Len(t, todos, 1)
	assert.Equal(t, "Todo item 1", todos[0].Title)
	assert.Equal(t, "completed", todos[0].Status)
}
