package uploader

import (
	"testing"
	"time"

	"github.com/Slade66/todo-notifier/internal/todo"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryUploader struct {
	objects map[string][]byte
	err     error
}

func (m *memoryUploader) UploadRecord(objectKey string, data []byte) error {
	if m.err != nil {
		return m.err
	}
	m.objects[objectKey] = data
	return nil
}

func TestArchiveObserverUploadsRecord(t *testing.T) {
	store := &memoryUploader{objects: make(map[string][]byte)}
	archive := NewArchiveObserver(store, "archive/")
	at := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	archive.now = func() time.Time { return at }

	item := todo.New(2, "Todo item 2", nil)
	item.SubscribeObserver(archive)
	item.SetCompleted(true)

	key := archive.ObjectKey(item, at)
	assert.Equal(t, "archive/todo-2/1710147600000000000.json", key)
	require.Contains(t, store.objects, key)

	var rec Record
	require.NoError(t, json.Unmarshal(store.objects[key], &rec))
	assert.Equal(t, Record{ID: 2, Title: "Todo item 2", CompletedAt: "2024-03-11T09:00:00Z"}, rec)
}

func TestArchiveObserverLogsUploadFailure(t *testing.T) {
	store := &memoryUploader{objects: make(map[string][]byte), err: errors.New("bucket missing")}
	item := todo.New(1, "Todo item 1", nil)
	item.SubscribeObserver(NewArchiveObserver(store, ""))

	assert.NotPanics(t, func() { item.SetCompleted(true) })
	assert.Empty(t, store.objects)
}
