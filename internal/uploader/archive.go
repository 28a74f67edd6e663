// internal/uploader/archive.go
package uploader

import (
	"fmt"
	"time"

	"github.com/Slade66/todo-notifier/internal/todo"
	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
)

// RecordUploader 能把一条记录存到对象存储里
type RecordUploader interface {
	UploadRecord(objectKey string, data []byte) error
}

// Record 是归档到 OBS 的一条完成记录
type Record struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	CompletedAt string `json:"completed_at"`
}

// ArchiveObserver 在 Todo 完成时把一条记录归档到对象存储
type ArchiveObserver struct {
	uploader RecordUploader
	prefix   string
	now      func() time.Time
}

// NewArchiveObserver 创建一个归档观察者，prefix 是对象键的前缀
func NewArchiveObserver(uploader RecordUploader, prefix string) *ArchiveObserver {
	return &ArchiveObserver{uploader: uploader, prefix: prefix, now: time.Now}
}

// ObjectKey 返回一次完成对应的对象键
func (a *ArchiveObserver) ObjectKey(t *todo.Todo, at time.Time) string {
	return fmt.Sprintf("%stodo-%d/%d.json", a.prefix, t.ID, at.UnixNano())
}

// Update 实现了 observer.Observer 接口，上传失败只记录日志
func (a *ArchiveObserver) Update(t *todo.Todo) {
	at := a.now().UTC()
	data, err := json.Marshal(Record{
		ID:          t.ID,
		Title:       t.Title,
		CompletedAt: at.Format(time.RFC3339),
	})
	if err != nil {
		log.Errorf("无法编码 Todo %d 的归档记录: %v", t.ID, err)
		return
	}
	if err := a.uploader.UploadRecord(a.ObjectKey(t, at), data); err != nil {
		log.Errorf("归档 Todo %d 失败: %v", t.ID, err)
	}
}
