package event

import (
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// StreamName 是完成事件所在的 Redis Stream 的键名
const StreamName = "todo_events"

// Completion 定义了一次完成状态的变更，它将作为消息在 Redis Stream 中传递。
type Completion struct {
	// 事件的唯一标识符，由 API 服务在收到请求时生成。
	ID uuid.UUID `json:"id"`

	// 目标 Todo 的 ID。
	TodoID int `json:"todo_id"`

	// 新的完成状态。false 表示重新打开（重新武装）这个 Todo。
	Completed bool `json:"completed"`

	// 事件来源，仅用于日志。
	Source string `json:"source,omitempty"`
}

// Encode 把事件编码成 Stream 消息的 payload
func (c *Completion) Encode() ([]byte, error) {
	return json.Marshal(c)
}

// Decode 从 Stream 消息的 payload 中解析事件
func Decode(payload string) (*Completion, error) {
	var c Completion
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return nil, err
	}
	return &c, nil
}
