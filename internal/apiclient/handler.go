// internal/apiclient/handler.go
package apiclient

import (
	"context"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ResponseDelegate 是委托风格下接收响应的协作者
type ResponseDelegate interface {
	Response(dict map[string]any)
}

// Handler 封装了对 <baseURL>/get 的请求，支持闭包和委托两种回调方式
type Handler struct {
	baseURL  string
	client   *http.Client
	delegate ResponseDelegate
}

// NewHandler 创建一个新的 Handler，client 为 nil 时使用单例客户端
func NewHandler(baseURL string, client *http.Client, delegate ResponseDelegate) *Handler {
	if client == nil {
		client = GetClient()
	}
	return &Handler{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   client,
		delegate: delegate,
	}
}

// URL 返回请求的完整地址
func (h *Handler) URL() string {
	return h.baseURL + "/get"
}

// SetDelegate 替换当前的委托
func (h *Handler) SetDelegate(delegate ResponseDelegate) {
	h.delegate = delegate
}

// Get 在后台 goroutine 里发起请求，成功后把结果交给委托；失败只记录日志。
// 返回的 channel 在回调结束后关闭。
func (h *Handler) Get(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Debugf("APIHandler.Get %s", h.URL())
		dict, err := Fetch(ctx, h.client, h.URL())
		if err != nil {
			log.Errorf("request failed: %v", err)
			return
		}
		if h.delegate != nil {
			h.delegate.Response(dict)
		}
	}()
	return done
}

// GetWithCompletion 在后台 goroutine 里发起请求，并用结果调用 completion
func (h *Handler) GetWithCompletion(ctx context.Context, completion func(map[string]any, error)) {
	go func() {
		log.Debugf("APIHandler.GetWithCompletion %s", h.URL())
		completion(Fetch(ctx, h.client, h.URL()))
	}()
}
