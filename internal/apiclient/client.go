// internal/apiclient/client.go
package apiclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// ErrStatus 表示服务器返回了非 2xx 的状态码
var ErrStatus = errors.New("unexpected status code")

var (
	instance *http.Client
	once     sync.Once
)

// GetClient 返回 http.Client 的单例，所有请求共用 30 秒超时
func GetClient() *http.Client {
	once.Do(func() {
		instance = &http.Client{
			Timeout: 30 * time.Second,
		}
	})
	return instance
}

// Fetch 发送 GET 请求并把 JSON 响应解析成 map
func Fetch(ctx context.Context, client *http.Client, url string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Wrap(ErrStatus, fmt.Sprintf("GET %s: %s", url, resp.Status))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}

	var dict map[string]any
	if err := json.Unmarshal(body, &dict); err != nil {
		return nil, errors.Wrap(err, "decode json response")
	}
	return dict, nil
}
