// internal/uploader/obs_uploader.go
package uploader

import (
	"bytes"

	"github.com/huaweicloud/huaweicloud-sdk-go-obs/obs"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ObsUploader 结构体封装了 OBS 客户端和配置
type ObsUploader struct {
	client *obs.ObsClient
	bucket string
}

// NewObsUploader 根据官方文档创建一个新的 OBS 上传器实例
func NewObsUploader(endpoint, ak, sk, bucket string) (*ObsUploader, error) {
	client, err := obs.New(ak, sk, endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "无法创建 OBS 客户端")
	}

	return &ObsUploader{
		client: client,
		bucket: bucket,
	}, nil
}

// UploadRecord 把一条 JSON 记录上传到 OBS，objectKey 是它在桶中的路径
func (u *ObsUploader) UploadRecord(objectKey string, data []byte) error {
	input := &obs.PutObjectInput{}
	input.Bucket = u.bucket
	input.Key = objectKey
	input.ContentType = "application/json"
	input.Body = bytes.NewReader(data)

	output, err := u.client.PutObject(input)
	if err != nil {
		// 尝试解析 OBS 返回的详细错误信息
		if obsError, ok := err.(obs.ObsError); ok {
			return errors.Errorf("上传失败，OBS错误码: %s, 错误信息: %s", obsError.Code, obsError.Message)
		}
		return errors.Wrap(err, "上传记录到 OBS 失败")
	}

	log.Infof("记录已上传到 OBS 桶 '%s'，对象键为 '%s' (ETag: %s)", u.bucket, objectKey, output.ETag)
	return nil
}

// Close 关闭客户端连接
func (u *ObsUploader) Close() {
	if u.client != nil {
		u.client.Close()
	}
}
