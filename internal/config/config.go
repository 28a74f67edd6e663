package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config 汇总了 API、Worker 和命令行共用的配置，全部可以用环境变量覆盖
type Config struct {
	RedisAddr     string
	RedisPassword string

	ObsEndpoint string
	ObsAK       string
	ObsSK       string
	ObsBucket   string
	ObsPrefix   string

	BaseURL    string
	ListenAddr string
	LogLevel   string
}

// SetDefaults 在 v 上设置默认值并绑定环境变量（例如 REDIS_ADDR）
func SetDefaults(v *viper.Viper) {
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("obs_endpoint", "")
	v.SetDefault("obs_ak", "")
	v.SetDefault("obs_sk", "")
	v.SetDefault("obs_bucket", "")
	v.SetDefault("obs_prefix", "todos/")
	v.SetDefault("base_url", "https://httpbin.org")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("log_level", "info")
}

// Load 从 v 读取配置
func Load(v *viper.Viper) *Config {
	return &Config{
		RedisAddr:     v.GetString("redis_addr"),
		RedisPassword: v.GetString("redis_password"),
		ObsEndpoint:   v.GetString("obs_endpoint"),
		ObsAK:         v.GetString("obs_ak"),
		ObsSK:         v.GetString("obs_sk"),
		ObsBucket:     v.GetString("obs_bucket"),
		ObsPrefix:     v.GetString("obs_prefix"),
		BaseURL:       v.GetString("base_url"),
		ListenAddr:    v.GetString("listen_addr"),
		LogLevel:      v.GetString("log_level"),
	}
}

// FromEnv 只用默认值和环境变量构造配置
func FromEnv() *Config {
	v := viper.New()
	SetDefaults(v)
	return Load(v)
}

// ObsEnabled 表示 OBS 配置是否填写完整
func (c *Config) ObsEnabled() bool {
	return c.ObsEndpoint != "" && c.ObsAK != "" && c.ObsSK != "" && c.ObsBucket != ""
}

// ValidateObs 在 OBS 配置只填了一部分时返回错误
func (c *Config) ValidateObs() error {
	anySet := c.ObsEndpoint != "" || c.ObsAK != "" || c.ObsSK != "" || c.ObsBucket != ""
	if anySet && !c.ObsEnabled() {
		return errors.New("OBS 配置不完整，请检查环境变量 OBS_ENDPOINT, OBS_AK, OBS_SK, OBS_BUCKET")
	}
	return nil
}
