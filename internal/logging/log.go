package logging

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// Init 初始化 logrus：文本格式、完整时间戳、输出到 stdout。
// level 无法解析时使用 info。
func Init(level string) {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)

	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("无效的日志级别 %q，使用 info", level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}
