package utils

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger 创建日志实例，生产环境输出 JSON，开发环境带调用位置。同时设为全局默认 logger。
func NewLogger(w io.Writer, env, level string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}

	opts := log.Options{ReportTimestamp: true, ReportCaller: env != "production"}
	if env == "production" {
		opts.Formatter = log.JSONFormatter
	}

	l := log.NewWithOptions(w, opts)
	if lvl, err := log.ParseLevel(level); err == nil {
		l.SetLevel(lvl)
	}

	log.SetDefault(l)
	return l
}
