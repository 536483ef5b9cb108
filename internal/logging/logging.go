package logging

import (
	"io"
	"strings"

	"github.com/labstack/gommon/log"
)

// gommon（echoのロガー）のうち使うメソッドだけの約束。
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

const header = `{"time":"${time_rfc3339}","level":"${level}","prefix":"${prefix}","file":"${short_file}","line":"${line}"}`

// JSONヘッダ付きのロガーを返す。不明なレベルはINFO扱い。
func New(prefix string, level string) *log.Logger {
	l := log.New(prefix)
	l.SetHeader(header)
	l.SetLevel(ParseLevel(level))
	return l
}

// テスト用（出力なし）
func Discard() *log.Logger {
	l := log.New("test")
	l.SetOutput(io.Discard)
	return l
}

func ParseLevel(s string) log.Lvl {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return log.DEBUG
	case "WARN", "WARNING":
		return log.WARN
	case "ERROR":
		return log.ERROR
	case "OFF":
		return log.OFF
	default:
		return log.INFO
	}
}
