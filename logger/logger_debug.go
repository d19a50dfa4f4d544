//go:build debug
// +build debug

package log

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/kr/pretty"
	"github.com/sirupsen/logrus"
)

const debugFileName = "/tmp/recovery/rootctl.log"

var (
	Log = logrus.New()
)

func init() {
	Log.SetOutput(os.Stderr)
	Log.SetLevel(logrus.DebugLevel)
	Log.SetReportCaller(true)
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "01-02 15:04:05",
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			_, file, _, _ := runtime.Caller(0)
			prefix := filepath.Dir(file) + "/"
			function := strings.TrimPrefix(f.Function, prefix) + "()"
			fileLine := strings.TrimPrefix(f.File, prefix) + ":" + strconv.Itoa(f.Line)
			return function, fileLine
		},
	})
}

// Config represents the logger configuration.
type Config struct {
	Level  string
	Format string
	Output string
	Debug  bool
}

// Init ignores Level in debug builds; everything stays at debug.
func Init(config *Config) error {
	if config == nil {
		return nil
	}

	if config.Output != "" {
		if err := os.MkdirAll(filepath.Dir(config.Output), 0o755); err != nil {
			return err
		}
		file, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		Log.SetOutput(file)
	}

	return nil
}

func WithField(key string, value interface{}) *logrus.Entry {
	return Log.WithField(key, value)
}

func WithFields(fields logrus.Fields) *logrus.Entry {
	return Log.WithFields(fields)
}

func WithError(err error) *logrus.Entry {
	return Log.WithError(err)
}

func Debug(args ...interface{}) {
	Log.Debug(args...)
}

func Debugf(format string, args ...interface{}) {
	Log.Debugf(format, args...)
}

func Info(args ...interface{}) {
	Log.Info(args...)
}

func Infof(format string, args ...interface{}) {
	Log.Infof(format, args...)
}

func Warn(args ...interface{}) {
	Log.Warn(args...)
}

func Warnf(format string, args ...interface{}) {
	Log.Warnf(format, args...)
}

func Error(args ...interface{}) {
	Log.Error(args...)
}

func Errorf(format string, args ...interface{}) {
	Log.Errorf(format, args...)
}

func Fatal(args ...interface{}) {
	Log.Fatal(args...)
}

func Fatalf(format string, args ...interface{}) {
	Log.Fatalf(format, args...)
}

// Pretty renders structured arguments with kr/pretty. Costy.
func Pretty(format string, args ...interface{}) {
	formattedArgs := make([]interface{}, len(args))
	for i, arg := range args {
		formattedArgs[i] = safePrettyFormat(arg)
	}
	Log.Debugf(format, formattedArgs...)
}

// pretty can recurse into surprising places; cap the output and recover
// from panics instead of taking the recovery binary down with a log line.
func safePrettyFormat(arg interface{}) (out interface{}) {
	if arg == nil {
		return "<nil>"
	}

	defer func() {
		if r := recover(); r != nil {
			out = fmt.Sprintf("<error formatting: %v>", r)
		}
	}()

	resultStr := pretty.Sprint(arg)

	const maxSize = 10 * 1024
	if len(resultStr) > maxSize {
		resultStr = resultStr[:maxSize] + "\n... [TRUNCATED: output too large]"
	}
	return resultStr
}
