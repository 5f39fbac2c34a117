package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Interface -.
type Interface interface {
	Debug(message interface{}, args ...interface{})
	Info(message string, args ...interface{})
	Warn(message string, args ...interface{})
	Error(message interface{}, args ...interface{})
	Fatal(message interface{}, args ...interface{})
}

// Logger -.
type Logger struct {
	logger *zap.Logger
}

var _ Interface = (*Logger)(nil)

// New builds a JSON logger writing to stdout.
func New(level string) *Logger {
	var l zapcore.Level

	switch strings.ToLower(level) {
	case "error":
		l = zapcore.ErrorLevel
	case "warn":
		l = zapcore.WarnLevel
	case "info":
		l = zapcore.InfoLevel
	case "debug":
		l = zapcore.DebugLevel
	default:
		l = zapcore.InfoLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(os.Stdout),
		l,
	)

	return &Logger{
		logger: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)),
	}
}

// NewFromZap wraps an existing zap logger.
func NewFromZap(z *zap.Logger) *Logger {
	return &Logger{logger: z}
}

func (l *Logger) Debug(message interface{}, args ...interface{}) {
	l.msg(zapcore.DebugLevel, message, args...)
}

func (l *Logger) Info(message string, args ...interface{}) {
	l.log(zapcore.InfoLevel, message, nil, args...)
}

func (l *Logger) Warn(message string, args ...interface{}) {
	l.log(zapcore.WarnLevel, message, nil, args...)
}

func (l *Logger) Error(message interface{}, args ...interface{}) {
	l.msg(zapcore.ErrorLevel, message, args...)
}

func (l *Logger) Fatal(message interface{}, args ...interface{}) {
	l.msg(zapcore.FatalLevel, message, args...)

	os.Exit(1)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.logger.Sync()
}

func (l *Logger) log(level zapcore.Level, message string, err error, args ...interface{}) {
	ce := l.logger.Check(level, format(message, args...))
	if ce == nil {
		return
	}

	if err != nil {
		ce.Write(zap.Error(err))

		return
	}

	ce.Write()
}

// msg accepts either an error or a string. For an error the first arg, when
// it is a string, becomes the message format.
func (l *Logger) msg(level zapcore.Level, message interface{}, args ...interface{}) {
	switch msg := message.(type) {
	case error:
		text := ""
		if len(args) > 0 {
			if s, ok := args[0].(string); ok {
				text = s
				args = args[1:]
			}
		}
		if text == "" {
			text = msg.Error()
		}
		l.log(level, text, msg, args...)
	case string:
		l.log(level, msg, nil, args...)
	default:
		l.log(level, fmt.Sprintf("%s message %v has unknown type %v", level, message, msg), nil)
	}
}

func format(message string, args ...interface{}) string {
	if len(args) == 0 {
		return message
	}

	return fmt.Sprintf(message, args...)
}
