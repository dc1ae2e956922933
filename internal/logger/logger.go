package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Log 전역 로거 인스턴스
	Log *zap.Logger
	// Sugar 편의 메서드가 포함된 로거
	Sugar *zap.SugaredLogger
)

// Init 로거 초기화
func Init(env string) error {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	level := zapcore.InfoLevel
	encoder := zapcore.NewJSONEncoder(encoderConfig)
	if env == "development" {
		level = zapcore.DebugLevel
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)

	Log = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	Sugar = Log.Sugar()

	return nil
}

// GetLogger 이름이 지정된 로거 반환
func GetLogger(name string) *zap.Logger {
	if Log == nil {
		_ = Init("development")
	}
	return Log.Named(name)
}

// Sync 로거 버퍼 플러시
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
