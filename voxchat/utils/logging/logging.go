package logging

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	AppLogger     = zap.NewNop()
	RequestLogger = zap.NewNop()
	TimerLogger   = zap.NewNop()
	ErrorLogger   = zap.NewNop()
)

// InitLogger points the package loggers at rotating JSON files in dir.
func InitLogger(dir string) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	newCore := func(name string, maxSize, maxAge int, level zapcore.Level) zapcore.Core {
		return zapcore.NewCore(encoder,
			zapcore.AddSync(&lumberjack.Logger{
				Filename: filepath.Join(dir, name), MaxSize: maxSize, MaxAge: maxAge, Compress: true,
			}),
			level,
		)
	}

	AppLogger = zap.New(newCore("app.log", 100, 28, zap.InfoLevel))
	RequestLogger = zap.New(newCore("request.log", 50, 7, zap.InfoLevel))
	TimerLogger = zap.New(newCore("timer.log", 50, 7, zap.InfoLevel))
	// errors also go to stderr so a failing container shows them
	ErrorLogger = zap.New(zapcore.NewTee(
		newCore("error.log", 100, 30, zap.ErrorLevel),
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), zap.ErrorLevel),
	))
	return nil
}

// InitNop silences every logger.
func InitNop() {
	AppLogger = zap.NewNop()
	RequestLogger = zap.NewNop()
	TimerLogger = zap.NewNop()
	ErrorLogger = zap.NewNop()
}

// Sync flushes buffered entries; call before exit.
func Sync() {
	for _, l := range []*zap.Logger{AppLogger, RequestLogger, TimerLogger, ErrorLogger} {
		_ = l.Sync()
	}
}

// LogDuration lets you do: defer logging.LogDuration(ctx, "FuncName")()
func LogDuration(ctx context.Context, name string) func() {
	start := time.Now()
	reqID := middleware.GetReqID(ctx)

	return func() {
		fields := []zap.Field{
			zap.String("func", name),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		}
		if reqID != "" {
			fields = append(fields, zap.String("request_id", reqID))
		}
		TimerLogger.Info("Function timed", fields...)
	}
}

// RequestMiddleware writes one request.log line per request.
func RequestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			RequestLogger.Info("request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
