package config

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LokiLogger logs through zap with trace correlation and, when a Loki URL
// is configured, also pushes entries to Loki.
type LokiLogger struct {
	Logger      *otelzap.Logger
	serviceName string
	lokiURL     string
	httpClient  *http.Client
}

type LokiLogEntry struct {
	Streams []LokiStream `json:"streams"`
}

type LokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

func NewLokiLogger(serviceName string, cfg LoggingConfig) (*LokiLogger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"

	zapLogger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}

	return newLokiLogger(zapLogger, serviceName, cfg.LokiURL), nil
}

// NewNopLogger discards everything; used by tests.
func NewNopLogger() *LokiLogger {
	return newLokiLogger(zap.NewNop(), "todos", "")
}

func newLokiLogger(zapLogger *zap.Logger, serviceName, lokiURL string) *LokiLogger {
	l := &LokiLogger{
		Logger:      otelzap.New(zapLogger),
		serviceName: serviceName,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}

	if lokiURL != "" {
		l.lokiURL = lokiURL + "/loki/api/v1/push"
	}

	return l
}

// Zap returns the plain zap logger for components without trace context.
func (l *LokiLogger) Zap() *zap.Logger {
	return l.Logger.Logger
}

// Zerolog builds the logger used for SQL statement logging.
func (l *LokiLogger) Zerolog(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).Level(lvl).With().
		Timestamp().
		Str("service", l.serviceName).
		Str("component", "database").
		Logger()
}

func (l *LokiLogger) Sync() error {
	return l.Logger.Sync()
}

func (l *LokiLogger) InfoWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.logWithTrace(ctx, zapcore.InfoLevel, msg, fields...)
}

func (l *LokiLogger) WarnWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.logWithTrace(ctx, zapcore.WarnLevel, msg, fields...)
}

func (l *LokiLogger) ErrorWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.logWithTrace(ctx, zapcore.ErrorLevel, msg, fields...)
}

func (l *LokiLogger) logWithTrace(ctx context.Context, level zapcore.Level, msg string, fields ...zap.Field) {
	logFields := append(fields, zap.String("service", l.serviceName))

	// otelzap adds trace_id and span_id
	switch level {
	case zapcore.ErrorLevel:
		l.Logger.Ctx(ctx).Error(msg, logFields...)
	case zapcore.WarnLevel:
		l.Logger.Ctx(ctx).Warn(msg, logFields...)
	default:
		l.Logger.Ctx(ctx).Info(msg, logFields...)
	}

	if l.lokiURL == "" {
		return
	}

	entry, err := l.buildEntry(ctx, level, msg, logFields)
	if err != nil {
		l.Logger.Error("Failed to marshal log data", zap.Error(err))
		return
	}

	go l.sendToLoki(entry)
}

func (l *LokiLogger) buildEntry(ctx context.Context, level zapcore.Level, msg string, fields []zap.Field) (LokiLogEntry, error) {
	// zap's map encoder resolves every field type the same way the json output does
	enc := zapcore.NewMapObjectEncoder()
	for _, field := range fields {
		field.AddTo(enc)
	}

	logData := enc.Fields
	logData["timestamp"] = time.Now().Format(time.RFC3339Nano)
	logData["level"] = level.String()
	logData["message"] = msg

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		logData["trace_id"] = span.SpanContext().TraceID().String()
		logData["span_id"] = span.SpanContext().SpanID().String()
	}

	line, err := json.Marshal(logData)
	if err != nil {
		return LokiLogEntry{}, err
	}

	return LokiLogEntry{
		Streams: []LokiStream{
			{
				Stream: map[string]string{
					"service": l.serviceName,
					"level":   level.String(),
				},
				Values: [][]string{
					{fmt.Sprintf("%d", time.Now().UnixNano()), string(line)},
				},
			},
		},
	}, nil
}

func (l *LokiLogger) sendToLoki(entry LokiLogEntry) {
	body, err := json.Marshal(entry)
	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, l.lokiURL, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()

	io.Copy(io.Discard, resp.Body)
}
