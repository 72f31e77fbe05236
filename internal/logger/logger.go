package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls level, encoding and destination of structured logs.
type Config struct {
	Level  string    // debug, info, warn, error
	Format string    // text or json
	Output io.Writer // defaults to os.Stderr
}

func DefaultConfig() Config {
	return Config{
		Level:  "warn",
		Format: "text",
		Output: os.Stderr,
	}
}

// Logger is a component-scoped structured logger.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New builds a Logger from cfg. Unknown levels fall back to warn.
func New(cfg Config) *Logger {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zapcore.WarnLevel
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		encCfg.CallerKey = ""
		encCfg.StacktraceKey = ""
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(output), level)
	return &Logger{sugar: zap.New(core).Sugar()}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

func (l *Logger) Debug(msg string, attrs ...any) {
	l.sugar.Debugw(msg, attrs...)
}

func (l *Logger) Info(msg string, attrs ...any) {
	l.sugar.Infow(msg, attrs...)
}

func (l *Logger) Warn(msg string, attrs ...any) {
	l.sugar.Warnw(msg, attrs...)
}

func (l *Logger) Error(msg string, attrs ...any) {
	l.sugar.Errorw(msg, attrs...)
}

func (l *Logger) With(attrs ...any) *Logger {
	return &Logger{sugar: l.sugar.With(attrs...)}
}

func (l *Logger) WithComponent(component string) *Logger {
	return l.With("component", component)
}

func (l *Logger) WithOperation(operation string) *Logger {
	return l.With("operation", operation)
}

func (l *Logger) WithError(err error) *Logger {
	return l.With("error", err)
}

func (l *Logger) DebugOperation(operation string, attrs ...any) {
	l.sugar.Debugw(operation, append([]any{"operation", operation}, attrs...)...)
}

func (l *Logger) InfoOperation(operation string, attrs ...any) {
	l.sugar.Infow(operation, append([]any{"operation", operation}, attrs...)...)
}

func (l *Logger) ErrorOperation(operation string, err error, attrs ...any) {
	l.sugar.Errorw(operation, append([]any{"operation", operation, "error", err}, attrs...)...)
}

// GitCommand logs a git invocation. Credentials embedded in URL arguments are redacted.
func (l *Logger) GitCommand(command string, args []string, attrs ...any) {
	l.sugar.Debugw("executing command", append([]any{"command", command, "args", RedactArgs(args)}, attrs...)...)
}

func (l *Logger) GitResult(command string, success bool, output string, attrs ...any) {
	fields := append([]any{"command", command, "success", success, "output", RedactText(strings.TrimSpace(output))}, attrs...)
	l.sugar.Debugw("command finished", fields...)
}

func (l *Logger) Performance(operation string, duration time.Duration, attrs ...any) {
	l.sugar.Debugw("timing", append([]any{"operation", operation, "duration", duration}, attrs...)...)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
