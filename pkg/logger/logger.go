// Package logger provides a process-wide structured logger built on
// log/slog, with a small convenience API (Infof, Errorw, ...) so call sites
// read the same whether they want a formatted message or structured
// key/value pairs.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
)

func sprint(args ...any) string          { return fmt.Sprint(args...) }
func sprintf(format string, args ...any) string { return fmt.Sprintf(format, args...) }

var singleton atomic.Pointer[slog.Logger]

func init() {
	singleton.Store(newDefault())
}

// EnvReader abstracts environment lookups so Initialize can be tested
// without mutating the real process environment.
type EnvReader interface {
	Getenv(key string) string
}

type osEnv struct{}

func (osEnv) Getenv(key string) string { return os.Getenv(key) }

func newDefault() *slog.Logger {
	return newWithMode(unstructuredLogsWithEnv(osEnv{}))
}

func newWithMode(unstructured bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler
	if unstructured {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// unstructuredLogsWithEnv decides the default handler: GATEWAY_UNSTRUCTURED_LOGS
// defaults to true (human-readable text) and only "false" switches to JSON.
func unstructuredLogsWithEnv(env EnvReader) bool {
	v := env.Getenv("GATEWAY_UNSTRUCTURED_LOGS")
	return v != "false"
}

// Initialize (re)configures the process-wide singleton from the real
// environment. Called once from cmd/gatewayd's root command.
func Initialize() {
	InitializeWithEnv(osEnv{})
}

// InitializeWithEnv is Initialize with an injectable environment reader, for
// tests.
func InitializeWithEnv(env EnvReader) {
	singleton.Store(newWithMode(unstructuredLogsWithEnv(env)))
}

// Get returns the current process-wide logger.
func Get() *slog.Logger {
	return singleton.Load()
}

// WithContext returns a child logger carrying fields extracted from ctx
// (currently: org_id, if tenancy has attached one).
func WithContext(ctx context.Context) *slog.Logger {
	l := Get()
	if v := ctx.Value(orgLogFieldKey{}); v != nil {
		l = l.With(slog.Any("org_id", v))
	}
	return l
}

type orgLogFieldKey struct{}

// WithOrgID returns a context that causes WithContext to tag subsequent log
// lines with the given org id.
func WithOrgID(ctx context.Context, orgID string) context.Context {
	return context.WithValue(ctx, orgLogFieldKey{}, orgID)
}

func Debug(args ...any)                  { Get().Debug(sprint(args...)) }
func Debugf(format string, args ...any)   { Get().Debug(sprintf(format, args...)) }
func Debugw(msg string, kv ...any)        { Get().Debug(msg, kv...) }
func Info(args ...any)                    { Get().Info(sprint(args...)) }
func Infof(format string, args ...any)    { Get().Info(sprintf(format, args...)) }
func Infow(msg string, kv ...any)         { Get().Info(msg, kv...) }
func Warn(args ...any)                    { Get().Warn(sprint(args...)) }
func Warnf(format string, args ...any)    { Get().Warn(sprintf(format, args...)) }
func Warnw(msg string, kv ...any)         { Get().Warn(msg, kv...) }
func Error(args ...any)                   { Get().Error(sprint(args...)) }
func Errorf(format string, args ...any)   { Get().Error(sprintf(format, args...)) }
func Errorw(msg string, kv ...any)        { Get().Error(msg, kv...) }

// DPanic logs at error level; unlike Panic it does not panic. Kept distinct
// from Error so call sites can flag "this should never happen in
// production" without crashing a running gateway.
func DPanic(args ...any)                { Get().Error(sprint(args...)) }
func DPanicf(format string, args ...any) { Get().Error(sprintf(format, args...)) }
func DPanicw(msg string, kv ...any)      { Get().Error(msg, kv...) }

func Panic(args ...any) {
	msg := sprint(args...)
	Get().Error(msg)
	panic(msg)
}

func Panicf(format string, args ...any) {
	msg := sprintf(format, args...)
	Get().Error(msg)
	panic(msg)
}

func Panicw(msg string, kv ...any) {
	Get().Error(msg, kv...)
	panic(msg)
}
