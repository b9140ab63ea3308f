package logging

import (
	"context"
	"testing"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(Config{Level: "debug", Format: "console"})
	require.NoError(t, err)

	logger := p.GetLogger("fetcher")
	require.NotNil(t, logger)

	child := WithFields(logger, map[string]any{"doc": "abc"})
	require.NotNil(t, child)
	child.Debug("provider.ready")
}

func TestNewProvider_UnsupportedFormat(t *testing.T) {
	_, err := NewProvider(Config{Format: "xml"})
	assert.Error(t, err)
}

func TestNilProviderIsNoOp(t *testing.T) {
	var p *Provider
	logger := p.GetLogger("x")
	assert.Equal(t, NoOp(), logger)
	logger.Info("discarded")
}

func TestWithFields_NilLogger(t *testing.T) {
	assert.Equal(t, NoOp(), WithFields(nil, map[string]any{"a": 1}))
}

func TestAdapterDelegates(t *testing.T) {
	stub := &stubLogger{}
	adapted := wrap(stub)

	adapted.Trace("trace", "key", "value")
	adapted.Debug("debug")
	adapted.Info("info")
	adapted.Warn("warn")
	adapted.Error("error")
	adapted.Fatal("fatal")

	fields := map[string]any{"job": "paper.tex"}
	require.NotNil(t, WithFields(adapted, fields))
	fields["job"] = "intro.tex"
	require.Len(t, stub.fields, 1)
	assert.Equal(t, "paper.tex", stub.fields[0]["job"])

	ctx := context.WithValue(context.Background(), struct{}{}, "v")
	adapted.WithContext(ctx)
	require.Len(t, stub.contexts, 1)
	assert.Equal(t, ctx, stub.contexts[0])

	assert.Equal(t, []string{"trace", "debug", "info", "warn", "error", "fatal"}, stub.calls)
}

func TestNewProvider_Levels(t *testing.T) {
	assert.Equal(t, glog.Warn, levelNames["warning"])

	for _, level := range []string{" WARNING ", "trace", "loud", ""} {
		p, err := NewProvider(Config{Level: level, Format: "json"})
		require.NoError(t, err, level)
		assert.NotNil(t, p.GetLogger(""))
	}
}

func TestWithFields_WithoutFieldsSupport(t *testing.T) {
	logger := &plainLogger{}
	assert.Same(t, logger, WithFields(logger, map[string]any{"a": 1}))
}

type stubLogger struct {
	calls    []string
	fields   []map[string]any
	contexts []context.Context
}

var _ glog.Logger = (*stubLogger)(nil)
var _ glog.FieldsLogger = (*stubLogger)(nil)

func (s *stubLogger) Trace(string, ...any) { s.calls = append(s.calls, "trace") }
func (s *stubLogger) Debug(string, ...any) { s.calls = append(s.calls, "debug") }
func (s *stubLogger) Info(string, ...any)  { s.calls = append(s.calls, "info") }
func (s *stubLogger) Warn(string, ...any)  { s.calls = append(s.calls, "warn") }
func (s *stubLogger) Error(string, ...any) { s.calls = append(s.calls, "error") }
func (s *stubLogger) Fatal(string, ...any) { s.calls = append(s.calls, "fatal") }

func (s *stubLogger) WithContext(ctx context.Context) glog.Logger {
	s.contexts = append(s.contexts, ctx)
	return s
}

func (s *stubLogger) WithFields(fields map[string]any) glog.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	s.fields = append(s.fields, copied)
	return s
}

type plainLogger struct{}

func (*plainLogger) Trace(string, ...any)                 {}
func (*plainLogger) Debug(string, ...any)                 {}
func (*plainLogger) Info(string, ...any)                  {}
func (*plainLogger) Warn(string, ...any)                  {}
func (*plainLogger) Error(string, ...any)                 {}
func (*plainLogger) Fatal(string, ...any)                 {}
func (l *plainLogger) WithContext(context.Context) Logger { return l }
