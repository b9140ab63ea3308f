package converter

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"gdoc-latex/internal/config"
	"gdoc-latex/internal/logging"
	"gdoc-latex/internal/models"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainConfig() config.ConvertConfig {
	cfg := config.DefaultConvertConfig()
	cfg.BeginSentinel, cfg.EndSentinel = "", ""
	cfg.Format = config.FormatLaTeX
	return cfg
}

func TestRunBatch_OrderAndErrors(t *testing.T) {
	f := &mapFetcher{
		delay: 5 * time.Millisecond,
		docs: map[string]string{
			"a": "<p>alpha</p>",
			"c": "<p>gamma – delta</p>",
		},
	}
	c := New(f, WithConfig(plainConfig()))
	dir := t.TempDir()

	jobs := []models.Job{
		{Source: docURL("a"), Output: "a.tex"},
		{Source: docURL("b"), Output: "b.tex"},
		{Source: docURL("c"), Output: "sub/c.tex"},
		{Source: "bogus", Output: "d.tex"},
	}
	results := c.RunBatch(context.Background(), jobs, FileSink{Dir: dir}, 2)
	require.Len(t, results, len(jobs))

	for i, r := range results {
		assert.Equal(t, jobs[i], r.Job)
	}
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
	assert.Error(t, results[3].Err)
	assert.True(t, goerrors.IsCategory(results[1].Err, goerrors.CategoryCommand))
	assert.Equal(t, 2, Failed(results))

	data, err := os.ReadFile(filepath.Join(dir, "a.tex"))
	require.NoError(t, err)
	assert.Equal(t, "alpha\n", string(data))

	data, err = os.ReadFile(filepath.Join(dir, "sub", "c.tex"))
	require.NoError(t, err)
	assert.Equal(t, "gamma -- delta\n", string(data))

	_, err = os.Stat(filepath.Join(dir, "b.tex"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunBatch_ErrorNamesCauseOnce(t *testing.T) {
	cause := errors.New("export quota exhausted")
	f := &mapFetcher{errs: map[string]error{"q": cause}}
	c := New(f, WithConfig(plainConfig()))

	results := c.RunBatch(context.Background(), []models.Job{{Source: docURL("q"), Output: "q.tex"}}, nil, 1)
	require.Len(t, results, 1)

	err := results[0].Err
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "q.tex")
	assert.Equal(t, 1, strings.Count(err.Error(), cause.Error()))
}

func TestRunBatch_LogsWithJobFields(t *testing.T) {
	rec := &logRecorder{}
	c := New(&mapFetcher{docs: map[string]string{"a": "<p>a</p>"}},
		WithConfig(plainConfig()), WithLogger(&fieldLogger{rec: rec}))

	results := c.RunBatch(context.Background(), []models.Job{
		{Source: docURL("a"), Output: "a.tex"},
		{Source: docURL("missing"), Output: "m.tex"},
	}, NewWriterSink(io.Discard), 1)
	require.Equal(t, 1, Failed(results))

	want := map[string]map[string]any{
		"wrote document": {"source": docURL("a"), "output": "a.tex"},
		"job failed":     {"source": docURL("missing"), "output": "m.tex"},
	}
	for msg, fields := range want {
		entry, ok := rec.find(msg)
		require.True(t, ok, msg)
		assert.Equal(t, fields, entry.fields, msg)
	}
}

func TestRunBatch_RespectsLimit(t *testing.T) {
	docs := map[string]string{}
	var jobs []models.Job
	for _, id := range []string{"1", "2", "3", "4", "5", "6", "7", "8"} {
		docs[id] = "<p>" + id + "</p>"
		jobs = append(jobs, models.Job{Source: docURL(id), Output: id + ".tex"})
	}
	f := &mapFetcher{docs: docs, delay: 10 * time.Millisecond}

	results := New(f, WithConfig(plainConfig())).RunBatch(context.Background(), jobs, nil, 3)

	assert.Equal(t, 0, Failed(results))
	assert.LessOrEqual(t, f.peak, 3)
	for i, r := range results {
		assert.Equal(t, jobs[i].Output[:1]+"\n", r.Result.Text)
	}
}

func TestRunBatch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(&mapFetcher{docs: map[string]string{"a": "<p>a</p>"}}, WithConfig(plainConfig()))
	results := c.RunBatch(ctx, []models.Job{{Source: docURL("a"), Output: "a.tex"}}, nil, 0)

	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWriterSink(&buf)
	sink.Header = true

	require.NoError(t, sink.Write(context.Background(), "a.tex", "alpha\n"))
	require.NoError(t, sink.Write(context.Background(), "b.tex", "beta\n"))
	assert.Equal(t, "% ---- a.tex\nalpha\n% ---- b.tex\nbeta\n", buf.String())
}

func TestWriterSink_ConcurrentWritesDoNotInterleave(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWriterSink(&buf)
	c := New(&mapFetcher{docs: map[string]string{
		"a": "<p>" + strings.Repeat("a", 500) + "</p>",
		"b": "<p>" + strings.Repeat("b", 500) + "</p>",
	}}, WithConfig(plainConfig()))

	results := c.RunBatch(context.Background(), []models.Job{
		{Source: docURL("a"), Output: "a"},
		{Source: docURL("b"), Output: "b"},
	}, sink, 2)
	require.Equal(t, 0, Failed(results))

	out := buf.String()
	assert.Contains(t, out, strings.Repeat("a", 500)+"\n")
	assert.Contains(t, out, strings.Repeat("b", 500)+"\n")
}

func TestFileSink_Errors(t *testing.T) {
	sink := FileSink{Dir: t.TempDir()}
	assert.Error(t, sink.Write(context.Background(), "", "x"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sink.Write(ctx, "a.tex", "x"), context.Canceled)
}

func TestFileSink_AbsolutePathAndOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tex")
	sink := FileSink{Dir: "/nonexistent"}

	require.NoError(t, sink.Write(context.Background(), path, "first"))
	require.NoError(t, sink.Write(context.Background(), path, "second"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

type logEntry struct {
	msg    string
	fields map[string]any
}

type logRecorder struct {
	mu      sync.Mutex
	entries []logEntry
}

func (r *logRecorder) find(msg string) (logEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.msg == msg {
			return e, true
		}
	}
	return logEntry{}, false
}

// fieldLogger records each message with the fields attached to it
type fieldLogger struct {
	rec    *logRecorder
	fields map[string]any
}

func (l *fieldLogger) record(msg string) {
	l.rec.mu.Lock()
	defer l.rec.mu.Unlock()
	l.rec.entries = append(l.rec.entries, logEntry{msg: msg, fields: l.fields})
}

func (l *fieldLogger) Trace(msg string, _ ...any) { l.record(msg) }
func (l *fieldLogger) Debug(msg string, _ ...any) { l.record(msg) }
func (l *fieldLogger) Info(msg string, _ ...any)  { l.record(msg) }
func (l *fieldLogger) Warn(msg string, _ ...any)  { l.record(msg) }
func (l *fieldLogger) Error(msg string, _ ...any) { l.record(msg) }
func (l *fieldLogger) Fatal(msg string, _ ...any) { l.record(msg) }

func (l *fieldLogger) WithContext(context.Context) logging.Logger { return l }

func (l *fieldLogger) WithFields(fields map[string]any) logging.Logger {
	return &fieldLogger{rec: l.rec, fields: fields}
}
