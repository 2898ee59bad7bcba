package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// TestLogger captures JSON log lines in memory for assertions in tests.
type TestLogger struct {
	mu     *sync.Mutex
	buffer *bytes.Buffer
	level  Level
	fields map[string]interface{}
}

// NewTestLogger returns a TestLogger and the buffer it writes to.
//
//	logger, buf := log.NewTestLogger(log.LevelDebug)
//	logger.Info("fitted", log.SamplesKey, 10)
//	// inspect buf.String()
func NewTestLogger(level Level) (*TestLogger, *bytes.Buffer) {
	buffer := &bytes.Buffer{}
	return &TestLogger{
		mu:     &sync.Mutex{},
		buffer: buffer,
		level:  level,
		fields: make(map[string]interface{}),
	}, buffer
}

func (t *TestLogger) Debug(msg string, fields ...any) { t.log(LevelDebug, msg, fields) }
func (t *TestLogger) Info(msg string, fields ...any)  { t.log(LevelInfo, msg, fields) }
func (t *TestLogger) Warn(msg string, fields ...any)  { t.log(LevelWarn, msg, fields) }

func (t *TestLogger) Error(msg string, fields ...any) {
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			fields = append([]any{ErrAttrKey, err}, fields[1:]...)
		}
	}
	t.log(LevelError, msg, fields)
}

// With implements Logger.With.
func (t *TestLogger) With(fields ...any) Logger {
	newFields := make(map[string]interface{}, len(t.fields))
	for k, v := range t.fields {
		newFields[k] = v
	}
	addFields(newFields, fields)

	return &TestLogger{
		mu:     t.mu,
		buffer: t.buffer,
		level:  t.level,
		fields: newFields,
	}
}

// Enabled implements Logger.Enabled.
func (t *TestLogger) Enabled(_ context.Context, level Level) bool {
	return t.level <= level
}

func (t *TestLogger) log(level Level, msg string, fields []any) {
	if level < t.level {
		return
	}
	entry := map[string]interface{}{
		"level":   level.String(),
		"message": msg,
	}
	for k, v := range t.fields {
		entry[k] = v
	}
	addFields(entry, fields)

	jsonData, _ := json.Marshal(entry)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buffer.Write(jsonData)
	t.buffer.WriteByte('\n')
}

func addFields(dst map[string]interface{}, fields []any) {
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		if err, ok := fields[i+1].(error); ok {
			dst[key] = err.Error()
			continue
		}
		dst[key] = fields[i+1]
	}
}

// GetLogEntries parses the captured lines.
func (t *TestLogger) GetLogEntries() ([]map[string]interface{}, error) {
	t.mu.Lock()
	raw := t.buffer.String()
	t.mu.Unlock()

	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ContainsMessage reports whether any captured line contains message.
func (t *TestLogger) ContainsMessage(message string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Contains(t.buffer.String(), message)
}

// ContainsField reports whether an entry has key == value. JSON numbers
// decode as float64.
func (t *TestLogger) ContainsField(key string, value interface{}) bool {
	entries, err := t.GetLogEntries()
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if v, ok := entry[key]; ok && v == value {
			return true
		}
	}
	return false
}

// Clear drops everything captured so far.
func (t *TestLogger) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buffer.Reset()
}
