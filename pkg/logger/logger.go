// Package logger provides leveled, component-tagged logging for pregame.
// Output goes to the standard log writer; a JSON line sink can be enabled
// for run logs consumed by external tooling.
package logger

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var levelNames = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

// ParseLevel maps a config string to a Level. Unknown values fall back to INFO.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

var (
	mu           sync.RWMutex
	currentLevel = INFO
	sink         *os.File
)

type entry struct {
	Level     string         `json:"level"`
	Timestamp string         `json:"timestamp"`
	Component string         `json:"component,omitempty"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = level
}

func GetLevel() Level {
	mu.RLock()
	defer mu.RUnlock()
	return currentLevel
}

// EnableFileSink mirrors every entry as a JSON line to the given file.
func EnableFileSink(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log sink: %w", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if sink != nil {
		sink.Close()
	}
	sink = f
	return nil
}

// DisableFileSink closes the JSON sink if one is open.
func DisableFileSink() {
	mu.Lock()
	defer mu.Unlock()
	if sink != nil {
		sink.Close()
		sink = nil
	}
}

func write(level Level, component, message string, fields map[string]any) {
	mu.RLock()
	gate := currentLevel
	out := sink
	mu.RUnlock()
	if level < gate {
		return
	}

	e := entry{
		Level:     levelNames[level],
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Component: component,
		Message:   message,
		Fields:    fields,
	}

	if out != nil {
		if data, err := json.Marshal(e); err == nil {
			out.Write(append(data, '\n'))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", levelNames[level])
	if component != "" {
		fmt.Fprintf(&b, " %s:", component)
	}
	b.WriteByte(' ')
	b.WriteString(message)
	if len(fields) > 0 {
		b.WriteByte(' ')
		b.WriteString(formatFields(fields))
	}
	log.Println(b.String())
}

func formatFields(fields map[string]any) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func Debug(message string)             { write(DEBUG, "", message, nil) }
func DebugC(component, message string) { write(DEBUG, component, message, nil) }
func Info(message string)              { write(INFO, "", message, nil) }
func InfoC(component, message string)  { write(INFO, component, message, nil) }
func Warn(message string)              { write(WARN, "", message, nil) }
func WarnC(component, message string)  { write(WARN, component, message, nil) }
func Error(message string)             { write(ERROR, "", message, nil) }
func ErrorC(component, message string) { write(ERROR, component, message, nil) }

func DebugCF(component, message string, fields map[string]any) {
	write(DEBUG, component, message, fields)
}

func InfoCF(component, message string, fields map[string]any) {
	write(INFO, component, message, fields)
}

func WarnCF(component, message string, fields map[string]any) {
	write(WARN, component, message, fields)
}

func ErrorCF(component, message string, fields map[string]any) {
	write(ERROR, component, message, fields)
}
