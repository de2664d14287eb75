package logger

import (
	"sync"
	"time"
)

// ErrorEntry is one retained error or warning.
type ErrorEntry struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Count     int                    `json:"count"`
	FirstSeen time.Time              `json:"first_seen"`
	LastSeen  time.Time              `json:"last_seen"`
}

// ErrorCollector retains the most recent distinct errors in a bounded ring.
// Repeated identical messages bump a counter instead of pushing out older
// entries. Used by the health endpoint to surface load-failure notices.
type ErrorCollector struct {
	mu      sync.Mutex
	max     int
	order   []string
	entries map[string]*ErrorEntry
}

// NewErrorCollector creates a collector retaining up to max distinct entries.
func NewErrorCollector(max int) *ErrorCollector {
	if max <= 0 {
		max = 50
	}
	return &ErrorCollector{
		max:     max,
		entries: make(map[string]*ErrorEntry),
	}
}

// Add records one error/warning occurrence.
func (c *ErrorCollector) Add(level, msg string, fields []Field) {
	now := time.Now()
	key := level + "|" + msg

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.Count++
		e.LastSeen = now
		if len(fields) > 0 {
			e.Fields = fieldMap(fields)
		}
		return
	}

	if len(c.order) >= c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = &ErrorEntry{
		Level:     level,
		Message:   msg,
		Fields:    fieldMap(fields),
		Count:     1,
		FirstSeen: now,
		LastSeen:  now,
	}
	c.order = append(c.order, key)
}

// Recent returns retained entries, oldest first.
func (c *ErrorCollector) Recent() []ErrorEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]ErrorEntry, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, *c.entries[key])
	}
	return out
}

func fieldMap(fields []Field) map[string]interface{} {
	if len(fields) == 0 {
		return nil
	}
	m := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		k, v := f.KeyValue()
		m[k] = v
	}
	return m
}
