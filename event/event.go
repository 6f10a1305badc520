// Package event implements a pattern-matching pub/sub pipeline: events carry
// an id, a dotted hierarchical name, a category, a severity, metadata, and a
// JSON payload. Producers hand events to an Emitter, which dispatches them to
// matching subscriptions either inline or through a background worker.
package event

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/agentflow/agentcore/jsonvalue"
)

// Category classifies the subsystem an event originated from.
type Category string

const (
	CategoryAgent       Category = "agent"
	CategoryProvider    Category = "provider"
	CategoryTool        Category = "tool"
	CategoryWorkflow    Category = "workflow"
	CategoryMemory      Category = "memory"
	CategorySystem      Category = "system"
	CategoryNetwork     Category = "network"
	CategorySecurity    Category = "security"
	CategoryPerformance Category = "performance"
	CategoryCustom      Category = "custom"
)

func (c Category) valid() bool {
	switch c {
	case CategoryAgent, CategoryProvider, CategoryTool, CategoryWorkflow, CategoryMemory,
		CategorySystem, CategoryNetwork, CategorySecurity, CategoryPerformance, CategoryCustom:
		return true
	default:
		return false
	}
}

// Severity is totally ordered: Debug < Info < Warning < Error < Critical.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ParseSeverity maps the wire string back to a Severity.
func ParseSeverity(s string) (Severity, bool) {
	switch s {
	case "debug":
		return SeverityDebug, true
	case "info":
		return SeverityInfo, true
	case "warning":
		return SeverityWarning, true
	case "error":
		return SeverityError, true
	case "critical":
		return SeverityCritical, true
	default:
		return 0, false
	}
}

// Metadata carries the envelope fields that ride alongside every event.
type Metadata struct {
	TimestampMS   int64
	Source        string
	CorrelationID string
	UserID        string
	SessionID     string
	Tags          []string
	Custom        jsonvalue.Value
}

// HasTag reports whether tag is present in Tags.
func (m Metadata) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (m Metadata) clone() Metadata {
	out := m
	if m.Tags != nil {
		out.Tags = append([]string(nil), m.Tags...)
	}
	out.Custom = m.Custom.Clone()
	return out
}

// Event is an immutable record flowing through the pipeline. Construct one
// with New or one of the canonical constructors in canonical.go.
type Event struct {
	id       string
	name     string
	category Category
	severity Severity
	metadata Metadata
	payload  jsonvalue.Value
}

// New builds an event with a freshly generated id and the current time
// stamped into metadata.TimestampMS (unless the caller already set one).
func New(name string, category Category, severity Severity, meta Metadata, payload jsonvalue.Value) Event {
	if meta.TimestampMS == 0 {
		meta.TimestampMS = time.Now().UnixMilli()
	}
	if meta.Tags == nil {
		meta.Tags = []string{}
	}
	return Event{
		id:       newID(),
		name:     name,
		category: category,
		severity: severity,
		metadata: meta,
		payload:  payload,
	}
}

// newID returns hex(microsecond timestamp) + hex(32-bit random), unique
// within a process lifetime for any practical emission rate.
func newID() string {
	var randBuf [4]byte
	if _, err := rand.Read(randBuf[:]); err != nil {
		binary.BigEndian.PutUint32(randBuf[:], uint32(time.Now().Nanosecond()))
	}
	micros := uint64(time.Now().UnixMicro())
	var tsBuf [8]byte
	binary.BigEndian.PutUint64(tsBuf[:], micros)
	return hex.EncodeToString(tsBuf[:]) + hex.EncodeToString(randBuf[:])
}

func (e Event) ID() string            { return e.id }
func (e Event) Name() string          { return e.name }
func (e Event) Category() Category    { return e.category }
func (e Event) Severity() Severity    { return e.severity }
func (e Event) Metadata() Metadata    { return e.metadata }
func (e Event) Payload() jsonvalue.Value { return e.payload }

// Clone deep-copies the event; fields are byte-for-byte equal to the
// original, but slices/maps inside metadata and payload are independent.
func (e Event) Clone() Event {
	out := e
	out.metadata = e.metadata.clone()
	out.payload = e.payload.Clone()
	return out
}

// Equal reports deep equality, including id — two clones of the same event
// are equal, but two events built independently (even with identical
// content) are not, since ids differ.
func (e Event) Equal(other Event) bool {
	if e.id != other.id || e.name != other.name || e.category != other.category || e.severity != other.severity {
		return false
	}
	if e.metadata.TimestampMS != other.metadata.TimestampMS ||
		e.metadata.Source != other.metadata.Source ||
		e.metadata.CorrelationID != other.metadata.CorrelationID ||
		e.metadata.UserID != other.metadata.UserID ||
		e.metadata.SessionID != other.metadata.SessionID {
		return false
	}
	if len(e.metadata.Tags) != len(other.metadata.Tags) {
		return false
	}
	for i := range e.metadata.Tags {
		if e.metadata.Tags[i] != other.metadata.Tags[i] {
			return false
		}
	}
	if !e.metadata.Custom.Equal(other.metadata.Custom) {
		return false
	}
	return e.payload.Equal(other.payload)
}

func (e Event) String() string {
	return fmt.Sprintf("Event{id=%s name=%s category=%s severity=%s}", e.id, e.name, e.category, e.severity)
}
