package event

import (
	"encoding/json"
	"fmt"

	"github.com/agentflow/agentcore/jsonvalue"
)

type wireMetadata struct {
	TimestampMS   int64           `json:"timestamp"`
	Source        string          `json:"source"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	UserID        string          `json:"user_id,omitempty"`
	SessionID     string          `json:"session_id,omitempty"`
	Tags          []string        `json:"tags"`
	Custom        json.RawMessage `json:"custom,omitempty"`
}

type wireEvent struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category Category        `json:"category"`
	Severity string          `json:"severity"`
	Metadata wireMetadata    `json:"metadata"`
	Payload  json.RawMessage `json:"payload"`
}

// MarshalJSON renders the event in the wire shape documented for the file
// backend and external consumers.
func (e Event) MarshalJSON() ([]byte, error) {
	payload, err := e.payload.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("event: marshal payload: %w", err)
	}
	w := wireEvent{
		ID:       e.id,
		Name:     e.name,
		Category: e.category,
		Severity: e.severity.String(),
		Metadata: wireMetadata{
			TimestampMS:   e.metadata.TimestampMS,
			Source:        e.metadata.Source,
			CorrelationID: e.metadata.CorrelationID,
			UserID:        e.metadata.UserID,
			SessionID:     e.metadata.SessionID,
			Tags:          e.metadata.Tags,
		},
		Payload: payload,
	}
	if !e.metadata.Custom.IsNull() {
		custom, err := e.metadata.Custom.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("event: marshal metadata.custom: %w", err)
		}
		w.Metadata.Custom = custom
	}
	return json.Marshal(w)
}

// UnmarshalJSON parses the wire shape back into an Event, preserving the
// original id (round-trip: from_json(to_json(E)) == E).
func (e *Event) UnmarshalJSON(data []byte) error {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("event: unmarshal: %w", err)
	}
	if !w.Category.valid() {
		return fmt.Errorf("event: unknown category %q", w.Category)
	}
	sev, ok := ParseSeverity(w.Severity)
	if !ok {
		return fmt.Errorf("event: unknown severity %q", w.Severity)
	}
	var payload jsonvalue.Value
	if len(w.Payload) > 0 {
		if err := json.Unmarshal(w.Payload, &payload); err != nil {
			return fmt.Errorf("event: unmarshal payload: %w", err)
		}
	} else {
		payload = jsonvalue.Null()
	}
	custom := jsonvalue.Null()
	if len(w.Metadata.Custom) > 0 {
		if err := json.Unmarshal(w.Metadata.Custom, &custom); err != nil {
			return fmt.Errorf("event: unmarshal metadata.custom: %w", err)
		}
	}
	*e = Event{
		id:       w.ID,
		name:     w.Name,
		category: w.Category,
		severity: sev,
		metadata: Metadata{
			TimestampMS:   w.Metadata.TimestampMS,
			Source:        w.Metadata.Source,
			CorrelationID: w.Metadata.CorrelationID,
			UserID:        w.Metadata.UserID,
			SessionID:     w.Metadata.SessionID,
			Tags:          w.Metadata.Tags,
			Custom:        custom,
		},
		payload: payload,
	}
	if e.metadata.Tags == nil {
		e.metadata.Tags = []string{}
	}
	return nil
}
