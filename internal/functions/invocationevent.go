package functions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

type payloadInfo struct {
	Type string   `json:"type"`
	Keys []string `json:"keys"`
}

type eventInfo struct {
	ID              string          `json:"id"`
	Data            json.RawMessage `json:"data"`
	DataContentType string          `json:"dataContentType"`
	Source          string          `json:"source"`
	Type            string          `json:"type"`
	Time            time.Time       `json:"time"`
	PayloadInfo     payloadInfo     `json:"payloadInfo"`
}

// InvocationEvent describes the event it was invoked with.
type InvocationEvent struct {
	log *slog.Logger
}

func NewInvocationEvent(log *slog.Logger) *InvocationEvent {
	return &InvocationEvent{log: log}
}

func (f *InvocationEvent) Name() string { return "invocationevent" }

// Invoke echoes the CloudEvent attributes together with the top level keys of the payload.
// Empty, null, false, 0 and "" payloads are described as {}. Arrays are keyed by index.
func (f *InvocationEvent) Invoke(ctx context.Context, event Event) (any, error) {
	data := json.RawMessage(payloadString(event.Data))
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: payload is not valid JSON", ErrInvalidArgument)
	}
	if isEmptyValue(data) {
		data = json.RawMessage(`{}`)
	}
	f.log.InfoContext(ctx, fmt.Sprintf("Invoking %s with payload %s", f.Name(), data))

	keys, err := payloadKeys(data)
	if err != nil {
		return nil, err
	}

	info := eventInfo{
		ID:              event.ID,
		Data:            data,
		DataContentType: event.DataContentType,
		Source:          event.Source,
		Type:            event.Type,
		Time:            event.Time,
		PayloadInfo:     payloadInfo{Type: "object", Keys: keys},
	}
	f.log.InfoContext(ctx, "Event described", "id", info.ID, "keys", keys)

	return info, nil
}

// isEmptyValue reports whether data is null, false, 0 or an empty string.
func isEmptyValue(data json.RawMessage) bool {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return false
	}

	switch v := value.(type) {
	case nil:
		return true
	case bool:
		return !v
	case float64:
		return v == 0
	case string:
		return v == ""
	default:
		return false
	}
}

// payloadKeys returns the top level keys of a JSON object in document order,
// or the element indexes of a JSON array.
func payloadKeys(data json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode payload: %w", ErrInvalidArgument, err)
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil, fmt.Errorf("%w: payload of type '%s' not supported", ErrInvalidArgument, jsonType(tok))
	}

	keys := []string{}
	for index := 0; dec.More(); index++ {
		if delim == '{' {
			if tok, err = dec.Token(); err != nil {
				return nil, fmt.Errorf("%w: failed to decode payload: %w", ErrInvalidArgument, err)
			}
			key, _ := tok.(string)
			keys = append(keys, key)
		} else {
			keys = append(keys, strconv.Itoa(index))
		}

		var skip json.RawMessage
		if err = dec.Decode(&skip); err != nil {
			return nil, fmt.Errorf("%w: failed to decode payload: %w", ErrInvalidArgument, err)
		}
	}

	return keys, nil
}

func jsonType(tok json.Token) string {
	switch tok.(type) {
	case string:
		return "string"
	case float64, json.Number:
		return "number"
	case bool:
		return "boolean"
	default:
		return "object"
	}
}
