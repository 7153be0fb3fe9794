package remote

import (
	"encoding/json"
	"fmt"
)

// EventType tags a remote-control Event
type EventType string

const (
	PointerMove EventType = "pointer_move"
	PointerDown EventType = "pointer_down"
	PointerUp   EventType = "pointer_up"
	Wheel       EventType = "wheel"
	KeyDown     EventType = "key_down"
	KeyUp       EventType = "key_up"
)

// Event is a single remote-control input event sent by the UI.
// Which payload fields are meaningful depends on Type.
type Event struct {
	Type   EventType `json:"type"`
	XNorm  float64   `json:"xNorm"`
	YNorm  float64   `json:"yNorm"`
	Button string    `json:"button"`
	DeltaY float64   `json:"deltaY"`
	Key    string    `json:"key"`
}

// wireEvent uses pointers so that missing payload fields can be told apart from zero values
type wireEvent struct {
	Type   EventType `json:"type"`
	XNorm  *float64  `json:"xNorm"`
	YNorm  *float64  `json:"yNorm"`
	Button *string   `json:"button"`
	DeltaY *float64  `json:"deltaY"`
	Key    *string   `json:"key"`
}

// DecodeEvent parses and validates the JSON form of an Event
func DecodeEvent(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	missing := func(field string) error {
		return fmt.Errorf("missing field `%s` for event type %q", field, w.Type)
	}

	ev := Event{Type: w.Type}
	switch w.Type {
	case PointerMove:
		if w.XNorm == nil {
			return missing("xNorm")
		}
		if w.YNorm == nil {
			return missing("yNorm")
		}
		ev.XNorm, ev.YNorm = *w.XNorm, *w.YNorm
	case PointerDown, PointerUp:
		if w.Button == nil {
			return missing("button")
		}
		ev.Button = *w.Button
	case Wheel:
		if w.DeltaY == nil {
			return missing("deltaY")
		}
		ev.DeltaY = *w.DeltaY
	case KeyDown, KeyUp:
		if w.Key == nil {
			return missing("key")
		}
		ev.Key = *w.Key
	case "":
		return fmt.Errorf("missing field `type`")
	default:
		return fmt.Errorf("unknown event type %q", w.Type)
	}

	*e = ev
	return nil
}
