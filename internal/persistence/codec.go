package persistence

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/petrijr/canopy/pkg/api"
)

// tickEventPayload is the gob wire form of a TickEvent. Status travels as
// text so a payload stays readable if the enum order ever changes.
type tickEventPayload struct {
	RunID  string
	Tree   string
	Tick   uint64
	At     int64
	Type   string
	Node   int
	Status string
	Detail string
}

func encodeEvent(ev api.TickEvent) ([]byte, error) {
	payload := tickEventPayload{
		RunID:  ev.RunID,
		Tree:   ev.Tree,
		Tick:   ev.Tick,
		At:     ev.At.UnixNano(),
		Type:   string(ev.Type),
		Node:   ev.Node,
		Status: ev.Status.String(),
		Detail: ev.Detail,
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&payload); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeEvent(data []byte) (api.TickEvent, error) {
	var payload tickEventPayload
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&payload); err != nil {
		return api.TickEvent{}, fmt.Errorf("decode tick event: %w", err)
	}
	st, err := api.ParseStatus(payload.Status)
	if err != nil {
		return api.TickEvent{}, fmt.Errorf("decode tick event: %w", err)
	}
	return api.TickEvent{
		RunID:  payload.RunID,
		Tree:   payload.Tree,
		Tick:   payload.Tick,
		At:     time.Unix(0, payload.At),
		Type:   api.EventType(payload.Type),
		Node:   payload.Node,
		Status: st,
		Detail: payload.Detail,
	}, nil
}
