package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const envelopeVersion = 2

type envelope struct {
	Version int    `json:"version"`
	Items   []Item `json:"items"`
}

func encode(items []Item) (string, error) {
	if items == nil {
		items = []Item{}
	}
	raw, err := json.Marshal(envelope{Version: envelopeVersion, Items: items})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// decodeResult reports how a stored value was interpreted.
type decodeResult struct {
	items     []Item
	migrated  bool
	discarded string
}

// decode reads the stored cart. Carts written before the envelope existed
// were a bare array of items; lines without a selected configuration come
// from the room-only cart and are dropped.
func decode(raw string) decodeResult {
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 {
		return decodeResult{}
	}

	if trimmed[0] == '[' {
		var legacy []Item
		if err := json.Unmarshal(trimmed, &legacy); err != nil {
			return decodeResult{discarded: fmt.Sprintf("corrupt legacy cart: %v", err)}
		}
		kept := make([]Item, 0, len(legacy))
		for _, item := range legacy {
			if item.Key().validate() != nil {
				continue
			}
			kept = append(kept, item)
		}
		return decodeResult{items: dedupe(kept), migrated: true}
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return decodeResult{discarded: fmt.Sprintf("corrupt cart: %v", err)}
	}
	if env.Version != envelopeVersion {
		return decodeResult{discarded: fmt.Sprintf("unsupported cart version %d", env.Version)}
	}
	return decodeResult{items: dedupe(env.Items)}
}

func dedupe(items []Item) []Item {
	seen := make(map[Key]struct{}, len(items))
	out := make([]Item, 0, len(items))
	for _, item := range items {
		key := item.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
