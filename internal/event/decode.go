package event

import (
	"encoding/json"
	"fmt"
)

// DecodePayload returns an event payload as T. In-process publishes carry T
// or *T directly. Payloads that went through JSON (dead-letter replay, or a
// generic map) are re-decoded.
func DecodePayload[T any](input any) (T, error) {
	var out T
	switch v := input.(type) {
	case T:
		return v, nil
	case *T:
		if v == nil {
			return out, fmt.Errorf("decode %T: nil payload", out)
		}
		return *v, nil
	case json.RawMessage:
		return out, json.Unmarshal(v, &out)
	case []byte:
		return out, json.Unmarshal(v, &out)
	}

	data, err := json.Marshal(input)
	if err != nil {
		return out, fmt.Errorf("decode %T: %w", out, err)
	}
	return out, json.Unmarshal(data, &out)
}
