package conversation

import (
	"encoding/json"
	"fmt"
)

// Encode serializes messages as a JSON array of {id, text, user} objects.
// A nil slice encodes as an empty array.
func Encode(msgs []Message) ([]byte, error) {
	if msgs == nil {
		msgs = []Message{}
	}
	data, err := json.Marshal(msgs)
	if err != nil {
		return nil, fmt.Errorf("encode messages: %w", err)
	}
	return data, nil
}

// Decode parses a JSON array produced by Encode. A JSON null decodes to an
// empty history.
func Decode(data []byte) ([]Message, error) {
	var msgs []Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	return msgs, nil
}
