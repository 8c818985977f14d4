package service

import (
	"encoding/json"
	"fmt"
)

// Codec serializes plain Go messages as JSON for Connect.
// It is registered under the "json" name, so it handles application/json
// requests instead of connect's protobuf JSON codec.
type Codec struct{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("invalid json message: %w", err)
	}
	return nil
}
