package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ChannelNumber accepts a JSON string or number and re-encodes it unchanged
type ChannelNumber struct {
	raw json.RawMessage
}

// NewChannelNumber creates a channel number encoded as a JSON string
func NewChannelNumber(s string) *ChannelNumber {
	raw, _ := json.Marshal(s)
	return &ChannelNumber{raw: raw}
}

// UnmarshalJSON implements json.Unmarshaler
func (n *ChannelNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty channel number")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("channel number must be a string or a number")
		}
	}
	n.raw = append(n.raw[:0], data...)
	return nil
}

// MarshalJSON implements json.Marshaler
func (n ChannelNumber) MarshalJSON() ([]byte, error) {
	if len(n.raw) == 0 {
		return []byte("null"), nil
	}
	return n.raw, nil
}

// String returns the channel number without JSON quoting
func (n ChannelNumber) String() string {
	if len(n.raw) > 0 && n.raw[0] == '"' {
		var s string
		if err := json.Unmarshal(n.raw, &s); err == nil {
			return s
		}
	}
	return string(n.raw)
}

// CustomMessages replaces the texts of the standard announcement plan.
// Any non-object JSON value decodes to the zero value.
type CustomMessages struct {
	First  string `json:"first,omitempty"`
	Second string `json:"second,omitempty"`
	Third  string `json:"third,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler
func (c *CustomMessages) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		*c = CustomMessages{}
		return nil
	}
	type plain CustomMessages
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = CustomMessages(p)
	return nil
}
