package payment

import (
	"encoding/json"
	"fmt"
)

// MetadataItemsKey is the session metadata key carrying the structured
// order lines
const MetadataItemsKey = "items"

// MetadataItem is one order line as recorded in session metadata at
// creation time. Carrying scent and size structurally means fulfillment
// never has to re-parse display strings except as a fallback.
type MetadataItem struct {
	Scent string `json:"scent"`
	Size  string `json:"size"`
	Qty   int    `json:"qty"`
}

// EncodeMetadataItems serializes order lines for session metadata
func EncodeMetadataItems(items []MetadataItem) (string, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("payment: failed to encode metadata items: %w", err)
	}
	return string(data), nil
}

// DecodeMetadataItems parses the metadata items value. An empty or
// malformed value returns an error so callers can fall back to display
// name parsing.
func DecodeMetadataItems(raw string) ([]MetadataItem, error) {
	if raw == "" {
		return nil, fmt.Errorf("payment: metadata items value is empty")
	}
	var items []MetadataItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("payment: failed to decode metadata items: %w", err)
	}
	return items, nil
}
