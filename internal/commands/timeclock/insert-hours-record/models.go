package inserthoursrecord

import "encoding/json"

// Input is the argument object. NewEntry is forwarded to Grist as the
// record's fields without inspection.
type Input struct {
	NewEntry json.RawMessage `json:"newEntry"`
}
