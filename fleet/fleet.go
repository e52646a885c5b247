package fleet

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// LineCodeField is the record field carrying the service line code.
const LineCodeField = "codLinea"

// Record is one train record as delivered by the upstream feed. The
// schema is owned by the provider, so fields stay loosely typed.
type Record map[string]any

// String returns the named field when it is present with a string value.
func (r Record) String(field string) (string, bool) {
	v, ok := r[field]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// LineCode returns the record's service line code, if any.
func (r Record) LineCode() (string, bool) {
	return r.String(LineCodeField)
}

// Snapshot is the raw payload retrieved for one cycle: the ordered
// record sequence plus the moment it was fetched.
type Snapshot struct {
	Records   []Record
	FetchedAt time.Time
}

// envelope matches the wrapped payload shape some feed versions emit.
type envelope struct {
	Trenes []Record `json:"trenes"`
}

// DecodeSnapshot parses one feed payload. The upstream emits either a
// bare JSON array of records or an object wrapping the array under
// "trenes"; both are accepted. Anything else is a decode error.
func DecodeSnapshot(data []byte, fetchedAt time.Time) (*Snapshot, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		var wrapped envelope
		if err2 := json.Unmarshal(data, &wrapped); err2 != nil {
			return nil, fmt.Errorf("decode fleet payload: %w", err)
		}
		records = wrapped.Trenes
	}
	if records == nil {
		records = []Record{}
	}
	return &Snapshot{Records: records, FetchedAt: fetchedAt}, nil
}

// EncodeRecords serializes records the way artifacts are stored:
// pretty-printed JSON, two-space indentation. A nil sequence encodes
// as an empty array, never null.
func EncodeRecords(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode fleet records: %w", err)
	}
	return data, nil
}
