package state

import (
	"encoding/json"

	"github.com/grovetools/sessionsync/pkg/models"
	"github.com/grovetools/sessionsync/schema"
)

// SnapshotVersion is written into every durable record.
const SnapshotVersion = 0

// record is the durable envelope: {"state": {...}, "version": 0}.
type record struct {
	State   models.SessionState `json:"state"`
	Version int                 `json:"version"`
}

// Encode serializes a session state into its durable record. Values JSON
// cannot represent (NaN or infinite prices) fail to encode.
func Encode(st models.SessionState) ([]byte, error) {
	st.Normalize()
	return json.Marshal(record{State: st, Version: SnapshotVersion})
}

// Decode parses a durable record. Records that are not JSON, do not match the
// snapshot schema, or carry wrongly typed fields are rejected. Absent fields
// take their initial values; present ones, including an empty route, are kept.
func Decode(data []byte) (models.SessionState, error) {
	if v, err := schema.Snapshot(); err == nil {
		if err := v.ValidateJSON(data); err != nil {
			return models.SessionState{}, err
		}
	}

	rec := record{State: models.NewSessionState()}
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.SessionState{}, err
	}
	rec.State.Normalize()
	return rec.State, nil
}
