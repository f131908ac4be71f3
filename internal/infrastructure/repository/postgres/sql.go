package postgres

import (
	"database/sql"
	"encoding/json"
)

func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}

// emptyJSONToNull keeps jsonb columns NULL instead of storing the empty
// string, which postgres rejects as invalid json.
func emptyJSONToNull(raw []byte) json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	return json.RawMessage(raw)
}
