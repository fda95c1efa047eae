package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// jsonValue encodes v as a JSON string. A string rather than []byte keeps
// pgx's simple protocol from sending the document as bytea.
func jsonValue(v any) (driver.Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// scanJSON decodes a JSON column into dest. NULL resets dest to its zero value.
func scanJSON[T any](value any, dest *T) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		var zero T
		*dest = zero
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into %T", value, dest)
	}
	var decoded T
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*dest = decoded
	return nil
}
