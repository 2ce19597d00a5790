package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"expense-server/timeutil"
)

// Timestamp is a time.Time that marshals as the API's fixed-offset
// "DD-MM-YYYY HH:MM:SS IST" string while being stored as a plain timestamp.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp { return Timestamp{t.UTC()} }

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(timeutil.FormatIST(t.Time))
}

func (t Timestamp) Value() (driver.Value, error) {
	return t.Time, nil
}

func (t *Timestamp) Scan(v any) error {
	switch x := v.(type) {
	case time.Time:
		t.Time = x.UTC()
		return nil
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", v)
	}
}
