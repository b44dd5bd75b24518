package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is a JSON-encoded list of strings (trigger words, matched words).
// Corrupt stored payloads scan to an empty list instead of failing the read,
// so historical rows never break display.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *StringList) Scan(src interface{}) error {
	*l = StringList{}
	return scanJSON(l, src)
}

// UintList is a JSON-encoded list of row IDs (selected option IDs).
type UintList []uint

func (l UintList) Value() (driver.Value, error) {
	if l == nil {
		l = UintList{}
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *UintList) Scan(src interface{}) error {
	*l = UintList{}
	return scanJSON(l, src)
}

// OptionSnapshot freezes one option of a multiple-choice question at
// submission time, so a result stays interpretable after the question's
// options change.
type OptionSnapshot struct {
	OptionID    uint   `json:"optionId"`
	Text        string `json:"text"`
	IsCorrect   bool   `json:"isCorrect"`
	WasSelected bool   `json:"wasSelected"`
}

type OptionSnapshotList []OptionSnapshot

func (l OptionSnapshotList) Value() (driver.Value, error) {
	if l == nil {
		l = OptionSnapshotList{}
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *OptionSnapshotList) Scan(src interface{}) error {
	*l = OptionSnapshotList{}
	return scanJSON(l, src)
}

// scanJSON tolerates NULL and malformed payloads: dst keeps its zero value.
func scanJSON(dst interface{}, src interface{}) error {
	if src == nil {
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported json column type %T", src)
	}
	if len(data) == 0 {
		return nil
	}
	// Malformed history must not hard-fail reads.
	_ = json.Unmarshal(data, dst)
	return nil
}
