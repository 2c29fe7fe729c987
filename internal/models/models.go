// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// NotUpdatedYet is the editor recorded on content that was never edited.
const NotUpdatedYet = "Not updated yet"

// JSONList is a slice stored as a JSON array in a single text column.
type JSONList[T any] []T

// Value implements driver.Valuer.
func (l JSONList[T]) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]T(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *JSONList[T]) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = JSONList[T]{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("unsupported type %T for JSON list", src)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	if items == nil {
		items = []T{}
	}
	*l = items
	return nil
}
