package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/de-tools/account-ranking/pkg/models/store"
	"github.com/spf13/cast"
)

// InputFormatError reports a payload that cannot be turned into a record
// batch at all.
type InputFormatError struct {
	Reason string
	Err    error
}

func (e *InputFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid sales payload: %s: %v", e.Reason, e.Err)
	}
	return "invalid sales payload: " + e.Reason
}

func (e *InputFormatError) Unwrap() error {
	return e.Err
}

// IsInputFormatError reports whether err is, or wraps, an InputFormatError.
func IsInputFormatError(err error) bool {
	var target *InputFormatError
	return errors.As(err, &target)
}

// Read parses a payload from r.
func Read(r io.Reader) ([]store.SalesRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read sales payload: %w", err)
	}
	return Parse(data)
}

// Parse accepts a JSON array of records, an object carrying the array under
// "value", or a JSON string that encodes either of those.
func Parse(data []byte) ([]store.SalesRecord, error) {
	doc, err := decode(data)
	if err != nil {
		return nil, &InputFormatError{Reason: "not valid JSON", Err: err}
	}

	if s, ok := doc.(string); ok {
		doc, err = decode([]byte(s))
		if err != nil {
			return nil, &InputFormatError{Reason: "embedded string is not valid JSON", Err: err}
		}
	}

	if obj, ok := doc.(map[string]any); ok {
		if value, exists := obj["value"]; exists {
			doc = value
		}
	}

	items, ok := doc.([]any)
	if !ok {
		return nil, &InputFormatError{Reason: fmt.Sprintf("expected an array of records, got %s", kind(doc))}
	}

	records := make([]store.SalesRecord, 0, len(items))
	for i, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			return nil, &InputFormatError{Reason: fmt.Sprintf("record %d is %s, not an object", i, kind(item))}
		}
		records = append(records, toRecord(fields))
	}
	return records, nil
}

func decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after JSON value")
	}
	return doc, nil
}

func toRecord(fields map[string]any) store.SalesRecord {
	return store.SalesRecord{
		Account: text(fields["Account"]),
		Date:    text(fields["Date"]),
		Total:   fields["Total"],
		Profit:  fields["Profit"],
		User:    text(fields["User"]),
		Status:  text(fields["Status"]),
	}
}

func text(v any) string {
	if v == nil {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

func kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "an object"
	case []any:
		return "an array"
	case string:
		return "a string"
	case json.Number:
		return "a number"
	case bool:
		return "a boolean"
	}
	return fmt.Sprintf("%T", v)
}
