package gateway

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Envelope keys tried, in order, when a list response is an object.
var listKeys = []string{"data", "items", "Items", "results", "tasks", "jobs", "applicants"}

// Envelope keys tried, in order, when a single record response is an object.
var itemKeys = []string{"data", "item", "Item", "recruiter", "user"}

// DecodeList accepts a bare JSON array, null, an object wrapping the list
// under one of listKeys, or a Lambda proxy response whose body is one of
// those. Any other object is an error rather than a one-item list.
func DecodeList[T any](data []byte) ([]*T, error) {
	data, envelope, err := unwrap(data)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []*T{}, nil
	}
	if envelope == nil {
		var result []*T
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, errors.Wrap(err, "decode list response")
		}
		return compact(result), nil
	}
	for _, key := range listKeys {
		if raw, ok := envelope[key]; ok {
			return DecodeList[T](raw)
		}
	}
	return nil, errors.Newf("unexpected list response: %.80s", data)
}

// DecodeOne accepts a single JSON object, an object wrapping it under one of
// itemKeys, an array (first element) or a Lambda proxy response. Null, an
// empty body or an empty array yields nil.
func DecodeOne[T any](data []byte) (*T, error) {
	data, envelope, err := unwrap(data)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	if envelope == nil {
		items, err := DecodeList[T](data)
		if err != nil || len(items) == 0 {
			return nil, err
		}
		return items[0], nil
	}
	for _, key := range itemKeys {
		if raw, ok := envelope[key]; ok && isComposite(raw) {
			return DecodeOne[T](raw)
		}
	}
	item := new(T)
	if err := json.Unmarshal(data, item); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	return item, nil
}

// unwrap strips Lambda proxy wrappers. It returns empty data for an empty
// or null payload, the data with a nil envelope for an array, and the
// decoded envelope for an object. A proxy statusCode outside 2xx becomes a
// StatusError.
func unwrap(data []byte) ([]byte, map[string]json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil, nil
	}
	switch data[0] {
	case '[':
		return data, nil, nil
	case '{':
	default:
		return nil, nil, errors.Newf("unexpected response: %.50s", data)
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, nil, errors.Wrap(err, "decode response envelope")
	}
	raw, ok := envelope["body"]
	if !ok {
		return data, envelope, nil
	}
	body := raw
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		body = []byte(text)
	}
	if code, ok := envelope["statusCode"]; ok {
		var statusCode int
		if err := json.Unmarshal(code, &statusCode); err != nil {
			return nil, nil, errors.Wrap(err, "decode proxy statusCode")
		}
		if statusCode < 200 || statusCode > 299 {
			return nil, nil, errors.WithStack(&StatusError{StatusCode: statusCode, Body: string(body)})
		}
	}
	return unwrap(body)
}

// proxyError returns the StatusError of a Lambda proxy wrapper reporting a
// non-2xx statusCode. Other payloads are not inspected.
func proxyError(data []byte) error {
	if !isComposite(data) {
		return nil
	}
	_, _, err := unwrap(data)
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return err
	}
	return nil
}

func isComposite(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && (raw[0] == '{' || raw[0] == '[')
}

func compact[T any](items []*T) []*T {
	result := items[:0]
	for _, item := range items {
		if item != nil {
			result = append(result, item)
		}
	}
	return result
}
