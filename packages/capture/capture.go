package capture

import (
	"github.com/tidwall/gjson"
)

// ID is an identifier taken from a response's data.id. It keeps the raw JSON
// token so it is written back into paths and payloads exactly as received.
type ID struct {
	result gjson.Result
}

// String renders the id for use in a path: strings unquoted, everything else
// as its raw JSON text.
func (id ID) String() string {
	if id.result.Type == gjson.String {
		return id.result.Str
	}
	return id.result.Raw
}

// MarshalJSON writes the original JSON token, so a numeric id stays numeric
// and a string id stays a string.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.result.Raw == "" {
		return []byte("null"), nil
	}
	return []byte(id.result.Raw), nil
}

// Value returns the id as a plain Go value (float64, string, ...).
func (id ID) Value() any {
	return id.result.Value()
}

// ExtractID parses body as JSON and returns data.id. It reports false when
// the body is not JSON, data is not an object, or id is absent or null.
func ExtractID(body []byte) (ID, bool) {
	return Extract(body, "data", "id")
}

// Extract returns field from the object found at objectPath. Like ExtractID
// it never fails loudly; anything unexpected yields false.
func Extract(body []byte, objectPath, field string) (ID, bool) {
	if !gjson.ValidBytes(body) {
		return ID{}, false
	}

	obj := gjson.GetBytes(body, objectPath)
	if !obj.IsObject() {
		return ID{}, false
	}

	value := obj.Get(field)
	if !value.Exists() || value.Type == gjson.Null {
		return ID{}, false
	}
	return ID{result: value}, true
}
