package capture

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// envelopeSchema describes the wrapper every Orange API response uses.
const envelopeSchema = `{
  "type": "object",
  "required": ["code", "msg", "data"],
  "properties": {
    "code": { "type": "integer" },
    "msg":  { "type": "string" },
    "data": {}
  }
}`

var envelopeLoader = gojsonschema.NewStringLoader(envelopeSchema)

// CheckEnvelope validates body against the response envelope schema. It is
// informational: callers report the result but never change control flow on it.
func CheckEnvelope(body []byte) error {
	result, err := gojsonschema.Validate(envelopeLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("envelope check: %w", err)
	}

	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("envelope check failed: %s", strings.Join(problems, "; "))
}
