package capture

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractID(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{
			name:   "integer id",
			body:   `{"data": {"id": 42, "deptCode": "D1"}}`,
			want:   "42",
			wantOK: true,
		},
		{
			name:   "string id",
			body:   `{"code": 0, "msg": "ok", "data": {"id": "a-17"}}`,
			want:   "a-17",
			wantOK: true,
		},
		{
			name:   "large integer kept verbatim",
			body:   `{"data": {"id": 9007199254740993}}`,
			want:   "9007199254740993",
			wantOK: true,
		},
		{name: "data null", body: `{"data": null}`},
		{name: "data is a list", body: `{"data": [{"id": 1}]}`},
		{name: "id missing", body: `{"data": {"deptCode": "D1"}}`},
		{name: "id null", body: `{"data": {"id": null}}`},
		{name: "no data field", body: `{"code": 4001, "msg": "bad"}`},
		{name: "invalid json", body: `<html>500</html>`},
		{name: "empty body", body: ``},
		{name: "truncated json", body: `{"data": {"id": 4`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractID([]byte(tt.body))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, id.String())
			}
		})
	}
}

func TestID_MarshalJSON(t *testing.T) {
	t.Run("numeric id stays numeric", func(t *testing.T) {
		id, ok := ExtractID([]byte(`{"data": {"id": 7}}`))
		require.True(t, ok)

		out, err := json.Marshal(map[string]any{"deptId": id})
		require.NoError(t, err)
		assert.JSONEq(t, `{"deptId": 7}`, string(out))
	})

	t.Run("string id stays a string", func(t *testing.T) {
		id, ok := ExtractID([]byte(`{"data": {"id": "x7"}}`))
		require.True(t, ok)

		out, err := json.Marshal(map[string]any{"deptId": id})
		require.NoError(t, err)
		assert.JSONEq(t, `{"deptId": "x7"}`, string(out))
	})

	t.Run("zero value marshals as null", func(t *testing.T) {
		out, err := json.Marshal(ID{})
		require.NoError(t, err)
		assert.Equal(t, "null", string(out))
	})
}

func TestID_Value(t *testing.T) {
	id, ok := ExtractID([]byte(`{"data": {"id": 42}}`))
	require.True(t, ok)
	assert.Equal(t, float64(42), id.Value())
}

func TestExtract(t *testing.T) {
	body := []byte(`{"data": {"status": "UP"}}`)

	v, ok := Extract(body, "data", "status")
	require.True(t, ok)
	assert.Equal(t, "UP", v.String())

	_, ok = Extract(body, "data", "id")
	assert.False(t, ok)
}

func TestCheckEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "ok envelope", body: `{ "code": 0, "msg": "ok", "data": { "id": 1 } }`},
		{name: "null data", body: `{ "code": 4004, "msg": "not found", "data": null }`},
		{name: "missing data", body: `{ "code": 0, "msg": "ok" }`, wantErr: true},
		{name: "code not integer", body: `{ "code": "0", "msg": "ok", "data": null }`, wantErr: true},
		{name: "not json", body: `Internal Server Error`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckEnvelope([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
