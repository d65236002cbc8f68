package mock

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAPI_DescribesEveryRoute(t *testing.T) {
	s := NewServer()

	doc, err := s.OpenAPI(context.Background())
	require.NoError(t, err)

	assert.Equal(t, DefaultPrefix, doc.Servers[0].URL)
	for _, route := range s.GetRoutes() {
		item := doc.Paths.Value(route.PathPattern)
		require.NotNil(t, item, route.PathPattern)
		op := item.GetOperation(route.Method)
		require.NotNil(t, op, route.Method+" "+route.PathPattern)
		assert.Equal(t, route.Name, op.OperationID)
	}

	assign := doc.Paths.Value("/assets/{id}/assign").Post
	require.NotNil(t, assign.RequestBody)
	assert.NotNil(t, assign.Parameters.GetByInAndName(openapi3.ParameterInPath, "id"))

	list := doc.Paths.Value("/assets").Get
	assert.NotNil(t, list.Parameters.GetByInAndName(openapi3.ParameterInQuery, "status"))
	assert.NotNil(t, list.Parameters.GetByInAndName(openapi3.ParameterInQuery, "page"))
}

func TestOpenAPI_Served(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + DefaultPrefix + OpenAPIPath)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	doc, err := openapi3.NewLoader().LoadFromData(raw)
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))
	assert.NotNil(t, doc.Paths.Value("/departments/{id}/locations"))
}
