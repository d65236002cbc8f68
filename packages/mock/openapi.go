package mock

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// OpenAPIPath is where the sandbox serves its own description, below the prefix.
const OpenAPIPath = "/openapi.json"

func stringProp() *openapi3.Schema { return openapi3.NewStringSchema() }
func idProp() *openapi3.Schema     { return openapi3.NewInt64Schema() }
func numberProp() *openapi3.Schema { return openapi3.NewFloat64Schema() }
func nullableString() *openapi3.Schema {
	return openapi3.NewStringSchema().WithNullable()
}

// requestBodies describes the JSON body each writing route accepts.
var requestBodies = map[string]*openapi3.Schema{
	"create_department": departmentBody(),
	"update_department": departmentBody(),
	"create_location":   locationBody(),
	"update_location":   locationBody(),
	"create_assignee":   assigneeBody(),
	"update_assignee":   assigneeBody(),
	"create_asset":      assetBody(),
	"update_asset":      assetBody(),
	"assign_asset": openapi3.NewObjectSchema().
		WithProperty("assigneeId", idProp()).
		WithRequired([]string{"assigneeId"}),
}

// queryParams lists the filters of each list route besides page and size.
var queryParams = map[string][]string{
	"list_departments":        {"keyword"},
	"list_locations":          {"deptId", "keyword"},
	"list_assignees":          {"keyword"},
	"list_assets":             {"keyword", "deptId", "locationId", "assigneeId", "status"},
	"list_assets_by_assignee": {},
}

func departmentBody() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("deptCode", stringProp()).
		WithProperty("deptName", stringProp()).
		WithProperty("remark", nullableString()).
		WithRequired([]string{"deptCode", "deptName"})
}

func locationBody() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("deptId", idProp()).
		WithProperty("roomNo", stringProp()).
		WithProperty("area", numberProp()).
		WithProperty("remark", nullableString()).
		WithRequired([]string{"deptId", "roomNo", "area"})
}

func assigneeBody() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("empNo", stringProp()).
		WithProperty("name", stringProp()).
		WithProperty("phone", nullableString()).
		WithProperty("remark", nullableString()).
		WithRequired([]string{"empNo", "name"})
}

func assetBody() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("assetNo", stringProp()).
		WithProperty("assetName", stringProp()).
		WithProperty("value", numberProp()).
		WithProperty("locationId", idProp()).
		WithProperty("assigneeId", idProp().WithNullable()).
		WithProperty("remark", nullableString()).
		WithRequired([]string{"assetNo", "assetName", "value", "locationId"})
}

func envelopeSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("code", openapi3.NewInt32Schema()).
		WithProperty("msg", stringProp()).
		WithProperty("data", &openapi3.Schema{Nullable: true}).
		WithRequired([]string{"code", "msg", "data"})
}

var pathParam = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// OpenAPI describes the registered routes as an OpenAPI 3 document and
// validates it before returning.
func (s *Server) OpenAPI(ctx context.Context) (*openapi3.T, error) {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "Orange asset API (sandbox)",
			Description: "Every response is HTTP 200 with a {code, msg, data} envelope; code 0 is success.",
			Version:     "1.0.0",
		},
		Servers: openapi3.Servers{{URL: s.prefix}},
		Paths:   openapi3.NewPaths(),
	}

	envelope := openapi3.NewResponse().
		WithDescription("response envelope").
		WithJSONSchema(envelopeSchema())

	for _, route := range s.router.Routes() {
		op := openapi3.NewOperation()
		op.OperationID = route.Name
		op.Summary = strings.ReplaceAll(route.Name, "_", " ")
		op.Responses = openapi3.NewResponses(openapi3.WithStatus(200, &openapi3.ResponseRef{Value: envelope}))

		for _, m := range pathParam.FindAllStringSubmatch(route.PathPattern, -1) {
			op.AddParameter(openapi3.NewPathParameter(m[1]).WithSchema(idProp()))
		}

		if filters, ok := queryParams[route.Name]; ok {
			op.AddParameter(openapi3.NewQueryParameter("page").WithSchema(openapi3.NewInt32Schema()))
			op.AddParameter(openapi3.NewQueryParameter("size").WithSchema(openapi3.NewInt32Schema()))
			for _, name := range filters {
				schema := stringProp()
				if name != "keyword" {
					schema = openapi3.NewInt64Schema()
				}
				op.AddParameter(openapi3.NewQueryParameter(name).WithSchema(schema))
			}
		}

		if body, ok := requestBodies[route.Name]; ok {
			op.RequestBody = &openapi3.RequestBodyRef{
				Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(body),
			}
		}

		item := doc.Paths.Value(route.PathPattern)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(route.PathPattern, item)
		}
		item.SetOperation(route.Method, op)
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi document: %w", err)
	}
	return doc, nil
}
