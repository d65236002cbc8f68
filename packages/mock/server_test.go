package mock

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s := NewServer(append([]Option{WithLogger(logger)}, opts...)...)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func call(t *testing.T, ts *httptest.Server, method, path string, payload any) (int, gjson.Result) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, ts.URL+DefaultPrefix+path, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, gjson.ParseBytes(raw)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	status, env := call(t, ts, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(0), env.Get("code").Int())
	assert.Equal(t, "ok", env.Get("msg").String())
	assert.Equal(t, "UP", env.Get("data.status").String())
}

func TestDepartmentLifecycle(t *testing.T) {
	ts := newTestServer(t)

	_, env := call(t, ts, http.MethodPost, "/departments", map[string]any{
		"deptCode": "D123456", "deptName": "行政部3456", "remark": "初始",
	})
	require.Equal(t, int64(CodeOK), env.Get("code").Int())
	id := env.Get("data.id").Int()
	require.Positive(t, id)
	assert.Equal(t, "初始", env.Get("data.remark").String())

	_, env = call(t, ts, http.MethodPost, "/departments", map[string]any{
		"deptCode": "D123456", "deptName": "重复",
	})
	assert.Equal(t, int64(CodeDuplicate), env.Get("code").Int())

	_, env = call(t, ts, http.MethodGet, "/departments?keyword=3456&page=1&size=10", nil)
	assert.Equal(t, int64(1), env.Get("data.total").Int())
	assert.Equal(t, id, env.Get("data.list.0.id").Int())

	_, env = call(t, ts, http.MethodPut, "/departments/"+itoa(id), map[string]any{
		"deptCode": "D123456", "deptName": "行政部3456-改", "remark": "更新",
	})
	assert.Equal(t, "行政部3456-改", env.Get("data.deptName").String())

	_, env = call(t, ts, http.MethodDelete, "/departments/"+itoa(id), nil)
	assert.Equal(t, int64(CodeOK), env.Get("code").Int())
	assert.Equal(t, gjson.Null, env.Get("data").Type)

	_, env = call(t, ts, http.MethodGet, "/departments/"+itoa(id), nil)
	assert.Equal(t, int64(CodeNotFound), env.Get("code").Int())
	assert.Equal(t, gjson.Null, env.Get("data").Type)
}

func TestValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name    string
		method  string
		path    string
		payload any
		code    int
	}{
		{name: "missing fields", method: http.MethodPost, path: "/departments", payload: map[string]any{"deptCode": "D1"}, code: CodeInvalid},
		{name: "no body", method: http.MethodPost, path: "/departments", code: CodeInvalid},
		{name: "non numeric id", method: http.MethodGet, path: "/departments/abc", code: CodeInvalid},
		{name: "zero page", method: http.MethodGet, path: "/departments?page=0", code: CodeInvalid},
		{name: "bad size", method: http.MethodGet, path: "/assets?size=x", code: CodeInvalid},
		{name: "status out of range", method: http.MethodGet, path: "/assets?status=2", code: CodeInvalid},
		{name: "bad dept filter", method: http.MethodGet, path: "/locations?deptId=x", code: CodeInvalid},
		{name: "location for missing dept", method: http.MethodPost, path: "/locations", payload: map[string]any{"deptId": 99, "roomNo": "A-1", "area": 1.5}, code: CodeNotFound},
		{name: "assign without assignee", method: http.MethodPost, path: "/assets/1/assign", payload: map[string]any{}, code: CodeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := call(t, ts, tt.method, tt.path, tt.payload)
			assert.Equal(t, http.StatusOK, status)
			assert.Equal(t, int64(tt.code), env.Get("code").Int())
		})
	}
}

func TestAssetAssignReturn(t *testing.T) {
	ts := newTestServer(t)

	_, env := call(t, ts, http.MethodPost, "/departments", map[string]any{"deptCode": "D1", "deptName": "行政部"})
	deptID := env.Get("data.id").Int()
	_, env = call(t, ts, http.MethodPost, "/locations", map[string]any{"deptId": deptID, "roomNo": "A-101", "area": 60.5})
	locID := env.Get("data.id").Int()
	assert.Equal(t, "行政部", env.Get("data.deptName").String())
	_, env = call(t, ts, http.MethodPost, "/assignees", map[string]any{"empNo": "E1", "name": "员工", "phone": "13800000000"})
	assigneeID := env.Get("data.id").Int()

	_, env = call(t, ts, http.MethodPost, "/assets", map[string]any{
		"assetNo": "AS1", "assetName": "笔记本", "value": 8000, "locationId": locID, "assigneeId": nil,
	})
	require.Equal(t, int64(CodeOK), env.Get("code").Int())
	assetID := env.Get("data.id").Int()
	assert.Equal(t, int64(StatusIdle), env.Get("data.status").Int())
	assert.Equal(t, "A-101", env.Get("data.roomNo").String())
	assert.Equal(t, deptID, env.Get("data.deptId").Int())

	_, env = call(t, ts, http.MethodPost, "/assets/"+itoa(assetID)+"/return", nil)
	assert.Equal(t, int64(CodeConflict), env.Get("code").Int(), "returning an idle asset")

	_, env = call(t, ts, http.MethodPost, "/assets/"+itoa(assetID)+"/assign", map[string]any{"assigneeId": assigneeID})
	assert.Equal(t, int64(CodeOK), env.Get("code").Int())
	assert.Equal(t, gjson.Null, env.Get("data").Type)

	_, env = call(t, ts, http.MethodPost, "/assets/"+itoa(assetID)+"/assign", map[string]any{"assigneeId": assigneeID})
	assert.Equal(t, int64(CodeConflict), env.Get("code").Int(), "assigning twice")

	_, env = call(t, ts, http.MethodGet, "/assets/"+itoa(assetID), nil)
	assert.Equal(t, int64(StatusAssigned), env.Get("data.status").Int())
	assert.Equal(t, "员工", env.Get("data.assigneeName").String())

	_, env = call(t, ts, http.MethodGet, "/assignees/"+itoa(assigneeID)+"/assets?page=1&size=10", nil)
	assert.Equal(t, int64(1), env.Get("data.total").Int())

	_, env = call(t, ts, http.MethodDelete, "/assignees/"+itoa(assigneeID), nil)
	assert.Equal(t, int64(CodeConflict), env.Get("code").Int(), "assignee still holds the asset")

	_, env = call(t, ts, http.MethodGet, "/assets?status=1&deptId="+itoa(deptID), nil)
	assert.Equal(t, int64(1), env.Get("data.total").Int())

	_, env = call(t, ts, http.MethodPost, "/assets/"+itoa(assetID)+"/return", nil)
	assert.Equal(t, int64(CodeOK), env.Get("code").Int())

	_, env = call(t, ts, http.MethodGet, "/assets/"+itoa(assetID), nil)
	assert.Equal(t, int64(StatusIdle), env.Get("data.status").Int())
	assert.Equal(t, gjson.Null, env.Get("data.assigneeId").Type)

	_, env = call(t, ts, http.MethodDelete, "/locations/"+itoa(locID), nil)
	assert.Equal(t, int64(CodeConflict), env.Get("code").Int(), "location still has the asset")
	_, env = call(t, ts, http.MethodDelete, "/departments/"+itoa(deptID), nil)
	assert.Equal(t, int64(CodeConflict), env.Get("code").Int(), "department still has the location")

	_, env = call(t, ts, http.MethodGet, "/departments/"+itoa(deptID)+"/locations", nil)
	assert.Equal(t, "A-101", env.Get("data.0.roomNo").String())
}

func TestListOrderingAndPaging(t *testing.T) {
	ts := newTestServer(t)

	for _, code := range []string{"D1", "D2", "D3"} {
		call(t, ts, http.MethodPost, "/departments", map[string]any{"deptCode": code, "deptName": "部门" + code})
	}

	_, env := call(t, ts, http.MethodGet, "/departments?page=1&size=2", nil)
	assert.Equal(t, int64(3), env.Get("data.total").Int())
	assert.Equal(t, []string{"D3", "D2"}, toStrings(env.Get("data.list.#.deptCode").Array()))

	_, env = call(t, ts, http.MethodGet, "/departments?page=2&size=2", nil)
	assert.Equal(t, []string{"D1"}, toStrings(env.Get("data.list.#.deptCode").Array()))

	_, env = call(t, ts, http.MethodGet, "/departments?page=5&size=2", nil)
	assert.True(t, env.Get("data.list").IsArray())
	assert.Empty(t, env.Get("data.list").Array())
}

func TestUnknownPath(t *testing.T) {
	ts := newTestServer(t)

	status, env := call(t, ts, http.MethodGet, "/nothing", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, int64(CodeNotFound), env.Get("code").Int())

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "outside the prefix")
}

func TestWithPrefix(t *testing.T) {
	ts := newTestServer(t, WithPrefix("/api/"))

	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWithDelay(t *testing.T) {
	ts := newTestServer(t, WithDelay(50*time.Millisecond))

	start := time.Now()
	call(t, ts, http.MethodGet, "/health", nil)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestRouterMatch(t *testing.T) {
	r := NewRouter()
	r.Handle(http.MethodPost, "/assets/{id}/assign", "assign", nil)
	r.Handle(http.MethodGet, "/assets/{id}", "get", nil)

	route, params := r.Match("POST", "/assets/12/assign/")
	require.NotNil(t, route)
	assert.Equal(t, "assign", route.Name)
	assert.Equal(t, map[string]string{"id": "12"}, params)

	route, _ = r.Match("GET", "/assets/12/assign")
	assert.Nil(t, route)

	route, params = r.Match("get", "assets/7")
	require.NotNil(t, route)
	assert.Equal(t, "7", params["id"])
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func toStrings(results []gjson.Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.String())
	}
	return out
}
