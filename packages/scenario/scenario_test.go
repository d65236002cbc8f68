package scenario

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/orangeserver/orangeprobe/packages/core/runner"
	"github.com/orangeserver/orangeprobe/packages/fixture"
	"github.com/orangeserver/orangeprobe/packages/mock"
)

func sandbox(t *testing.T, opts ...mock.Option) *mock.Server {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return mock.NewServer(append([]mock.Option{mock.WithLogger(logger)}, opts...)...)
}

func serve(t *testing.T, h http.Handler) string {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts.URL + mock.DefaultPrefix
}

func execute(t *testing.T, name, baseURL string, timeout time.Duration) (*runner.RunResult, error) {
	t.Helper()
	s, err := Lookup(name)
	require.NoError(t, err)

	r := runner.NewRunner(&runner.Config{BaseURL: baseURL, Timeout: timeout, CheckEnvelope: true})
	return Execute(context.Background(), r, s, fixture.FromSuffix("1700000123"))
}

func names(records []*runner.Record) []string {
	out := make([]string, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Name)
	}
	return out
}

func codes(records []*runner.Record) map[string]int64 {
	out := make(map[string]int64, len(records))
	for _, rec := range records {
		out[rec.Name] = gjson.GetBytes(rec.Body, "code").Int()
	}
	return out
}

func TestScenariosAgainstSandbox(t *testing.T) {
	for _, s := range All() {
		t.Run(s.Name, func(t *testing.T) {
			baseURL := serve(t, sandbox(t).Handler())

			result, err := execute(t, s.Name, baseURL, time.Second)
			require.NoError(t, err)

			assert.Equal(t, s.Cases, names(result.Records))
			assert.Equal(t, s.Name, result.Scenario)
			assert.Len(t, result.ID, 36)
			assert.Equal(t, int64(len(s.Cases)), result.Stats.Count)

			for _, rec := range result.Records {
				assert.Equal(t, http.StatusOK, rec.Status, rec.Name)
				assert.NoError(t, rec.EnvelopeErr, rec.Name)
			}

			for name, code := range codes(result.Records) {
				if strings.HasSuffix(name, "_after_delete") {
					assert.Equal(t, int64(mock.CodeNotFound), code, name)
				} else {
					assert.Equal(t, int64(mock.CodeOK), code, name)
				}
			}
		})
	}
}

func TestDepartmentScenarioNotesID(t *testing.T) {
	baseURL := serve(t, sandbox(t).Handler())

	result, err := execute(t, "department", baseURL, time.Second)
	require.NoError(t, err)

	id := gjson.GetBytes(result.Records[1].Body, "data.id").Raw
	assert.Equal(t, []string{"id=" + id}, result.Notes)
	assert.Equal(t, "/departments/"+id, result.Records[2].Path)
}

func TestAssetScenarioUpdatesAndAssigns(t *testing.T) {
	baseURL := serve(t, sandbox(t).Handler())

	result, err := execute(t, "asset", baseURL, time.Second)
	require.NoError(t, err)

	byName := map[string]*runner.Record{}
	for _, rec := range result.Records {
		byName[rec.Name] = rec
	}

	assert.Equal(t, 9000.5, gjson.GetBytes(byName["get_asset_after_update"].Body, "data.value").Float())
	assert.Equal(t, int64(1), gjson.GetBytes(byName["list_assets_filter"].Body, "data.total").Int())
	assert.Equal(t, int64(mock.StatusAssigned), gjson.GetBytes(byName["get_asset_after_assign"].Body, "data.status").Int())
	assert.Equal(t, int64(mock.StatusIdle), gjson.GetBytes(byName["get_asset_after_return"].Body, "data.status").Int())
}

func TestMissingIDSkipsFollowUps(t *testing.T) {
	noData := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"code":5000,"msg":"server error","data":null}`)
	})

	tests := []struct {
		scenario string
		cases    []string
		note     string
	}{
		{"department", []string{"health", "create_department"}, "create_department failed, skip follow-up tests"},
		{"location", []string{"health", "create_department"}, "create_department failed, skip follow-up tests"},
		{"assignee", []string{"health", "create_assignee"}, "create_assignee failed, skip follow-up tests"},
		{"asset", []string{"health", "create_department"}, "create_department failed, skip follow-up tests"},
	}

	for _, tt := range tests {
		t.Run(tt.scenario, func(t *testing.T) {
			result, err := execute(t, tt.scenario, serve(t, noData), time.Second)
			require.NoError(t, err)
			assert.Equal(t, tt.cases, names(result.Records))
			assert.Equal(t, []string{tt.note}, result.Notes)
		})
	}
}

func TestAssetScenarioWithoutAssignee(t *testing.T) {
	api := sandbox(t).Handler()
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/assignees") {
			_, _ = io.WriteString(w, `{"code":4090,"msg":"empNo already exists","data":null}`)
			return
		}
		api.ServeHTTP(w, r)
	})

	result, err := execute(t, "asset", serve(t, h), time.Second)
	require.NoError(t, err)

	assert.Equal(t, []string{"create_assignee failed, skip assign/return tests"}, result.Notes)
	got := names(result.Records)
	assert.NotContains(t, got, "assign_asset")
	assert.NotContains(t, got, "return_asset")
	assert.NotContains(t, got, "delete_assignee")
	assert.Equal(t, "delete_department", got[len(got)-1])
	assert.Contains(t, got, "update_asset")
}

func TestTimeoutAbortsRun(t *testing.T) {
	baseURL := serve(t, sandbox(t, mock.WithDelay(300*time.Millisecond)).Handler())

	result, err := execute(t, "department", baseURL, 50*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "health")
	require.NotNil(t, result)
	assert.Empty(t, result.Records)
	assert.Equal(t, err, result.Err)
}

func TestLookup(t *testing.T) {
	s, err := Lookup(Default)
	require.NoError(t, err)
	assert.Equal(t, "asset", s.Name)

	_, err = Lookup("nope")
	assert.ErrorContains(t, err, "unknown scenario")

	assert.Equal(t, []string{"asset", "assignee", "department", "location", "smoke"}, Names())
}
