package scenario

import (
	"context"

	"github.com/orangeserver/orangeprobe/packages/core/runner"
	"github.com/orangeserver/orangeprobe/packages/fixture"
)

func init() {
	register(&Scenario{
		Name:        "smoke",
		Description: "health check and a single department create, no chaining",
		Cases:       []string{"health", "create_department"},
		Run:         runSmoke,
	})
}

func runSmoke(ctx context.Context, r *runner.Runner, v fixture.Values) error {
	return r.RunCases(ctx, []runner.Case{
		health(),
		runner.Post("create_department", "/departments", map[string]any{
			"deptCode": v.DeptCode,
			"deptName": v.DeptName,
			"remark":   "测试",
		}),
	})
}
