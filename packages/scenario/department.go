package scenario

import (
	"context"

	"github.com/orangeserver/orangeprobe/packages/core/runner"
	"github.com/orangeserver/orangeprobe/packages/fixture"
)

func init() {
	register(&Scenario{
		Name:        "department",
		Description: "department lifecycle: create, read, list, update, delete",
		Cases: []string{
			"health", "create_department", "get_department", "list_departments",
			"update_department", "get_department_after_update",
			"delete_department", "get_department_after_delete",
		},
		Run: runDepartment,
	})
}

func createDepartment(v fixture.Values) runner.Case {
	return runner.Post("create_department", "/departments", map[string]any{
		"deptCode": v.DeptCode,
		"deptName": v.DeptName,
		"remark":   "测试",
	})
}

func runDepartment(ctx context.Context, r *runner.Runner, v fixture.Values) error {
	if _, err := r.Do(ctx, health()); err != nil {
		return err
	}

	id, ok, err := r.DoCapture(ctx, createDepartment(v))
	if err != nil {
		return err
	}
	if !ok {
		r.Skip("create_department", "follow-up tests")
		return nil
	}

	r.Notef("id=%s", id)

	return r.RunCases(ctx, []runner.Case{
		runner.Get("get_department", path("/departments/%s", id)),
		runner.Get("list_departments", "/departments?page=1&size=10"),
		runner.Put("update_department", path("/departments/%s", id), map[string]any{
			"deptCode": v.DeptCode,
			"deptName": v.DeptName + "-更新",
			"remark":   "更新",
		}),
		runner.Get("get_department_after_update", path("/departments/%s", id)),
		runner.Delete("delete_department", path("/departments/%s", id)),
		runner.Get("get_department_after_delete", path("/departments/%s", id)),
	})
}
