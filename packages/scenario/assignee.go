package scenario

import (
	"context"
	"net/url"

	"github.com/orangeserver/orangeprobe/packages/core/runner"
	"github.com/orangeserver/orangeprobe/packages/fixture"
)

func init() {
	register(&Scenario{
		Name:        "assignee",
		Description: "assignee lifecycle including the assignee's asset listing",
		Cases: []string{
			"health", "create_assignee", "get_assignee", "list_assignees",
			"list_assignees_filter", "update_assignee", "get_assignee_after_update",
			"list_assets_by_assignee", "delete_assignee", "get_assignee_after_delete",
		},
		Run: runAssignee,
	})
}

func createAssignee(v fixture.Values) runner.Case {
	return runner.Post("create_assignee", "/assignees", map[string]any{
		"empNo":  v.EmpNo,
		"name":   v.EmpName,
		"phone":  "13800000000",
		"remark": "测试",
	})
}

func runAssignee(ctx context.Context, r *runner.Runner, v fixture.Values) error {
	if _, err := r.Do(ctx, health()); err != nil {
		return err
	}

	id, ok, err := r.DoCapture(ctx, createAssignee(v))
	if err != nil {
		return err
	}
	if !ok {
		r.Skip("create_assignee", "follow-up tests")
		return nil
	}

	return r.RunCases(ctx, []runner.Case{
		runner.Get("get_assignee", path("/assignees/%s", id)),
		runner.Get("list_assignees", "/assignees?page=1&size=10"),
		runner.Get("list_assignees_filter", path("/assignees?keyword=%s&page=1&size=10", url.QueryEscape(v.EmpNo))),
		runner.Put("update_assignee", path("/assignees/%s", id), map[string]any{
			"empNo":  v.EmpNo,
			"name":   v.EmpName + "-更新",
			"phone":  "",
			"remark": "更新",
		}),
		runner.Get("get_assignee_after_update", path("/assignees/%s", id)),
		runner.Get("list_assets_by_assignee", path("/assignees/%s/assets?page=1&size=10", id)),
		runner.Delete("delete_assignee", path("/assignees/%s", id)),
		runner.Get("get_assignee_after_delete", path("/assignees/%s", id)),
	})
}
