package scenario

import (
	"context"
	"net/url"

	"github.com/orangeserver/orangeprobe/packages/core/runner"
	"github.com/orangeserver/orangeprobe/packages/fixture"
)

func init() {
	register(&Scenario{
		Name:        "location",
		Description: "location lifecycle under a fresh department, then department cleanup",
		Cases: []string{
			"health", "create_department", "create_location", "get_location",
			"list_locations", "list_locations_filter", "update_location",
			"get_location_after_update", "delete_location",
			"get_location_after_delete", "delete_department",
		},
		Run: runLocation,
	})
}

func runLocation(ctx context.Context, r *runner.Runner, v fixture.Values) error {
	if _, err := r.Do(ctx, health()); err != nil {
		return err
	}

	deptID, ok, err := r.DoCapture(ctx, createDepartment(v))
	if err != nil {
		return err
	}
	if !ok {
		r.Skip("create_department", "follow-up tests")
		return nil
	}

	locationID, ok, err := r.DoCapture(ctx, runner.Post("create_location", "/locations", map[string]any{
		"deptId": deptID,
		"roomNo": v.RoomNo,
		"area":   60.5,
		"remark": "测试",
	}))
	if err != nil {
		return err
	}
	if !ok {
		r.Skip("create_location", "follow-up tests")
		return nil
	}

	return r.RunCases(ctx, []runner.Case{
		runner.Get("get_location", path("/locations/%s", locationID)),
		runner.Get("list_locations", "/locations?page=1&size=10"),
		runner.Get("list_locations_filter", path("/locations?deptId=%s&keyword=%s&page=1&size=10", deptID, url.QueryEscape(v.RoomNo))),
		runner.Put("update_location", path("/locations/%s", locationID), map[string]any{
			"deptId": deptID,
			"roomNo": v.RoomNo + "-更新",
			"area":   88.8,
			"remark": "更新",
		}),
		runner.Get("get_location_after_update", path("/locations/%s", locationID)),
		runner.Delete("delete_location", path("/locations/%s", locationID)),
		runner.Get("get_location_after_delete", path("/locations/%s", locationID)),
		runner.Delete("delete_department", path("/departments/%s", deptID)),
	})
}
