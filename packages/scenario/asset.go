package scenario

import (
	"context"
	"net/url"

	"github.com/orangeserver/orangeprobe/packages/capture"
	"github.com/orangeserver/orangeprobe/packages/core/runner"
	"github.com/orangeserver/orangeprobe/packages/fixture"
)

func init() {
	register(&Scenario{
		Name:        "asset",
		Description: "composite lifecycle: department, location, assignee, asset, assign/return, cleanup",
		Cases: []string{
			"health", "create_department", "create_location", "create_assignee",
			"create_asset", "get_asset", "list_assets", "list_assets_filter",
			"update_asset", "get_asset_after_update", "assign_asset",
			"get_asset_after_assign", "return_asset", "get_asset_after_return",
			"delete_asset", "get_asset_after_delete", "delete_location",
			"delete_department", "delete_assignee",
		},
		Run: runAsset,
	})
}

func runAsset(ctx context.Context, r *runner.Runner, v fixture.Values) error {
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

	// The assignee only feeds assign/return; without it the asset chain still runs.
	assigneeID, hasAssignee, err := r.DoCapture(ctx, createAssignee(v))
	if err != nil {
		return err
	}
	if !hasAssignee {
		r.Skip("create_assignee", "assign/return tests")
	}

	assetID, ok, err := r.DoCapture(ctx, runner.Post("create_asset", "/assets", map[string]any{
		"assetNo":    v.AssetNo,
		"assetName":  v.AssetName,
		"value":      8000,
		"locationId": locationID,
		"assigneeId": nil,
		"remark":     "测试",
	}))
	if err != nil {
		return err
	}
	if !ok {
		r.Skip("create_asset", "follow-up tests")
		return nil
	}

	err = r.RunCases(ctx, []runner.Case{
		runner.Get("get_asset", path("/assets/%s", assetID)),
		runner.Get("list_assets", "/assets?page=1&size=10"),
		runner.Get("list_assets_filter", path("/assets?keyword=%s&deptId=%s&locationId=%s&status=0&page=1&size=10",
			url.QueryEscape(v.AssetNo), deptID, locationID)),
		runner.Put("update_asset", path("/assets/%s", assetID), map[string]any{
			"assetNo":    v.AssetNo + "-更新",
			"assetName":  v.AssetName + "-更新",
			"value":      9000.5,
			"locationId": locationID,
			"assigneeId": nil,
			"remark":     "更新",
		}),
		runner.Get("get_asset_after_update", path("/assets/%s", assetID)),
	})
	if err != nil {
		return err
	}

	if hasAssignee {
		if err := r.RunCases(ctx, assignReturnCases(assetID, assigneeID)); err != nil {
			return err
		}
	}

	cleanup := []runner.Case{
		runner.Delete("delete_asset", path("/assets/%s", assetID)),
		runner.Get("get_asset_after_delete", path("/assets/%s", assetID)),
		runner.Delete("delete_location", path("/locations/%s", locationID)),
		runner.Delete("delete_department", path("/departments/%s", deptID)),
	}
	if hasAssignee {
		cleanup = append(cleanup, runner.Delete("delete_assignee", path("/assignees/%s", assigneeID)))
	}
	return r.RunCases(ctx, cleanup)
}

func assignReturnCases(assetID, assigneeID capture.ID) []runner.Case {
	return []runner.Case{
		runner.Post("assign_asset", path("/assets/%s/assign", assetID), map[string]any{"assigneeId": assigneeID}),
		runner.Get("get_asset_after_assign", path("/assets/%s", assetID)),
		runner.Post("return_asset", path("/assets/%s/return", assetID), nil),
		runner.Get("get_asset_after_return", path("/assets/%s", assetID)),
	}
}
