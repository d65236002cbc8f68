package mock

import (
	"net/http"
	"strconv"
)

// Health is the data of GET /health.
type Health struct {
	Status string `json:"status"`
}

type assignInput struct {
	AssigneeID *int64 `json:"assigneeId"`
}

func (s *Server) routes() {
	r := s.router

	r.Handle(http.MethodGet, "/health", "health", func(*Request) (any, error) {
		return Health{Status: "UP"}, nil
	})

	r.Handle(http.MethodPost, "/departments", "create_department", s.createDepartment)
	r.Handle(http.MethodGet, "/departments", "list_departments", s.listDepartments)
	r.Handle(http.MethodGet, "/departments/{id}", "get_department", s.getDepartment)
	r.Handle(http.MethodGet, "/departments/{id}/locations", "department_locations", s.departmentLocations)
	r.Handle(http.MethodPut, "/departments/{id}", "update_department", s.updateDepartment)
	r.Handle(http.MethodDelete, "/departments/{id}", "delete_department", s.deleteDepartment)

	r.Handle(http.MethodPost, "/locations", "create_location", s.createLocation)
	r.Handle(http.MethodGet, "/locations", "list_locations", s.listLocations)
	r.Handle(http.MethodGet, "/locations/{id}", "get_location", s.getLocation)
	r.Handle(http.MethodPut, "/locations/{id}", "update_location", s.updateLocation)
	r.Handle(http.MethodDelete, "/locations/{id}", "delete_location", s.deleteLocation)

	r.Handle(http.MethodPost, "/assignees", "create_assignee", s.createAssignee)
	r.Handle(http.MethodGet, "/assignees", "list_assignees", s.listAssignees)
	r.Handle(http.MethodGet, "/assignees/{id}", "get_assignee", s.getAssignee)
	r.Handle(http.MethodGet, "/assignees/{id}/assets", "list_assets_by_assignee", s.assigneeAssets)
	r.Handle(http.MethodPut, "/assignees/{id}", "update_assignee", s.updateAssignee)
	r.Handle(http.MethodDelete, "/assignees/{id}", "delete_assignee", s.deleteAssignee)

	r.Handle(http.MethodPost, "/assets", "create_asset", s.createAsset)
	r.Handle(http.MethodGet, "/assets", "list_assets", s.listAssets)
	r.Handle(http.MethodGet, "/assets/{id}", "get_asset", s.getAsset)
	r.Handle(http.MethodPost, "/assets/{id}/assign", "assign_asset", s.assignAsset)
	r.Handle(http.MethodPost, "/assets/{id}/return", "return_asset", s.returnAsset)
	r.Handle(http.MethodPut, "/assets/{id}", "update_asset", s.updateAsset)
	r.Handle(http.MethodDelete, "/assets/{id}", "delete_asset", s.deleteAsset)
}

func (s *Server) createDepartment(req *Request) (any, error) {
	var in DepartmentInput
	if err := req.Decode(&in); err != nil {
		return nil, err
	}
	return s.store.CreateDepartment(in)
}

func (s *Server) listDepartments(req *Request) (any, error) {
	page, size, err := req.Paging()
	if err != nil {
		return nil, err
	}
	return s.store.ListDepartments(req.query("keyword"), page, size), nil
}

func (s *Server) getDepartment(req *Request) (any, error) {
	id, err := req.ID()
	if err != nil {
		return nil, err
	}
	return s.store.GetDepartment(id)
}

func (s *Server) departmentLocations(req *Request) (any, error) {
	id, err := req.ID()
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetDepartment(id); err != nil {
		return nil, err
	}
	return s.store.DepartmentLocations(id), nil
}

func (s *Server) updateDepartment(req *Request) (any, error) {
	id, err := req.ID()
	if err != nil {
		return nil, err
	}
	var in DepartmentInput
	if err := req.Decode(&in); err != nil {
		return nil, err
	}
	return s.store.UpdateDepartment(id, in)
}

func (s *Server) deleteDepartment(req *Request) (any, error) {
	id, err := req.ID()
	if err != nil {
		return nil, err
	}
	return nil, s.store.DeleteDepartment(id)
}

func (s *Server) createLocation(req *Request) (any, error) {
	var in LocationInput
	if err := req.Decode(&in); err != nil {
		return nil, err
	}
	return s.store.CreateLocation(in)
}

func (s *Server) listLocations(req *Request) (any, error) {
	page, size, err := req.Paging()
	if err != nil {
		return nil, err
	}
	deptID, err := req.optionalID("deptId")
	if err != nil {
		return nil, err
	}
	return s.store.ListLocations(deptID, req.query("keyword"), page, size), nil
}

func (s *Server) getLocation(req *Request) (any, error) {
	id, err := req.ID()
	if err != nil {
		return nil, err
	}
	return s.store.GetLocation(id)
}

func (s *Server) updateLocation(req *Request) (any, error) {
	id, err := req.ID()
	if err != nil {
		return nil, err
	}
	var in LocationInput
	if err := req.Decode(&in); err != nil {
		return nil, err
	}
	return s.store.UpdateLocation(id, in)
}

func (s *Server) deleteLocation(req *Request) (any, error) {
	id, err := req.ID()
	if err != nil {
		return nil, err
	}
	return nil, s.store.DeleteLocation(id)
}

func (s *Server) createAssignee(req *Request) (any, error) {
	var in AssigneeInput
	if err := req.Decode(&in); err != nil {
		return nil, err
	}
	return s.store.CreateAssignee(in)
}

func (s *Server) listAssignees(req *Request) (any, error) {
	page, size, err := req.Paging()
	if err != nil {
		return nil, err
	}
	return s.store.ListAssignees(req.query("keyword"), page, size), nil
}

func (s *Server) getAssignee(req *Request) (any, error) {
	id, err := req.ID()
	if err != nil {
		return nil, err
	}
	return s.store.GetAssignee(id)
}

func (s *Server) assigneeAssets(req *Request) (any, error) {
	id, err := req.ID()
	if err != nil {
		return nil, err
	}
	page, size, err := req.Paging()
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetAssignee(id); err != nil {
		return nil, err
	}
	return s.store.ListAssets(AssetFilter{AssigneeID: &id}, page, size), nil
}

func (s *Server) updateAssignee(req *Request) (any, error) {
	id, err := req.ID()
	if err != nil {
		return nil, err
	}
	var in AssigneeInput
	if err := req.Decode(&in); err != nil {
		return nil, err
	}
	return s.store.UpdateAssignee(id, in)
}

func (s *Server) deleteAssignee(req *Request) (any, error) {
	id, err := req.ID()
	if err != nil {
		return nil, err
	}
	return nil, s.store.DeleteAssignee(id)
}

func (s *Server) createAsset(req *Request) (any, error) {
	var in AssetInput
	if err := req.Decode(&in); err != nil {
		return nil, err
	}
	return s.store.CreateAsset(in)
}

func (s *Server) listAssets(req *Request) (any, error) {
	page, size, err := req.Paging()
	if err != nil {
		return nil, err
	}

	f := AssetFilter{Keyword: req.query("keyword")}
	if f.DeptID, err = req.optionalID("deptId"); err != nil {
		return nil, err
	}
	if f.LocationID, err = req.optionalID("locationId"); err != nil {
		return nil, err
	}
	if f.AssigneeID, err = req.optionalID("assigneeId"); err != nil {
		return nil, err
	}
	if raw := req.query("status"); raw != "" {
		status, err := strconv.Atoi(raw)
		if err != nil {
			return nil, invalid("invalid status")
		}
		if status != StatusIdle && status != StatusAssigned {
			return nil, invalid("status must be 0 or 1")
		}
		f.Status = &status
	}

	return s.store.ListAssets(f, page, size), nil
}

func (s *Server) getAsset(req *Request) (any, error) {
	id, err := req.ID()
	if err != nil {
		return nil, err
	}
	return s.store.GetAsset(id)
}

func (s *Server) updateAsset(req *Request) (any, error) {
	id, err := req.ID()
	if err != nil {
		return nil, err
	}
	var in AssetInput
	if err := req.Decode(&in); err != nil {
		return nil, err
	}
	return s.store.UpdateAsset(id, in)
}

func (s *Server) deleteAsset(req *Request) (any, error) {
	id, err := req.ID()
	if err != nil {
		return nil, err
	}
	return nil, s.store.DeleteAsset(id)
}

func (s *Server) assignAsset(req *Request) (any, error) {
	id, err := req.ID()
	if err != nil {
		return nil, err
	}
	var in assignInput
	if err := req.Decode(&in); err != nil {
		return nil, err
	}
	return nil, s.store.AssignAsset(id, in.AssigneeID)
}

func (s *Server) returnAsset(req *Request) (any, error) {
	id, err := req.ID()
	if err != nil {
		return nil, err
	}
	return nil, s.store.ReturnAsset(id)
}
