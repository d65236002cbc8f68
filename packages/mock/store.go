package mock

import (
	"sort"
	"strings"
	"sync"
)

// Business result codes carried in the envelope's "code" field.
const (
	CodeOK         = 0
	CodeInvalid    = 4001
	CodeConflict   = 4002
	CodeNotFound   = 4004
	CodeDuplicate  = 4090
	CodeServerFail = 5000
)

// apiError is a business failure reported inside a 200 envelope.
type apiError struct {
	code int
	msg  string
}

func (e *apiError) Error() string { return e.msg }

func invalid(msg string) error   { return &apiError{CodeInvalid, msg} }
func conflict(msg string) error  { return &apiError{CodeConflict, msg} }
func notFound(msg string) error  { return &apiError{CodeNotFound, msg} }
func duplicate(msg string) error { return &apiError{CodeDuplicate, msg} }

type Department struct {
	ID       int64   `json:"id"`
	DeptCode string  `json:"deptCode"`
	DeptName string  `json:"deptName"`
	Remark   *string `json:"remark"`
}

type Location struct {
	ID       int64   `json:"id"`
	DeptID   int64   `json:"deptId"`
	DeptName string  `json:"deptName"`
	RoomNo   string  `json:"roomNo"`
	Area     float64 `json:"area"`
	Remark   *string `json:"remark"`
}

type Assignee struct {
	ID     int64   `json:"id"`
	EmpNo  string  `json:"empNo"`
	Name   string  `json:"name"`
	Phone  *string `json:"phone"`
	Remark *string `json:"remark"`
}

// Asset status values.
const (
	StatusIdle     = 0
	StatusAssigned = 1
)

type Asset struct {
	ID           int64   `json:"id"`
	AssetNo      string  `json:"assetNo"`
	AssetName    string  `json:"assetName"`
	Value        float64 `json:"value"`
	LocationID   int64   `json:"locationId"`
	RoomNo       string  `json:"roomNo"`
	DeptID       int64   `json:"deptId"`
	DeptName     string  `json:"deptName"`
	AssigneeID   *int64  `json:"assigneeId"`
	AssigneeName *string `json:"assigneeName"`
	Status       int     `json:"status"`
	Remark       *string `json:"remark"`
}

// Page is the data payload of every list endpoint.
type Page[T any] struct {
	List  []T `json:"list"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Total int `json:"total"`
}

// Store is the sandbox's in-memory state. Joined fields (deptName, roomNo,
// assigneeName) are filled in when an entity is read, never stored.
type Store struct {
	mu          sync.Mutex
	nextID      int64
	departments map[int64]*Department
	locations   map[int64]*Location
	assignees   map[int64]*Assignee
	assets      map[int64]*Asset
}

func NewStore() *Store {
	return &Store{
		departments: make(map[int64]*Department),
		locations:   make(map[int64]*Location),
		assignees:   make(map[int64]*Assignee),
		assets:      make(map[int64]*Asset),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func blankToNil(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	out := *v
	return &out
}

func contains(haystack, keyword string) bool {
	return strings.Contains(haystack, keyword)
}

func paginate[T any](items []T, page, size int) Page[T] {
	total := len(items)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	list := items[start:end]
	if list == nil {
		list = []T{}
	}
	return Page[T]{List: list, Page: page, Size: size, Total: total}
}

// newestFirst orders ids descending, matching ORDER BY id DESC.
func newestFirst[T any](m map[int64]*T, keep func(*T) bool) []int64 {
	var ids []int64
	for id, v := range m {
		if keep == nil || keep(v) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	return ids
}

// Departments

type DepartmentInput struct {
	DeptCode string  `json:"deptCode"`
	DeptName string  `json:"deptName"`
	Remark   *string `json:"remark"`
}

func (in DepartmentInput) validate() error {
	if strings.TrimSpace(in.DeptCode) == "" || strings.TrimSpace(in.DeptName) == "" {
		return invalid("deptCode and deptName are required")
	}
	return nil
}

func (s *Store) CreateDepartment(in DepartmentInput) (*Department, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.departments {
		if d.DeptCode == in.DeptCode {
			return nil, duplicate("deptCode already exists")
		}
	}

	d := &Department{ID: s.id(), DeptCode: in.DeptCode, DeptName: in.DeptName, Remark: blankToNil(in.Remark)}
	s.departments[d.ID] = d
	out := *d
	return &out, nil
}

func (s *Store) GetDepartment(id int64) (*Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.departments[id]
	if !ok {
		return nil, notFound("department not found")
	}
	out := *d
	return &out, nil
}

func (s *Store) UpdateDepartment(id int64, in DepartmentInput) (*Department, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.departments[id]
	if !ok {
		return nil, notFound("department not found")
	}
	for _, other := range s.departments {
		if other.ID != id && other.DeptCode == in.DeptCode {
			return nil, duplicate("deptCode already exists")
		}
	}

	d.DeptCode = in.DeptCode
	d.DeptName = in.DeptName
	d.Remark = blankToNil(in.Remark)
	out := *d
	return &out, nil
}

func (s *Store) DeleteDepartment(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.locations {
		if l.DeptID == id {
			return conflict("department still has locations")
		}
	}
	if _, ok := s.departments[id]; !ok {
		return notFound("department not found")
	}
	delete(s.departments, id)
	return nil
}

func (s *Store) ListDepartments(keyword string, page, size int) Page[Department] {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := newestFirst(s.departments, func(d *Department) bool {
		return keyword == "" || contains(d.DeptCode, keyword) || contains(d.DeptName, keyword)
	})
	items := make([]Department, 0, len(ids))
	for _, id := range ids {
		items = append(items, *s.departments[id])
	}
	return paginate(items, page, size)
}

// DepartmentLocation is the short form returned by /departments/{id}/locations.
type DepartmentLocation struct {
	ID     int64  `json:"id"`
	RoomNo string `json:"roomNo"`
}

func (s *Store) DepartmentLocations(deptID int64) []DepartmentLocation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []DepartmentLocation{}
	for _, id := range newestFirst(s.locations, func(l *Location) bool { return l.DeptID == deptID }) {
		out = append(out, DepartmentLocation{ID: id, RoomNo: s.locations[id].RoomNo})
	}
	return out
}

// Locations

type LocationInput struct {
	DeptID *int64   `json:"deptId"`
	RoomNo string   `json:"roomNo"`
	Area   *float64 `json:"area"`
	Remark *string  `json:"remark"`
}

func (in LocationInput) validate() error {
	if in.DeptID == nil || strings.TrimSpace(in.RoomNo) == "" || in.Area == nil {
		return invalid("deptId, roomNo and area are required")
	}
	return nil
}

func (s *Store) locationView(l *Location) Location {
	out := *l
	if d, ok := s.departments[l.DeptID]; ok {
		out.DeptName = d.DeptName
	}
	return out
}

func (s *Store) CreateLocation(in LocationInput) (*Location, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.departments[*in.DeptID]; !ok {
		return nil, notFound("department not found")
	}
	for _, l := range s.locations {
		if l.RoomNo == in.RoomNo {
			return nil, duplicate("roomNo already exists")
		}
	}

	l := &Location{ID: s.id(), DeptID: *in.DeptID, RoomNo: in.RoomNo, Area: *in.Area, Remark: blankToNil(in.Remark)}
	s.locations[l.ID] = l
	out := s.locationView(l)
	return &out, nil
}

func (s *Store) GetLocation(id int64) (*Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locations[id]
	if !ok {
		return nil, notFound("location not found")
	}
	out := s.locationView(l)
	return &out, nil
}

func (s *Store) UpdateLocation(id int64, in LocationInput) (*Location, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locations[id]
	if !ok {
		return nil, notFound("location not found")
	}
	if _, ok := s.departments[*in.DeptID]; !ok {
		return nil, notFound("department not found")
	}
	for _, other := range s.locations {
		if other.ID != id && other.RoomNo == in.RoomNo {
			return nil, duplicate("roomNo already exists")
		}
	}

	l.DeptID = *in.DeptID
	l.RoomNo = in.RoomNo
	l.Area = *in.Area
	l.Remark = blankToNil(in.Remark)
	out := s.locationView(l)
	return &out, nil
}

func (s *Store) DeleteLocation(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.assets {
		if a.LocationID == id {
			return conflict("location still has assets")
		}
	}
	if _, ok := s.locations[id]; !ok {
		return notFound("location not found")
	}
	delete(s.locations, id)
	return nil
}

func (s *Store) ListLocations(deptID *int64, keyword string, page, size int) Page[Location] {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := newestFirst(s.locations, func(l *Location) bool {
		if deptID != nil && l.DeptID != *deptID {
			return false
		}
		return keyword == "" || contains(l.RoomNo, keyword)
	})
	items := make([]Location, 0, len(ids))
	for _, id := range ids {
		items = append(items, s.locationView(s.locations[id]))
	}
	return paginate(items, page, size)
}

// Assignees

type AssigneeInput struct {
	EmpNo  string  `json:"empNo"`
	Name   string  `json:"name"`
	Phone  *string `json:"phone"`
	Remark *string `json:"remark"`
}

func (in AssigneeInput) validate() error {
	if strings.TrimSpace(in.EmpNo) == "" || strings.TrimSpace(in.Name) == "" {
		return invalid("empNo and name are required")
	}
	return nil
}

func (s *Store) CreateAssignee(in AssigneeInput) (*Assignee, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.assignees {
		if a.EmpNo == in.EmpNo {
			return nil, duplicate("empNo already exists")
		}
	}

	a := &Assignee{ID: s.id(), EmpNo: in.EmpNo, Name: in.Name, Phone: blankToNil(in.Phone), Remark: blankToNil(in.Remark)}
	s.assignees[a.ID] = a
	out := *a
	return &out, nil
}

func (s *Store) GetAssignee(id int64) (*Assignee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assignees[id]
	if !ok {
		return nil, notFound("assignee not found")
	}
	out := *a
	return &out, nil
}

func (s *Store) UpdateAssignee(id int64, in AssigneeInput) (*Assignee, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assignees[id]
	if !ok {
		return nil, notFound("assignee not found")
	}
	for _, other := range s.assignees {
		if other.ID != id && other.EmpNo == in.EmpNo {
			return nil, duplicate("empNo already exists")
		}
	}

	a.EmpNo = in.EmpNo
	a.Name = in.Name
	a.Phone = blankToNil(in.Phone)
	a.Remark = blankToNil(in.Remark)
	out := *a
	return &out, nil
}

func (s *Store) DeleteAssignee(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.assets {
		if a.AssigneeID != nil && *a.AssigneeID == id {
			return conflict("assignee still holds assets")
		}
	}
	if _, ok := s.assignees[id]; !ok {
		return notFound("assignee not found")
	}
	delete(s.assignees, id)
	return nil
}

func (s *Store) ListAssignees(keyword string, page, size int) Page[Assignee] {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := newestFirst(s.assignees, func(a *Assignee) bool {
		return keyword == "" || contains(a.EmpNo, keyword) || contains(a.Name, keyword)
	})
	items := make([]Assignee, 0, len(ids))
	for _, id := range ids {
		items = append(items, *s.assignees[id])
	}
	return paginate(items, page, size)
}

// Assets

type AssetInput struct {
	AssetNo    string   `json:"assetNo"`
	AssetName  string   `json:"assetName"`
	Value      *float64 `json:"value"`
	LocationID *int64   `json:"locationId"`
	AssigneeID *int64   `json:"assigneeId"`
	Remark     *string  `json:"remark"`
}

func (in AssetInput) validate() error {
	if strings.TrimSpace(in.AssetNo) == "" || strings.TrimSpace(in.AssetName) == "" || in.Value == nil || in.LocationID == nil {
		return invalid("assetNo, assetName, value and locationId are required")
	}
	return nil
}

// AssetFilter selects assets in ListAssets; nil fields do not filter.
type AssetFilter struct {
	Keyword    string
	DeptID     *int64
	LocationID *int64
	AssigneeID *int64
	Status     *int
}

func (s *Store) assetView(a *Asset) Asset {
	out := *a
	if l, ok := s.locations[a.LocationID]; ok {
		out.RoomNo = l.RoomNo
		out.DeptID = l.DeptID
		if d, ok := s.departments[l.DeptID]; ok {
			out.DeptName = d.DeptName
		}
	}
	if a.AssigneeID != nil {
		if ag, ok := s.assignees[*a.AssigneeID]; ok {
			name := ag.Name
			out.AssigneeName = &name
		}
	}
	return out
}

func (s *Store) checkAssetRefs(in AssetInput) error {
	if _, ok := s.locations[*in.LocationID]; !ok {
		return notFound("location or assignee not found")
	}
	if in.AssigneeID != nil {
		if _, ok := s.assignees[*in.AssigneeID]; !ok {
			return notFound("location or assignee not found")
		}
	}
	return nil
}

func statusFor(assigneeID *int64) int {
	if assigneeID == nil {
		return StatusIdle
	}
	return StatusAssigned
}

func (s *Store) CreateAsset(in AssetInput) (*Asset, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAssetRefs(in); err != nil {
		return nil, err
	}
	for _, a := range s.assets {
		if a.AssetNo == in.AssetNo {
			return nil, duplicate("assetNo already exists")
		}
	}

	a := &Asset{
		ID:         s.id(),
		AssetNo:    in.AssetNo,
		AssetName:  in.AssetName,
		Value:      *in.Value,
		LocationID: *in.LocationID,
		AssigneeID: in.AssigneeID,
		Status:     statusFor(in.AssigneeID),
		Remark:     blankToNil(in.Remark),
	}
	s.assets[a.ID] = a
	out := s.assetView(a)
	return &out, nil
}

func (s *Store) GetAsset(id int64) (*Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assets[id]
	if !ok {
		return nil, notFound("asset not found")
	}
	out := s.assetView(a)
	return &out, nil
}

func (s *Store) UpdateAsset(id int64, in AssetInput) (*Asset, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assets[id]
	if !ok {
		return nil, notFound("asset not found")
	}
	if err := s.checkAssetRefs(in); err != nil {
		return nil, err
	}
	for _, other := range s.assets {
		if other.ID != id && other.AssetNo == in.AssetNo {
			return nil, duplicate("assetNo already exists")
		}
	}

	a.AssetNo = in.AssetNo
	a.AssetName = in.AssetName
	a.Value = *in.Value
	a.LocationID = *in.LocationID
	a.AssigneeID = in.AssigneeID
	a.Status = statusFor(in.AssigneeID)
	a.Remark = blankToNil(in.Remark)
	out := s.assetView(a)
	return &out, nil
}

func (s *Store) DeleteAsset(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assets[id]; !ok {
		return notFound("asset not found")
	}
	delete(s.assets, id)
	return nil
}

func (s *Store) AssignAsset(id int64, assigneeID *int64) error {
	if assigneeID == nil {
		return invalid("assigneeId is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assets[id]
	if !ok {
		return notFound("asset not found")
	}
	if a.Status == StatusAssigned {
		return conflict("asset is already assigned")
	}
	if _, ok := s.assignees[*assigneeID]; !ok {
		return notFound("assignee not found")
	}

	holder := *assigneeID
	a.AssigneeID = &holder
	a.Status = StatusAssigned
	return nil
}

func (s *Store) ReturnAsset(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assets[id]
	if !ok {
		return notFound("asset not found")
	}
	if a.Status == StatusIdle {
		return conflict("asset is already idle")
	}

	a.AssigneeID = nil
	a.Status = StatusIdle
	return nil
}

func (s *Store) ListAssets(f AssetFilter, page, size int) Page[Asset] {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := newestFirst(s.assets, func(a *Asset) bool {
		if f.LocationID != nil && a.LocationID != *f.LocationID {
			return false
		}
		if f.AssigneeID != nil && (a.AssigneeID == nil || *a.AssigneeID != *f.AssigneeID) {
			return false
		}
		if f.Status != nil && a.Status != *f.Status {
			return false
		}
		if f.DeptID != nil {
			l, ok := s.locations[a.LocationID]
			if !ok || l.DeptID != *f.DeptID {
				return false
			}
		}
		return f.Keyword == "" || contains(a.AssetNo, f.Keyword) || contains(a.AssetName, f.Keyword)
	})
	items := make([]Asset, 0, len(ids))
	for _, id := range ids {
		items = append(items, s.assetView(s.assets[id]))
	}
	return paginate(items, page, size)
}
