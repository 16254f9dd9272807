// Package document keeps the whole HR dataset in one in-memory document and
// persists it in full after every committed write.
package document

import (
	"github.com/cmlabs-hris/hrm-api/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-api/internal/domain/master/position"
	"github.com/cmlabs-hris/hrm-api/internal/domain/project"
	"github.com/cmlabs-hris/hrm-api/internal/domain/user"
)

type Collection string

const (
	CollectionUsers     Collection = "users"
	CollectionEmployees Collection = "employees"
	CollectionProjects  Collection = "projects"
	CollectionPositions Collection = "positions"
)

// Document is the persisted shape: one array per collection.
type Document struct {
	Users     []user.User         `json:"users"`
	Employees []employee.Employee `json:"employees"`
	Projects  []project.Project   `json:"projects"`
	Positions []position.Position `json:"positions"`

	// next id per collection; rebuilt on load, never persisted
	seq map[Collection]int
}

func NewDocument() *Document {
	d := &Document{}
	d.normalize()
	return d
}

// normalize replaces nil collections with empty ones and seeds the id
// counters from the highest stored id.
func (d *Document) normalize() {
	if d.Users == nil {
		d.Users = []user.User{}
	}
	if d.Employees == nil {
		d.Employees = []employee.Employee{}
	}
	if d.Projects == nil {
		d.Projects = []project.Project{}
	}
	if d.Positions == nil {
		d.Positions = []position.Position{}
	}

	d.seq = map[Collection]int{
		CollectionUsers:     1,
		CollectionEmployees: 1,
		CollectionProjects:  1,
		CollectionPositions: 1,
	}
	for _, u := range d.Users {
		d.bump(CollectionUsers, u.ID)
	}
	for _, e := range d.Employees {
		d.bump(CollectionEmployees, e.ID)
	}
	for _, p := range d.Projects {
		d.bump(CollectionProjects, p.ID)
	}
	for _, p := range d.Positions {
		d.bump(CollectionPositions, p.ID)
	}
}

func (d *Document) bump(c Collection, id int) {
	if id >= d.seq[c] {
		d.seq[c] = id + 1
	}
}

// NextID hands out the next identifier of c. Ids of deleted records are not
// handed out again while the process runs.
func (d *Document) NextID(c Collection) int {
	if d.seq == nil {
		d.normalize()
	}
	id := d.seq[c]
	d.seq[c] = id + 1
	return id
}

// Clone returns a deep copy, counters included.
func (d *Document) Clone() *Document {
	out := &Document{
		Users:     append([]user.User(nil), d.Users...),
		Employees: make([]employee.Employee, len(d.Employees)),
		Projects:  make([]project.Project, len(d.Projects)),
		Positions: append([]position.Position(nil), d.Positions...),
		seq:       make(map[Collection]int, len(d.seq)),
	}
	if out.Users == nil {
		out.Users = []user.User{}
	}
	if out.Positions == nil {
		out.Positions = []position.Position{}
	}
	for i, e := range d.Employees {
		out.Employees[i] = e.Clone()
	}
	for i, p := range d.Projects {
		out.Projects[i] = p.Clone()
	}
	for k, v := range d.seq {
		out.seq[k] = v
	}
	return out
}
