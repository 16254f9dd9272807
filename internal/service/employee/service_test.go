package employee

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"strconv"
	"testing"

	"github.com/cmlabs-hris/hrm-api/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-api/internal/domain/master/position"
	"github.com/cmlabs-hris/hrm-api/internal/domain/project"
	"github.com/cmlabs-hris/hrm-api/internal/pkg/listing"
	"github.com/cmlabs-hris/hrm-api/internal/pkg/validator"
	"github.com/cmlabs-hris/hrm-api/internal/repository/document"
	projectservice "github.com/cmlabs-hris/hrm-api/internal/service/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFiles struct {
	uploaded  []string
	deleted   []string
	uploadErr error
}

func (f *fakeFiles) UploadAvatar(ctx context.Context, r io.Reader, filename string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	url := "http://localhost:3000/uploads/avatars/" + filename
	f.uploaded = append(f.uploaded, url)
	return url, nil
}

func (f *fakeFiles) DeleteByURL(ctx context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

type memFile struct{ *bytes.Reader }

func (memFile) Close() error { return nil }

func avatar(name string) (multipart.File, *multipart.FileHeader) {
	return memFile{bytes.NewReader([]byte("png"))}, &multipart.FileHeader{Filename: name}
}

type fixture struct {
	svc       employee.EmployeeService
	projects  project.ProjectService
	employees employee.EmployeeRepository
	positions position.PositionRepository
	files     *fakeFiles
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store, err := document.NewStore(context.Background(), document.NewMemoryPersister())
	require.NoError(t, err)

	employees := document.NewEmployeeRepository(store)
	projects := document.NewProjectRepository(store)
	positions := document.NewPositionRepository(store)
	files := &fakeFiles{}

	return fixture{
		svc:       NewEmployeeService(store, employees, projects, positions, files),
		projects:  projectservice.NewProjectService(store, projects, employees),
		employees: employees,
		positions: positions,
		files:     files,
	}
}

func (f fixture) create(t *testing.T, req employee.CreateEmployeeRequest) employee.Employee {
	t.Helper()
	e, err := f.svc.CreateEmployee(context.Background(), req)
	require.NoError(t, err)
	return e
}

func basic(name, code string) employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{Name: name, Code: code, Email: code + "@example.com"}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestCreateEmployee_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pos, err := f.positions.Create(ctx, position.Position{Name: "Backend Developer"})
	require.NoError(t, err)

	req := employee.CreateEmployeeRequest{
		Name: "Alice", Code: "EMP-1", Email: "alice@example.com", Phone: "+62 812-3456-7890",
		Identity: "3174000000000001", Position: validator.NewNullableInt(pos.ID),
		Skills: []employee.Skill{{Name: "Go"}}, Gender: "Female", DateOfBirth: "1990-04-01",
	}
	created := f.create(t, req)

	assert.Equal(t, 1, created.ID)
	assert.Equal(t, "", created.Avatar)
	assert.Equal(t, employee.StatusActive, created.Status)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := f.svc.GetEmployee(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got.Employee)
	assert.Nil(t, got.Manager)
	assert.Empty(t, got.Projects)
	assert.Equal(t, []employee.Skill{{Name: "Go"}}, got.Skills)
}

func TestCreateEmployee_UniquenessAcrossFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, employee.CreateEmployeeRequest{
		Name: "Alice", Code: "EMP-1", Email: "alice@example.com", Phone: "081234567890", Identity: "ID-1",
	})

	cases := []struct {
		name string
		req  employee.CreateEmployeeRequest
		want error
	}{
		{"code", employee.CreateEmployeeRequest{Name: "B", Code: "EMP-1", Email: "b@example.com"}, employee.ErrCodeExists},
		{"email", employee.CreateEmployeeRequest{Name: "B", Code: "EMP-2", Email: "ALICE@example.com"}, employee.ErrEmailExists},
		{"phone", employee.CreateEmployeeRequest{Name: "B", Code: "EMP-2", Email: "b@example.com", Phone: "081234567890"}, employee.ErrPhoneExists},
		{"identity", employee.CreateEmployeeRequest{Name: "B", Code: "EMP-2", Email: "b@example.com", Identity: "ID-1"}, employee.ErrIdentityExists},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateEmployee(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	all, err := f.employees.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateEmployee_References(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := basic("Bob", "EMP-2")
	req.Manager = validator.NewNullableInt(99)
	_, err := f.svc.CreateEmployee(ctx, req)
	assert.ErrorIs(t, err, employee.ErrInvalidManager)

	req = basic("Bob", "EMP-2")
	req.Position = validator.NewNullableInt(42)
	_, err = f.svc.CreateEmployee(ctx, req)
	assert.ErrorIs(t, err, employee.ErrInvalidPosition)

	var verrs validator.ValidationErrors
	_, err = f.svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{Email: "bad"})
	assert.True(t, errors.As(err, &verrs))
}

func TestCreateEmployee_AvatarUploadedAndDiscardedOnFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := basic("Alice", "EMP-1")
	req.File, req.FileHeader = avatar("alice.png")
	created := f.create(t, req)
	assert.Equal(t, "http://localhost:3000/uploads/avatars/alice.png", created.Avatar)
	assert.Empty(t, f.files.deleted)

	dup := basic("Alice again", "EMP-1")
	dup.File, dup.FileHeader = avatar("dup.png")
	_, err := f.svc.CreateEmployee(ctx, dup)
	require.ErrorIs(t, err, employee.ErrCodeExists)
	assert.Equal(t, []string{"http://localhost:3000/uploads/avatars/dup.png"}, f.files.deleted)

	f.files.uploadErr = errors.New("disk full")
	next := basic("Carol", "EMP-3")
	next.File, next.FileHeader = avatar("carol.png")
	_, err = f.svc.CreateEmployee(ctx, next)
	assert.Error(t, err)

	all, err := f.employees.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpdateEmployee_RevokeManagerWithSubordinates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := basic("A", "EMP-1")
	a.IsManager = true
	manager := f.create(t, a)
	assert.Equal(t, 1, manager.ID)

	b := basic("B", "EMP-2")
	b.Manager = validator.NewNullableInt(manager.ID)
	f.create(t, b)

	_, err := f.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: manager.ID, IsManager: boolPtr(false)})
	assert.ErrorIs(t, err, employee.ErrEmployeeInManager)

	stored, err := f.employees.GetByID(ctx, manager.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsManager)
}

func TestUpdateEmployee_DeactivateGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.create(t, basic("A", "EMP-1"))
	b := f.create(t, basic("B", "EMP-2"))
	c := f.create(t, basic("C", "EMP-3"))

	_, err := f.projects.CreateProject(ctx, project.CreateProjectRequest{
		Name: "Apollo", Manager: validator.NewNullableInt(a.ID),
		Employees: []project.MemberRef{{EmployeeID: b.ID}, {EmployeeID: c.ID}},
	})
	require.NoError(t, err)

	inactive := strPtr("inactive")
	_, err = f.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: a.ID, Status: inactive})
	assert.ErrorIs(t, err, employee.ErrEmployeeInProject)
	_, err = f.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: b.ID, Status: inactive})
	assert.ErrorIs(t, err, employee.ErrEmployeeInProject)

	// once B's period is closed the guard no longer applies
	refs := []project.MemberRef{{EmployeeID: c.ID}}
	_, err = f.projects.UpdateProject(ctx, project.UpdateProjectRequest{ID: 1, Employees: &refs})
	require.NoError(t, err)

	updated, err := f.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: b.ID, Status: inactive})
	require.NoError(t, err)
	assert.Equal(t, employee.StatusInactive, updated.Status)
}

func TestUpdateEmployee_WhitelistAndUniqueness(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.create(t, basic("A", "EMP-1"))
	f.create(t, basic("B", "EMP-2"))

	_, err := f.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: a.ID, Code: strPtr("EMP-2")})
	assert.ErrorIs(t, err, employee.ErrCodeExists)

	// keeping its own values is not a conflict
	updated, err := f.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: a.ID, Code: strPtr("EMP-1"), Name: strPtr("Alice")})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.Name)
	assert.Equal(t, a.Email, updated.Email)
	assert.Equal(t, a.CreatedAt, updated.CreatedAt)

	self := employee.UpdateEmployeeRequest{ID: a.ID, Manager: validator.NewNullableInt(a.ID)}
	_, err = f.svc.UpdateEmployee(ctx, self)
	assert.ErrorIs(t, err, employee.ErrInvalidManager)

	_, err = f.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: 404, Name: strPtr("x")})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestUpdateEmployee_ReplacesAvatar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := basic("A", "EMP-1")
	req.File, req.FileHeader = avatar("old.png")
	a := f.create(t, req)

	upd := employee.UpdateEmployeeRequest{ID: a.ID}
	upd.File, upd.FileHeader = avatar("new.png")
	updated, err := f.svc.UpdateEmployee(ctx, upd)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000/uploads/avatars/new.png", updated.Avatar)
	assert.Equal(t, []string{a.Avatar}, f.files.deleted)
}

func TestDeleteEmployee_IntegrityGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.create(t, basic("A", "EMP-1"))
	b := f.create(t, basic("B", "EMP-2"))

	p, err := f.projects.CreateProject(ctx, project.CreateProjectRequest{
		Name: "Apollo", Manager: validator.NewNullableInt(a.ID),
		Employees: []project.MemberRef{{EmployeeID: a.ID}},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.DeleteEmployee(ctx, a.ID), employee.ErrRequiredManager)

	_, err = f.projects.UpdateProject(ctx, project.UpdateProjectRequest{ID: p.ID, Manager: validator.NewNullableInt(b.ID)})
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.DeleteEmployee(ctx, a.ID), employee.ErrRequiredEmployee)

	refs := []project.MemberRef{{EmployeeID: b.ID}}
	_, err = f.projects.UpdateProject(ctx, project.UpdateProjectRequest{ID: p.ID, Employees: &refs})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteEmployee(ctx, a.ID))

	_, err = f.employees.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	detail, err := f.projects.GetProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, detail.Employees, 1)
	assert.Equal(t, b.ID, detail.Employees[0].ID)
	assert.Len(t, detail.Project.Employees, 1)
}

func TestDeleteEmployee_RejectedLeavesStoreUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.create(t, basic("A", "EMP-1"))
	_, err := f.projects.CreateProject(ctx, project.CreateProjectRequest{
		Name: "Apollo", Manager: validator.NewNullableInt(a.ID),
		Employees: []project.MemberRef{{EmployeeID: a.ID}},
	})
	require.NoError(t, err)

	before, err := f.projects.GetProject(ctx, 1)
	require.NoError(t, err)

	require.ErrorIs(t, f.svc.DeleteEmployee(ctx, a.ID), employee.ErrRequiredManager)

	after, err := f.projects.GetProject(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	_, err = f.employees.GetByID(ctx, a.ID)
	assert.NoError(t, err)
}

func TestDeleteEmployee_BlockedBySubordinates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.create(t, basic("A", "EMP-1"))
	b := basic("B", "EMP-2")
	b.Manager = validator.NewNullableInt(a.ID)
	f.create(t, b)

	assert.ErrorIs(t, f.svc.DeleteEmployee(ctx, a.ID), employee.ErrEmployeeInManager)
	assert.ErrorIs(t, f.svc.DeleteEmployee(ctx, 77), employee.ErrEmployeeNotFound)
}

func TestDeleteEmployee_RemovesAvatar(t *testing.T) {
	f := newFixture(t)
	req := basic("A", "EMP-1")
	req.File, req.FileHeader = avatar("a.png")
	a := f.create(t, req)

	require.NoError(t, f.svc.DeleteEmployee(context.Background(), a.ID))
	assert.Equal(t, []string{a.Avatar}, f.files.deleted)
}

func TestGetEmployee_ParticipationsAndManager(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pos, err := f.positions.Create(ctx, position.Position{Name: "QA Engineer"})
	require.NoError(t, err)

	boss := basic("Boss", "EMP-1")
	boss.IsManager = true
	m := f.create(t, boss)

	req := basic("Dev", "EMP-2")
	req.Manager = validator.NewNullableInt(m.ID)
	req.Position = validator.NewNullableInt(pos.ID)
	dev := f.create(t, req)

	_, err = f.projects.CreateProject(ctx, project.CreateProjectRequest{
		Name: "Apollo", Manager: validator.NewNullableInt(dev.ID),
		Employees: []project.MemberRef{{EmployeeID: dev.ID}},
	})
	require.NoError(t, err)
	_, err = f.projects.CreateProject(ctx, project.CreateProjectRequest{
		Name: "Gemini", Manager: validator.NewNullableInt(m.ID),
		Employees: []project.MemberRef{{EmployeeID: dev.ID}},
	})
	require.NoError(t, err)

	got, err := f.svc.GetEmployee(ctx, dev.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Manager)
	assert.Equal(t, "Boss", got.Manager.Name)

	require.Len(t, got.Projects, 2)
	assert.Equal(t, "Apollo", got.Projects[0].Name)
	assert.Equal(t, []string{"QA Engineer", project.RoleProjectManager}, got.Projects[0].Roles)
	assert.Len(t, got.Projects[0].Periods, 1)
	assert.Equal(t, []string{"QA Engineer"}, got.Projects[1].Roles)

	managerView, err := f.svc.GetEmployeeProjects(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, managerView, 1)
	assert.Equal(t, []string{project.RoleProjectManager}, managerView[0].Roles)
	assert.NotNil(t, managerView[0].Periods)
	assert.Empty(t, managerView[0].Periods)

	_, err = f.svc.GetEmployeeProjects(ctx, 404)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestListEmployees_PaginationAndFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 1; i <= 25; i++ {
		req := basic("Employee "+strconv.Itoa(i), "EMP-"+strconv.Itoa(i))
		req.IsManager = i%5 == 0
		f.create(t, req)
	}

	p := listing.DefaultParams()
	p.Page, p.Limit = 2, 10
	res, err := f.svc.ListEmployees(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 25, res.Pagination.Total)
	require.Len(t, res.Data, 10)
	assert.Equal(t, 11, res.Data[0].ID)
	assert.Equal(t, 20, res.Data[9].ID)

	p = listing.DefaultParams()
	p.Query = "emp-2"
	res, err = f.svc.ListEmployees(ctx, p)
	require.NoError(t, err)
	// EMP-2 and EMP-20..EMP-25
	assert.Equal(t, 7, res.Pagination.Total)

	p = listing.DefaultParams()
	p.Name = "employee"
	res, err = f.svc.ListEmployees(ctx, p)
	require.NoError(t, err)
	assert.Zero(t, res.Pagination.Total)

	p = listing.DefaultParams()
	p.Sort = "identity"
	_, err = f.svc.ListEmployees(ctx, p)
	assert.Error(t, err)

	managers, err := f.svc.ListManagers(ctx)
	require.NoError(t, err)
	assert.Len(t, managers, 5)
}

func TestGetEmployee_EmptySkillsStayEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := basic("Alice", "EMP-1")
	req.Skills = []employee.Skill{}
	created := f.create(t, req)

	detail, err := f.svc.GetEmployee(ctx, created.ID)
	require.NoError(t, err)
	raw, err := json.Marshal(detail)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"skills":[]`)

	res, err := f.svc.ListEmployees(ctx, listing.DefaultParams())
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.NotNil(t, res.Data[0].Skills)
}
