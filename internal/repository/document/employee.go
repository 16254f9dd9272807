package document

import (
	"context"
	"slices"

	"github.com/cmlabs-hris/hrm-api/internal/domain/employee"
)

type employeeRepositoryImpl struct {
	store *Store
}

func NewEmployeeRepository(store *Store) employee.EmployeeRepository {
	return &employeeRepositoryImpl{store: store}
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id int) (employee.Employee, error) {
	var found employee.Employee
	err := r.store.View(ctx, func(doc *Document) error {
		i := indexOfEmployee(doc, id)
		if i < 0 {
			return employee.ErrEmployeeNotFound
		}
		found = doc.Employees[i].Clone()
		return nil
	})
	return found, err
}

func (r *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	err := r.store.View(ctx, func(doc *Document) error {
		out = make([]employee.Employee, len(doc.Employees))
		for i, e := range doc.Employees {
			out[i] = e.Clone()
		}
		return nil
	})
	return out, err
}

// Create assigns the next employee id. Timestamps are the caller's.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	err := r.store.update(ctx, func(doc *Document) error {
		newEmployee.ID = doc.NextID(CollectionEmployees)
		doc.Employees = append(doc.Employees, newEmployee.Clone())
		return nil
	})
	if err != nil {
		return employee.Employee{}, err
	}
	return newEmployee, nil
}

func (r *employeeRepositoryImpl) Update(ctx context.Context, updated employee.Employee) (employee.Employee, error) {
	err := r.store.update(ctx, func(doc *Document) error {
		i := indexOfEmployee(doc, updated.ID)
		if i < 0 {
			return employee.ErrEmployeeNotFound
		}
		doc.Employees[i] = updated.Clone()
		return nil
	})
	if err != nil {
		return employee.Employee{}, err
	}
	return updated, nil
}

func (r *employeeRepositoryImpl) Delete(ctx context.Context, id int) error {
	return r.store.update(ctx, func(doc *Document) error {
		i := indexOfEmployee(doc, id)
		if i < 0 {
			return employee.ErrEmployeeNotFound
		}
		doc.Employees = slices.Delete(doc.Employees, i, i+1)
		return nil
	})
}

func indexOfEmployee(doc *Document, id int) int {
	return slices.IndexFunc(doc.Employees, func(e employee.Employee) bool { return e.ID == id })
}
