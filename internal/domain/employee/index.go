package employee

// Index is a read-only lookup of employees by id, built once per request.
type Index map[int]Employee

func NewIndex(all []Employee) Index {
	ix := make(Index, len(all))
	for _, e := range all {
		ix[e.ID] = e
	}
	return ix
}

func (ix Index) Lookup(id int) (Employee, bool) {
	e, ok := ix[id]
	return e, ok
}

// ResolveOrOmit resolves a nullable employee reference. A reference to an
// employee that no longer exists resolves to nil, the same as no reference:
// presentation views drop dangling ids instead of failing.
func (ix Index) ResolveOrOmit(id *int) *Employee {
	if id == nil {
		return nil
	}
	e, ok := ix[*id]
	if !ok {
		return nil
	}
	return &e
}
