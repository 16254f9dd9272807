package employee

import "strings"

// CheckUnique verifies that code, email, phone and identity of candidate do
// not collide with any other employee. Records with id excludeID are skipped
// so an update can keep its own values. Empty values are not compared.
func CheckUnique(all []Employee, candidate Employee, excludeID int) error {
	for _, e := range all {
		if e.ID == excludeID {
			continue
		}
		switch {
		case sameValue(e.Code, candidate.Code):
			return ErrCodeExists
		case candidate.Email != "" && strings.EqualFold(e.Email, candidate.Email):
			return ErrEmailExists
		case sameValue(e.Phone, candidate.Phone):
			return ErrPhoneExists
		case sameValue(e.Identity, candidate.Identity):
			return ErrIdentityExists
		}
	}
	return nil
}

func sameValue(existing, candidate string) bool {
	return candidate != "" && existing == candidate
}

// HasSubordinates reports whether any other employee names id as manager.
func HasSubordinates(all []Employee, id int) bool {
	for _, e := range all {
		if e.ID != id && e.ReportsTo(id) {
			return true
		}
	}
	return false
}

// Managers returns the employees flagged is_manager.
func Managers(all []Employee) []Employee {
	out := make([]Employee, 0)
	for _, e := range all {
		if e.IsManager {
			out = append(out, e)
		}
	}
	return out
}
