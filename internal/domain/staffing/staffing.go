// Package staffing tracks project membership as tenure periods.
//
// A roster is an ordered list of entries, one per employee. Each entry keeps
// every period the employee has spent on the project; at most one period is
// open (LeavingTime == nil) at a time. Membership is never overwritten: leaving
// closes the open period, rejoining appends a new one.
package staffing

import "time"

type Period struct {
	JoiningTime time.Time  `json:"joining_time"`
	LeavingTime *time.Time `json:"leaving_time"`
}

// IsOpen reports whether the period is still running.
func (p Period) IsOpen() bool {
	return p.LeavingTime == nil
}

type Entry struct {
	EmployeeID int      `json:"employeeId"`
	Periods    []Period `json:"periods"`
}

// Latest returns the most recent period, or false when the entry has none.
func (e Entry) Latest() (Period, bool) {
	if len(e.Periods) == 0 {
		return Period{}, false
	}
	return e.Periods[len(e.Periods)-1], true
}

// IsActive reports whether the entry holds an open period.
func (e Entry) IsActive() bool {
	for _, p := range e.Periods {
		if p.IsOpen() {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	out := Entry{EmployeeID: e.EmployeeID}
	if e.Periods != nil {
		out.Periods = make([]Period, len(e.Periods))
		for i, p := range e.Periods {
			out.Periods[i] = Period{JoiningTime: p.JoiningTime}
			if p.LeavingTime != nil {
				t := *p.LeavingTime
				out.Periods[i].LeavingTime = &t
			}
		}
	}
	return out
}

// CloneRoster deep copies a roster.
func CloneRoster(roster []Entry) []Entry {
	if roster == nil {
		return nil
	}
	out := make([]Entry, len(roster))
	for i, e := range roster {
		out[i] = e.Clone()
	}
	return out
}

// Reconcile diffs the desired membership against the current roster and
// returns the new roster:
//   - current members missing from desired have their open periods closed at now
//   - desired members not on the roster get a new entry with one open period
//   - desired members whose latest period is closed get a new open period
//   - desired members with an open latest period are left untouched
//
// Entries are never removed. Existing order is kept and new entries are
// appended in the order they appear in desired. The input roster is not
// modified.
func Reconcile(current []Entry, desired []int, now time.Time) []Entry {
	want := make(map[int]struct{}, len(desired))
	for _, id := range desired {
		want[id] = struct{}{}
	}

	out := CloneRoster(current)
	if out == nil {
		out = []Entry{}
	}

	seen := make(map[int]struct{}, len(out))
	for i := range out {
		e := &out[i]
		seen[e.EmployeeID] = struct{}{}

		if _, ok := want[e.EmployeeID]; !ok {
			closeOpen(e, now)
			continue
		}
		if latest, ok := e.Latest(); !ok || !latest.IsOpen() {
			e.Periods = append(e.Periods, Period{JoiningTime: now})
		}
	}

	for _, id := range desired {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, Entry{
			EmployeeID: id,
			Periods:    []Period{{JoiningTime: now}},
		})
	}
	return out
}

func closeOpen(e *Entry, now time.Time) {
	for i := range e.Periods {
		if e.Periods[i].IsOpen() {
			t := now
			e.Periods[i].LeavingTime = &t
		}
	}
}

// RemoveEmployee drops every entry of the employee from the roster. It is a
// hard removal used when the employee record itself is deleted.
func RemoveEmployee(roster []Entry, employeeID int) ([]Entry, bool) {
	out := make([]Entry, 0, len(roster))
	removed := false
	for _, e := range roster {
		if e.EmployeeID == employeeID {
			removed = true
			continue
		}
		out = append(out, e.Clone())
	}
	return out, removed
}

// Find returns the entry of the employee.
func Find(roster []Entry, employeeID int) (Entry, bool) {
	for _, e := range roster {
		if e.EmployeeID == employeeID {
			return e, true
		}
	}
	return Entry{}, false
}

// IsSoleMember reports whether the employee is the only entry on the roster,
// whatever the state of its periods.
func IsSoleMember(roster []Entry, employeeID int) bool {
	return len(roster) == 1 && roster[0].EmployeeID == employeeID
}

// HasOpenPeriod reports whether the employee is currently staffed.
func HasOpenPeriod(roster []Entry, employeeID int) bool {
	e, ok := Find(roster, employeeID)
	return ok && e.IsActive()
}

// MemberIDs lists the employee ids on the roster in roster order.
func MemberIDs(roster []Entry) []int {
	ids := make([]int, 0, len(roster))
	for _, e := range roster {
		ids = append(ids, e.EmployeeID)
	}
	return ids
}

// ActiveIDs lists the employees that currently hold an open period.
func ActiveIDs(roster []Entry) []int {
	var ids []int
	for _, e := range roster {
		if e.IsActive() {
			ids = append(ids, e.EmployeeID)
		}
	}
	return ids
}
