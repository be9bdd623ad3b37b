package models

// Checklist holds the two externally-owned ordered key lists: the full set of
// recognized checklist keys (defines results-string column order) and the
// subset representing trackable physical activities. Nil slices on an update
// request mean "leave unchanged".
type Checklist struct {
	FullChecklist     []string `json:"fullChecklist"`
	TrackedActivities []string `json:"trackedActivities"`
}

// Clone returns an independent copy so an in-flight pipeline run keeps a
// consistent view while the store is updated concurrently.
func (c Checklist) Clone() Checklist {
	clone := Checklist{}
	if c.FullChecklist != nil {
		clone.FullChecklist = append([]string(nil), c.FullChecklist...)
	}
	if c.TrackedActivities != nil {
		clone.TrackedActivities = append([]string(nil), c.TrackedActivities...)
	}
	return clone
}
