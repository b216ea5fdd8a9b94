package entities

// Status is the result of the status predicate (spec §4.8): whether a
// live clone is safe to wipe, and if not, why.
type Status struct {
	Clean  bool
	Reason string
}

// CleanStatus constructs a clean status result.
func CleanStatus() Status {
	return Status{Clean: true}
}

// DirtyStatus constructs a dirty status result carrying a human-readable reason.
func DirtyStatus(reason string) Status {
	return Status{Clean: false, Reason: reason}
}

// EntryStatus pairs one entry's name with its status result, the unit the
// status-all aggregate reports per entry.
type EntryStatus struct {
	Name   string
	Status Status
	Err    error
}
