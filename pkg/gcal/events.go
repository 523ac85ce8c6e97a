package gcal

// Upsert returns the list with ev replacing the entry that has the same id,
// or prepended when no entry matches. Events without an id are always
// prepended. The input slice is not modified. Applying the same event twice
// leaves the list unchanged after the first application.
func Upsert(list []Event, ev Event) []Event {
	if ev.ID != "" {
		for i, existing := range list {
			if existing.ID == ev.ID {
				out := make([]Event, len(list))
				copy(out, list)
				out[i] = ev
				return out
			}
		}
	}
	out := make([]Event, 0, len(list)+1)
	out = append(out, ev)
	return append(out, list...)
}

// Remove returns the list without the event carrying the given id, preserving
// the order of the rest. The input slice is not modified.
func Remove(list []Event, id string) []Event {
	out := make([]Event, 0, len(list))
	for _, ev := range list {
		if ev.ID != id {
			out = append(out, ev)
		}
	}
	return out
}
