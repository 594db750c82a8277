package editor

import "github.com/inkwell-blog/inkwell/internal/model"

// CanMutate is the ownership predicate consulted before every mutating
// action. A draft that has never been persisted belongs to whoever is
// editing it; ownership is established by the creating save. An unresolved
// identity (zero value) is never authorized.
//
// This is a convenience check to avoid pointless round trips: the draft
// store independently enforces ownership on every call.
func CanMutate(actor model.UserID, owner model.UserID, persisted bool) bool {
	if actor == "" {
		return false
	}
	if !persisted {
		return true
	}
	return actor == owner
}
