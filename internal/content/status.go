// Package content holds the lifecycle and naming rules shared by the news
// and project variants: the status state machine, the visibility rule and
// slug derivation.  The rules live here, outside any persistence adapter,
// so they are written and tested once.
package content

// Content lifecycle statuses.  Every item starts as a draft; publishing and
// archiving are the only ways visibility changes.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// ValidStatus reports whether s is one of the enumerated status values.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// CanTransition reports whether a status change from one value to another is
// reachable through the API surface.  Transitions are forward-only with a
// published<->archived toggle: an item can always be published (including a
// re-publish from archived) or archived, but there is no unpublish back to
// draft.  Writing the current status again is a no-op, not an error.
func CanTransition(from, to string) bool {
	if !ValidStatus(from) || !ValidStatus(to) {
		return false
	}
	if from == to {
		return true
	}
	switch to {
	case StatusPublished, StatusArchived:
		return true
	}
	// to == StatusDraft with from != draft
	return false
}

// EffectiveFilter resolves the status filter for a list call.  Unprivileged
// callers are always pinned to published items no matter what they request;
// privileged callers get the filter they asked for, where the empty string
// means all statuses.
func EffectiveFilter(privileged bool, requested string) string {
	if !privileged {
		return StatusPublished
	}
	return requested
}

// VisibleTo reports whether an item with the given status may be shown to a
// caller.  Privileged callers (editors and admins) see everything; everyone
// else sees only published items.
func VisibleTo(privileged bool, status string) bool {
	return privileged || status == StatusPublished
}
