// Package queue defines the content-event stream exchanged over the message
// broker.  An event is emitted whenever a content item's lifecycle changes,
// giving downstream consumers (audit log, site rebuild hooks, notifications)
// enough to act without querying the primary database.
package queue

// Lifecycle actions carried by ContentEvent.
const (
	ActionCreated   = "created"
	ActionPublished = "published"
	ActionArchived  = "archived"
	ActionDeleted   = "deleted"
)

// Content variants carried by ContentEvent.
const (
	VariantNews    = "news"
	VariantProject = "project"
)

// contentQueueName is the durable queue both publisher and consumer declare.
const contentQueueName = "content.events"

// ContentEvent describes one lifecycle change of a news article or project.
type ContentEvent struct {
	Variant    string `json:"variant"`
	Action     string `json:"action"`
	ItemID     uint64 `json:"item_id"`
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	ActorID    uint64 `json:"actor_id"`
	OccurredAt string `json:"occurred_at"`
}
