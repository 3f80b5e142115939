// Package queue defines message payloads exchanged over the message broker
// and the publisher and consumer for them.
package queue

// Entity change actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// EntityChangedEvent is published after a write to users, products or
// categories has been committed and the cache invalidated. ActorID is zero
// for self-registration.
type EntityChangedEvent struct {
	Entity     string `json:"entity"`
	Action     string `json:"action"`
	EntityID   uint64 `json:"entity_id"`
	ActorID    uint64 `json:"actor_id"`
	OccurredAt string `json:"occurred_at"`
}
