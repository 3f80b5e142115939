package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iliyamo/storefront/internal/model"
	"github.com/iliyamo/storefront/internal/queue"
)

// notifier publishes entity change events after a committed write. Publish
// failures are logged and never fail the write.
type notifier struct {
	events queue.Publisher
	now    func() time.Time
}

func newNotifier(events queue.Publisher) notifier {
	if events == nil {
		events = queue.NoopPublisher{}
	}
	return notifier{events: events, now: time.Now}
}

func (n notifier) changed(ctx context.Context, entity, action string, id uint64, actor *model.Principal) {
	ev := queue.EntityChangedEvent{
		Entity:     entity,
		Action:     action,
		EntityID:   id,
		OccurredAt: n.now().UTC().Format(time.RFC3339),
	}
	if actor != nil {
		ev.ActorID = actor.ID
	}
	if err := n.events.PublishEntityChanged(ctx, ev); err != nil {
		log.Warn().Err(err).Str("entity", entity).Str("action", action).Uint64("id", id).
			Msg("entity change event not published")
	}
}
