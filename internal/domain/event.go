package domain

const (
	EventNameEventReplaced     = "event.replaced"
	EventNameEventsUpdated     = "events.updated"
	EventNameRoundUpdated      = "round.updated"
	EventNameRoundDeleted      = "round.deleted"
	EventNameCategoriesUpdated = "categories.updated"
)

// EventEventReplaced is published when the loaded event is replaced
// wholesale, either by a load or a successful save.
type EventEventReplaced struct {
	Event Event
}

func (EventEventReplaced) Name() string { return EventNameEventReplaced }

type EventEventsUpdated struct {
	Events []ListEvent
}

func (EventEventsUpdated) Name() string { return EventNameEventsUpdated }

type EventRoundUpdated struct {
	Round Round
}

func (EventRoundUpdated) Name() string { return EventNameRoundUpdated }

type EventRoundDeleted struct {
	RoundID string
}

func (EventRoundDeleted) Name() string { return EventNameRoundDeleted }

type EventCategoriesUpdated struct {
	Categories []Category
}

func (EventCategoriesUpdated) Name() string { return EventNameCategoriesUpdated }
