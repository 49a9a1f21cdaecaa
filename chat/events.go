package chat

import "github.com/tailored-agentic-units/cradle/observability"

// Controller event types.
const (
	EventLoad            observability.EventType = "chat.load"
	EventTurnStart       observability.EventType = "chat.turn.start"
	EventTurnComplete    observability.EventType = "chat.turn.complete"
	EventTurnRejected    observability.EventType = "chat.turn.rejected"
	EventTurnAbandoned   observability.EventType = "chat.turn.abandoned"
	EventCompletionError observability.EventType = "chat.completion.error"
	EventPersistError    observability.EventType = "chat.persist.error"
)
