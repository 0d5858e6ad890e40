package services

// Notifier publishes an event to a named room. Delivery is best-effort and
// at-most-once; every payload sent through it is also reachable through a
// query endpoint, so dropped events are recovered by re-fetching.
type Notifier interface {
	Emit(room, event string, payload interface{})
}

// Events pushed to connected clients.
const (
	EventNewConnectionRequest = "newConnectionRequest"
	EventConnectionAccepted   = "connectionAccepted"
	EventReceiveMessage       = "receiveMessage"
)
