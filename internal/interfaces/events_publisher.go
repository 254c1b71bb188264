package interfaces

// EventPublisher delivers committed ledger events to an external broker.
// Implementations must be safe for concurrent use.
type EventPublisher interface {
	Publish(topic string, event any) error
}
