package events

// EventCollector queues the events an aggregate raises until the aggregate
// has been stored. The zero value is ready to use.
type EventCollector struct {
	pending []DomainEvent
}

// Raise queues event. Nil events are ignored.
func (c *EventCollector) Raise(event DomainEvent) {
	if event == nil {
		return
	}
	c.pending = append(c.pending, event)
}

// Pending reports how many events are queued.
func (c *EventCollector) Pending() int { return len(c.pending) }

// Drain hands over the queued events in the order they were raised. A second
// call returns nil until more events are raised.
func (c *EventCollector) Drain() []DomainEvent {
	drained := c.pending
	c.pending = nil
	return drained
}
