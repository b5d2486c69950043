package graph

// EventHandler is a callback registered on a node's event slot. Handlers
// run synchronously under the server lock and must return promptly.
type EventHandler func(node Node, userdata any)

// Event is a named callback slot on a node.
type Event struct {
	meta     EventMeta
	node     Node
	handler  EventHandler
	userdata any
}

func newEvent(node Node, meta EventMeta) *Event {
	return &Event{meta: meta, node: node}
}

// Name returns the event name.
func (e *Event) Name() string { return e.meta.Name }

// SetHandler installs (or, with nil, removes) the callback.
func (e *Event) SetHandler(handler EventHandler, userdata any) {
	e.handler = handler
	e.userdata = userdata
}

// Handler returns the installed callback and its userdata.
func (e *Event) Handler() (EventHandler, any) {
	return e.handler, e.userdata
}

// fire invokes the handler if one is installed. The caller holds the
// server lock.
func (e *Event) fire() {
	if e.handler != nil {
		e.handler(e.node, e.userdata)
	}
}
