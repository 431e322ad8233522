package core

import (
	"github.com/aretw0/introspection"
)

// brokerComponent lets stores embed the broker state in their own reports.
type brokerComponent struct{ *Broker }

// Introspect wraps b so it satisfies introspection.Introspectable.
func Introspect(b *Broker) introspection.Introspectable {
	return brokerComponent{b}
}

// State implements introspection.Introspectable.
func (c brokerComponent) State() any {
	return c.Broker.State()
}

// ComponentType implements introspection.Component.
func (c brokerComponent) ComponentType() string {
	return "broker"
}

var _ introspection.Introspectable = brokerComponent{}
var _ introspection.Component = brokerComponent{}
