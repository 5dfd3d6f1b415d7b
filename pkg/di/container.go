// Package di provides the dependency injection container wiring the clock
// service and server factories together.
package di

import (
	"github.com/ssargent/itcclock/pkg/clockapi" //nolint:depguard
)

// Container holds all the dependencies for the application.
type Container struct {
	clockServiceFactory clockapi.ClockServiceFactory
	serverFactory       clockapi.ServerFactory
}

// NewContainer creates a new dependency injection container.
func NewContainer() *Container {
	return &Container{
		clockServiceFactory: clockapi.NewClockServiceFactory(),
		serverFactory:       clockapi.NewServerFactory(),
	}
}

// GetClockServiceFactory returns the clock service factory.
func (c *Container) GetClockServiceFactory() clockapi.ClockServiceFactory {
	return c.clockServiceFactory
}

// GetServerFactory returns the server factory.
func (c *Container) GetServerFactory() clockapi.ServerFactory {
	return c.serverFactory
}

// SetClockServiceFactory allows overriding the clock service factory (for testing).
func (c *Container) SetClockServiceFactory(factory clockapi.ClockServiceFactory) {
	c.clockServiceFactory = factory
}

// SetServerFactory allows overriding the server factory (for testing).
func (c *Container) SetServerFactory(factory clockapi.ServerFactory) {
	c.serverFactory = factory
}
