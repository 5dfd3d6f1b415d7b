package clockapi

// DefaultClockServiceFactory is the default implementation of ClockServiceFactory.
type DefaultClockServiceFactory struct{}

// NewClockServiceFactory creates a new clock service factory.
func NewClockServiceFactory() ClockServiceFactory {
	return &DefaultClockServiceFactory{}
}

// CreateClockService creates a freshly seeded clock service.
func (f *DefaultClockServiceFactory) CreateClockService(actorLabel string) (*ClockService, error) {
	return NewClockService(actorLabel), nil
}

// DefaultServerFactory is the default implementation of ServerFactory.
type DefaultServerFactory struct{}

// NewServerFactory creates a new server factory.
func NewServerFactory() ServerFactory {
	return &DefaultServerFactory{}
}

// CreateServerStarter creates a server starter.
func (f *DefaultServerFactory) CreateServerStarter() ServerStarter {
	return &DefaultServerStarter{}
}

// DefaultServerStarter is the default implementation of ServerStarter.
type DefaultServerStarter struct{}

// StartServer starts the clock API server with the given configuration.
func (s *DefaultServerStarter) StartServer(service *ClockService, config ServerConfig) error {
	return StartServer(service, config)
}
