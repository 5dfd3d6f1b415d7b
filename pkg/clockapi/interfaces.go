package clockapi

// ClockServiceFactory creates ClockService instances.
type ClockServiceFactory interface {
	// CreateClockService creates a new clock service for the given actor label.
	CreateClockService(actorLabel string) (*ClockService, error)
}

// ServerStarter starts the API server with a given configuration.
type ServerStarter interface {
	StartServer(service *ClockService, config ServerConfig) error
}

// ServerFactory creates ServerStarter instances.
type ServerFactory interface {
	CreateServerStarter() ServerStarter
}
