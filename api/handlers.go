package api

import (
	"time"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(svc Portfolio, settings handlerSettings, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		statusHandler:   newStatusHandler(svc, startupTime, settings.notifier),
		projectHandler:  newProjectHandler(svc, settings.pageSize, settings.maxImageBytes, settings.notifier),
		categoryHandler: newCategoryHandler(svc, settings.notifier),
	}
}
