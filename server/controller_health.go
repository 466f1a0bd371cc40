package server

import "github.com/goliatone/go-router"

func RegisterHealthRoutes[T any](app router.Router[T]) {
	app.Get("/health", HealthCheck)
}

// HealthCheck reports the service is up
func HealthCheck(ctx router.Context) error {
	return ctx.JSON(router.StatusOK, Detail{Detail: "OK"})
}
