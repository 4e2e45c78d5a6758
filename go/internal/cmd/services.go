package main

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/FaneD1/Pomadoro/go/internal/gateway"
	"github.com/FaneD1/Pomadoro/go/internal/httpapi"
	"github.com/FaneD1/Pomadoro/go/internal/metrics"
	"github.com/FaneD1/Pomadoro/go/internal/pairing"
	"github.com/FaneD1/Pomadoro/go/internal/projection"
	"github.com/FaneD1/Pomadoro/go/internal/rooms"
	"github.com/FaneD1/Pomadoro/go/internal/tasks"
	"github.com/FaneD1/Pomadoro/go/internal/timer"
	"github.com/FaneD1/Pomadoro/go/internal/users"
)

type Services struct {
	Hub       *gateway.Hub
	WSHandler *gateway.Handler
	API       *httpapi.API
	Registry  *prometheus.Registry
}

func setupServices(pool *pgxpool.Pool, cfg *Config) *Services {
	// Wire up dependency injection chain
	// Database layer → Repository layer → App layer → HTTP/realtime surface

	clock := clockwork.NewRealClock()

	roomsRepo := rooms.NewRepository(pool)
	usersRepo := users.NewRepository(pool)
	tasksRepo := tasks.NewRepository(pool)
	timerRepo := timer.NewRepository(pool)

	usersApp := users.NewApp(usersRepo)
	pairingApp := pairing.NewApp(roomsRepo, usersRepo)
	tasksApp := tasks.NewApp(tasksRepo)
	timerApp := timer.NewApp(timerRepo, tasksApp, clock)
	projectionApp := projection.NewApp(usersApp, tasksApp, timerRepo, clock)

	registry := prometheus.NewRegistry()
	hub := gateway.NewHub(projectionApp, usersApp, metrics.New(registry), cfg.connectionConfig())

	api := httpapi.NewAPI(pairingApp, usersApp, tasksApp, timerApp, projectionApp, hub, cfg.Timer.DefaultDurationSeconds)

	return &Services{
		Hub:       hub,
		WSHandler: gateway.NewHandler(hub, usersApp),
		API:       api,
		Registry:  registry,
	}
}
