package rest

import (
	"net/http"
	"time"

	"github.com/pietervz/ipfire-tray/internal/config"
	"github.com/pietervz/ipfire-tray/internal/transport/rest/middleware"
	"github.com/pietervz/ipfire-tray/internal/transport/websocket"
)

type RouterDeps struct {
	WS         *websocket.Handler
	Auth       *AuthHandler
	Throughput *ThroughputHandler
	Telemetry  http.Handler
}

func NewRouter(cfg *config.Config, deps *RouterDeps) http.Handler {
	mux := http.NewServeMux()

	globalMw := middleware.New()
	globalMw.Use(middleware.CORS(cfg))

	userStack := middleware.New()
	userStack.Use(middleware.JWT(cfg))

	// HEALTH
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// WEBSOCKET
	mux.HandleFunc("GET /ws", deps.WS.Serve)

	// AUTH
	mux.HandleFunc("POST /auth/login", deps.Auth.Login)
	mux.Handle("POST /auth/logout", userStack.Then(http.HandlerFunc(deps.Auth.Logout)))

	// THROUGHPUT
	mux.Handle("GET /api/throughput/latest", userStack.Then(http.HandlerFunc(deps.Throughput.Latest)))
	mux.Handle("GET /api/throughput/history", userStack.Then(http.HandlerFunc(deps.Throughput.History)))

	// TELEMETRY
	mux.Handle("GET /metrics", userStack.Then(deps.Telemetry))

	return globalMw.Apply(mux)
}

func NewServer(handler http.Handler, address string) *http.Server {
	return &http.Server{
		Addr:              address,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
