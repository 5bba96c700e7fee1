// Stub booking-platform backend for load runs: seedable in-memory classes
// served as both the events API and the class-plan document.
package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/kestrelworks/studio-announce/loadtest/internal/stub"
)

func main() {
	os.Exit(run())
}

func run() int {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	port := os.Getenv("STUB_PORT")
	if port == "" {
		port = "9090"
	}

	storage := stub.NewClassStorage()
	handler := stub.NewHandler(storage)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/admin/seed", handler.HandleSeed)
	r.POST("/admin/reset", handler.HandleReset)
	r.GET("/api/studios/:slug/events", handler.HandleGetEvents)
	r.GET("/doc.txt", handler.HandleGetDocument)

	slog.Info("starting stub studio backend", slog.String("port", port))

	srv := &http.Server{Addr: ":" + port, Handler: r}
	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
	return 0
}
