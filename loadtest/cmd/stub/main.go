package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/soratobu/departure-planner/loadtest/internal/stub"
)

func main() {
	port := os.Getenv("STUB_PORT")
	if port == "" {
		port = "8090"
	}

	storage := stub.NewTaskStorage()
	handler := stub.NewHandler(storage)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/tasks", handler.HandleCreateTask)
	router.POST("/tasks/:queue", handler.HandleCreateTask)
	router.DELETE("/tasks/:id", handler.HandleDeleteTask)
	router.GET("/tasks", handler.HandleListTasks)
	router.POST("/reset", handler.HandleReset)

	slog.Info("push gateway stub listening", slog.String("port", port))

	if err := router.Run(fmt.Sprintf(":%s", port)); err != nil {
		slog.Error("stub server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
