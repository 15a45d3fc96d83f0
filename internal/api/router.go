package api

import (
	"ride-quote-service/internal/api/handlers"
	"time"

	"github.com/gin-gonic/gin"
)

// NewRouter wires HTTP handlers with their dependencies and returns the engine.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(quoter handlers.Quoter, requestTimeout time.Duration) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery(), requestID(), accessLog(), timeout(requestTimeout))

	quoteHandler := &handlers.QuoteHandler{Service: quoter}

	r.GET("/health", handlers.Health)
	r.POST("/quote", quoteHandler.Create)

	return r
}
