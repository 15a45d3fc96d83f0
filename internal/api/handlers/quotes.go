package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"ride-quote-service/internal/api/dto"
	"ride-quote-service/internal/domain"
	"ride-quote-service/internal/platform/obs"
	"ride-quote-service/internal/services"
	"strings"

	"github.com/gin-gonic/gin"
)

type Quoter interface {
	Quote(ctx context.Context, req services.QuoteRequest) (*domain.QuoteResult, error)
}

type QuoteHandler struct {
	Service Quoter
}

// Create handles POST /quote with a form or JSON body.
func (h *QuoteHandler) Create(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, http.StatusBadRequest, "origin and destination are required")
		return
	}

	if strings.TrimSpace(req.Origin) == "" || strings.TrimSpace(req.Destination) == "" {
		writeError(c, http.StatusBadRequest, "origin and destination are required")
		return
	}

	ctx := c.Request.Context()
	res, err := h.Service.Quote(ctx, services.QuoteRequest{
		Origin:      req.Origin,
		Destination: req.Destination,
		DistanceKm:  string(req.DistanceKm),
	})
	if errors.Is(err, domain.ErrMissingAddress) {
		writeError(c, http.StatusBadRequest, "origin and destination are required")
		return
	}
	if err != nil {
		log.Printf("req_id=%s quote failed: %v", obs.RequestID(ctx), err)
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, dto.QuoteResponse{
		Origin:         res.Origin,
		Destination:    res.Destination,
		DistanceKm:     res.DistanceKm,
		DurationMin:    res.DurationMin,
		Price:          res.Price,
		Currency:       res.Currency,
		DistanceSource: res.DistanceSource,
		ContactMessage: res.ContactMessage,
		ContactURL:     res.ContactURL,
	})
}
