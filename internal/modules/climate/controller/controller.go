package controller

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"hawaii-climate/internal/modules/climate/service"
)

type ClimateController interface {
	RegisterRoutes(r chi.Router)
}

type climateControllerImpl struct {
	service service.ClimateService
}

func NewClimateController(service service.ClimateService) ClimateController {
	return &climateControllerImpl{service: service}
}

func (c *climateControllerImpl) RegisterRoutes(r chi.Router) {
	r.Get("/", c.handleIndex)
	r.Route("/api/v1.0", func(r chi.Router) {
		// Static segments match before {start}.
		r.Get("/precipitation", c.handlePrecipitation)
		r.Get("/stations", c.handleStations)
		r.Get("/tobs", c.handleTobs)
		r.Get("/{start}", c.handleSummaryFrom)
		r.Get("/{start}/{end}", c.handleSummaryBetween)
	})
}

// pathParam returns the decoded value of a chi URL parameter.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
