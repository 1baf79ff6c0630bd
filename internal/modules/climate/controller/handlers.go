package controller

import (
	"bytes"
	"log/slog"
	"net/http"

	"hawaii-climate/internal/modules/climate/views"
	"hawaii-climate/internal/utils"
)

func (c *climateControllerImpl) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := views.RenderIndex(&buf, views.DefaultIndex()); err != nil {
		slog.Error("index template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	utils.WriteHTML(w, http.StatusOK, buf.Bytes())
}

func (c *climateControllerImpl) handlePrecipitation(w http.ResponseWriter, r *http.Request) {
	precip, err := c.service.Precipitation(r.Context())
	if err != nil {
		slog.Error("precipitation failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load precipitation")
		return
	}
	utils.WriteJSON(w, http.StatusOK, precip)
}

func (c *climateControllerImpl) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := c.service.Stations(r.Context())
	if err != nil {
		slog.Error("stations failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load stations")
		return
	}
	utils.WriteJSON(w, http.StatusOK, stations)
}

func (c *climateControllerImpl) handleTobs(w http.ResponseWriter, r *http.Request) {
	obs, err := c.service.TemperatureObservations(r.Context())
	if err != nil {
		slog.Error("tobs failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load temperature observations")
		return
	}
	utils.WriteJSON(w, http.StatusOK, obs)
}

func (c *climateControllerImpl) handleSummaryFrom(w http.ResponseWriter, r *http.Request) {
	start := pathParam(r, "start")
	summary, err := c.service.SummaryFrom(r.Context(), start)
	if err != nil {
		slog.Error("summary failed", "start", start, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load temperature summary")
		return
	}
	utils.WriteJSON(w, http.StatusOK, summary)
}

func (c *climateControllerImpl) handleSummaryBetween(w http.ResponseWriter, r *http.Request) {
	start, end := pathParam(r, "start"), pathParam(r, "end")
	summary, err := c.service.SummaryBetween(r.Context(), start, end)
	if err != nil {
		slog.Error("summary failed", "start", start, "end", end, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load temperature summary")
		return
	}
	utils.WriteJSON(w, http.StatusOK, summary)
}
