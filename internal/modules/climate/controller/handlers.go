package controller

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/sharkins95/sqlalchemy-challenge/internal/modules/climate/types"
	"github.com/sharkins95/sqlalchemy-challenge/internal/modules/climate/views"
	"github.com/sharkins95/sqlalchemy-challenge/internal/utils"
)

func (c *climateControllerImpl) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := views.RenderIndex(&buf); err != nil {
		slog.Error("index render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	utils.WriteText(w, http.StatusOK, buf.Bytes())
}

func (c *climateControllerImpl) handlePrecipitation(w http.ResponseWriter, r *http.Request) {
	rows, err := c.repository.GetPrecipitation(r.Context())
	if err != nil {
		slog.Error("precipitation: query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load precipitation")
		return
	}
	utils.WriteJSON(w, http.StatusOK, toPrecipitation(rows))
}

func (c *climateControllerImpl) handleStations(w http.ResponseWriter, r *http.Request) {
	ids, err := c.repository.GetStationIDs(r.Context())
	if err != nil {
		slog.Error("stations: query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load stations")
		return
	}
	utils.WriteJSON(w, http.StatusOK, ids)
}

func (c *climateControllerImpl) handleTobs(w http.ResponseWriter, r *http.Request) {
	obs, err := c.repository.GetRecentTemperatureObservations(r.Context(), mostActiveStation, tobsWindowDays)
	if err != nil {
		slog.Error("tobs: query failed", "station_id", mostActiveStation, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load temperature observations")
		return
	}
	utils.WriteJSON(w, http.StatusOK, obs)
}

func (c *climateControllerImpl) handleStatsFrom(w http.ResponseWriter, r *http.Request) {
	start := r.PathValue("start")
	warnIfNotDate("start", start)

	stats, err := c.repository.GetTemperatureStatsFrom(r.Context(), start)
	if err != nil {
		slog.Error("stats: query failed", "start", start, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to compute temperature stats")
		return
	}
	utils.WriteJSON(w, http.StatusOK, []types.TemperatureStats{stats})
}

func (c *climateControllerImpl) handleStatsBetween(w http.ResponseWriter, r *http.Request) {
	start, end := r.PathValue("start"), r.PathValue("end")
	warnIfNotDate("start", start)
	warnIfNotDate("end", end)

	stats, err := c.repository.GetTemperatureStatsBetween(r.Context(), start, end)
	if err != nil {
		slog.Error("stats: query failed", "start", start, "end", end, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to compute temperature stats")
		return
	}
	utils.WriteJSON(w, http.StatusOK, []types.TemperatureStats{stats})
}
