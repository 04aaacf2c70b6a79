package controller

import (
	"log/slog"
	"time"

	"github.com/sharkins95/sqlalchemy-challenge/internal/modules/climate/repository"
	"github.com/sharkins95/sqlalchemy-challenge/internal/modules/climate/types"
)

const (
	// mostActiveStation has the most observations in the Hawaii dataset.
	mostActiveStation = "USC00519281"
	tobsWindowDays    = 366
)

// warnIfNotDate logs path segments that are not YYYY-MM-DD. The value is still
// used as-is; string comparison in SQL decides what matches.
func warnIfNotDate(name, value string) {
	if _, err := time.Parse(repository.DateLayout, value); err != nil {
		slog.Warn("date segment is not YYYY-MM-DD", "param", name, "value", value)
	}
}

func toPrecipitation(rows []types.Measurement) []types.Precipitation {
	out := make([]types.Precipitation, 0, len(rows))
	for _, m := range rows {
		out = append(out, types.Precipitation{m.Date: m.Prcp})
	}
	return out
}
