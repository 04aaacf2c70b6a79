package httpapi

import (
	"database/sql"
	"net/http"

	"github.com/sharkins95/sqlalchemy-challenge/internal/metrics"
)

// NewMux returns a mux with the operational routes. Feature modules add theirs.
func NewMux(db *sql.DB) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, db)
	mux.Handle("GET /metrics", metrics.Handler())
	return mux
}
