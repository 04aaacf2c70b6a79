package climate

import (
	"database/sql"
	"net/http"

	"github.com/sharkins95/sqlalchemy-challenge/internal/modules/climate/controller"
	"github.com/sharkins95/sqlalchemy-challenge/internal/modules/climate/repository"
)

func RegisterFeature(mux *http.ServeMux, db *sql.DB) {
	climateRepository := repository.NewRepository(db)
	climateController := controller.NewClimateController(climateRepository)
	climateController.RegisterRoutes(mux)
}
