package climate

import (
	"database/sql"

	"github.com/go-chi/chi/v5"

	"hawaii-climate/internal/db"
	"hawaii-climate/internal/modules/climate/controller"
	"hawaii-climate/internal/modules/climate/repository"
	"hawaii-climate/internal/modules/climate/service"
)

// Tables is the schema the climate routes need from the dataset.
func Tables() []db.Table {
	return repository.Tables
}

func RegisterFeature(r chi.Router, conn *sql.DB) {
	climateRepository := repository.NewRepository(conn)
	climateService := service.NewService(climateRepository)
	climateController := controller.NewClimateController(climateService)
	climateController.RegisterRoutes(r)
}
