package repository

import "hawaii-climate/internal/db"

// Tables declares the columns the queries in this package read.
var Tables = []db.Table{
	{Name: "measurement", Columns: []string{"station", "date", "prcp", "tobs"}},
	{Name: "station", Columns: []string{"station"}},
}
