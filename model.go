/*
Copyright © 2025 the DSSAT-Go authors.
This file is part of DSSAT-Go.

DSSAT-Go is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

DSSAT-Go is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with DSSAT-Go.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package dssat generates fixed-column input files for the DSSAT
// crop-growth simulator, runs the simulator once per ensemble member,
// and collects its output artifacts. Cultivar genetics and soil
// profiles are resolved from a PostGIS database by spatial queries
// against agricultural-area polygons.
package dssat

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v4"
)

// Version gives the version number.
const Version = "0.1.0"

// Model holds the configuration for generating and running one DSSAT
// model instance. An instance covers one geographic region and
// Ensembles stochastic realizations of its weather and soil state.
type Model struct {
	// DatabaseURL is the connection string for the PostGIS database
	// holding the dssat.cultivars and dssat.soils tables.
	DatabaseURL string

	// Schema is the project schema containing the agareas and yield
	// tables for this simulation domain.
	Schema string

	// Crop is the crop type used to scope cultivar queries and to
	// label yield statistics (e.g. "rice").
	Crop string

	// Ensembles is the number of ensemble members to generate and run.
	Ensembles int

	// Executable is the path to the DSSAT executable.
	Executable string

	// Cultivars maps each region identifier to the display names of
	// the cultivars resolved for its ensemble members, in resolution
	// order. It is populated as control files are written.
	Cultivars map[int][]string
}

// connect opens a database connection, retrying with exponential
// backoff. Connections are opened and closed per operation; the
// generator is strictly sequential so there is nothing to pool.
func (m *Model) connect(ctx context.Context) (*pgx.Conn, error) {
	var conn *pgx.Conn
	err := backoff.Retry(func() error {
		var err error
		conn, err = pgx.Connect(ctx, m.DatabaseURL)
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx))
	if err != nil {
		return nil, fmt.Errorf("dssat: connecting to database: %w", err)
	}
	return conn, nil
}
