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

package dssat

import (
	"context"
	"fmt"

	"github.com/ctessum/geom/encoding/geojson"
	"github.com/ctessum/geom/encoding/shp"
)

// ImportRegions loads agricultural-area polygons from a shapefile
// into the project schema's agareas table, assigning region
// identifiers from the shapefile row order starting at 1. The
// shapefile is expected to be in lat-lon (EPSG:4326) coordinates.
// It returns the number of polygons imported.
func (m *Model) ImportRegions(ctx context.Context, shapefile string) (int, error) {
	d, err := shp.NewDecoder(shapefile)
	if err != nil {
		return 0, fmt.Errorf("dssat: opening shapefile: %w", err)
	}
	defer d.Close()

	conn, err := m.connect(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, fmt.Sprintf("create schema if not exists %s", m.Schema)); err != nil {
		return 0, fmt.Errorf("dssat: creating schema %s: %w", m.Schema, err)
	}
	if _, err := conn.Exec(ctx, fmt.Sprintf(
		"create table if not exists %s.agareas (gid integer primary key, geom geometry)", m.Schema)); err != nil {
		return 0, fmt.Errorf("dssat: creating agareas table: %w", err)
	}

	var n int
	for {
		g, _, more := d.DecodeRowFields()
		if !more {
			break
		}
		b, err := geojson.Encode(g)
		if err != nil {
			return n, fmt.Errorf("dssat: encoding region %d: %v", n+1, err)
		}
		if _, err := conn.Exec(ctx, fmt.Sprintf(
			"insert into %s.agareas (gid, geom) values ($1, st_setsrid(st_geomfromgeojson($2), 4326))", m.Schema),
			n+1, string(b)); err != nil {
			return n, fmt.Errorf("dssat: inserting region %d: %w", n+1, err)
		}
		n++
	}
	if err := d.Error(); err != nil {
		return n, fmt.Errorf("dssat: reading shapefile: %v", err)
	}
	return n, nil
}
