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
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
)

// Cultivar holds the genetic coefficients describing one crop
// variety's growth behavior, plus its display name. Records are
// immutable once fetched.
type Cultivar struct {
	P1, P2R, P5, P2O float64 // development phase durations and photoperiod response
	G1, G2, G3, G4   float64 // growth and partitioning coefficients
	Name             string
}

// genetics renders the coefficients as the fixed-column genotype
// record emitted at the end of the control file.
func (c Cultivar) genetics() string {
	return fmt.Sprintf("IB0012 IR 58            IB0001%6.1f%6.1f%6.1f%6.1f%6.1f%6.4f%6.2f%6.2f",
		c.P1, c.P2R, c.P5, c.P2O, c.G1, c.G2, c.G3, c.G4)
}

const cultivarColumns = "p1, p2r, p5, p2o, g1, g2, g3, g4, name"

// cultivar resolves the cultivar for ensemble member ens (zero-based)
// in region gid. It first looks for a cultivar whose geometry
// intersects the region polygon; if none exists it falls back to the
// cultivar whose centroid is nearest the region centroid. An empty
// fallback result is an error. The resolved name is appended to
// m.Cultivars[gid].
func (m *Model) cultivar(ctx context.Context, ens, gid int) (Cultivar, error) {
	conn, err := m.connect(ctx)
	if err != nil {
		return Cultivar{}, err
	}
	defer conn.Close(ctx)

	var c Cultivar
	sql := fmt.Sprintf(`select %s from dssat.cultivars as c, %s.agareas as a
		where crop=$1 and ensemble=$2 and a.gid=$3 and st_intersects(c.geom, a.geom) limit 1`,
		cultivarColumns, m.Schema)
	err = conn.QueryRow(ctx, sql, m.Crop, ens+1, gid).Scan(
		&c.P1, &c.P2R, &c.P5, &c.P2O, &c.G1, &c.G2, &c.G3, &c.G4, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		sql = fmt.Sprintf(`select %s from dssat.cultivars as c, %s.agareas as a
			where crop=$1 and ensemble=$2 and a.gid=$3
			order by st_centroid(c.geom) <-> st_centroid(a.geom) limit 1`,
			cultivarColumns, m.Schema)
		err = conn.QueryRow(ctx, sql, m.Crop, ens+1, gid).Scan(
			&c.P1, &c.P2R, &c.P5, &c.P2O, &c.G1, &c.G2, &c.G3, &c.G4, &c.Name)
	}
	if err != nil {
		return Cultivar{}, fmt.Errorf("dssat: resolving cultivar for region %d ensemble member %d: %w", gid, ens+1, err)
	}

	if m.Cultivars == nil {
		m.Cultivars = make(map[int][]string)
	}
	m.Cultivars[gid] = append(m.Cultivars[gid], c.Name)
	return c, nil
}
