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
	"math"
	"math/rand"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/interp"
)

// sampleSoilProfiles randomly samples (with replacement) one soil
// profile text block per ensemble member from the profiles whose
// geometry intersects the region's bounding envelope.
func (m *Model) sampleSoilProfiles(ctx context.Context, gid int) ([]string, error) {
	conn, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close(ctx)

	sql := fmt.Sprintf(`with f as (select st_envelope(geom) as geom from %s.agareas where gid=$1)
		select profile from dssat.soils as s, f where st_intersects(s.geom, f.geom)`, m.Schema)
	rows, err := conn.Query(ctx, sql, gid)
	if err != nil {
		return nil, fmt.Errorf("dssat: querying soil profiles for region %d: %w", gid, err)
	}
	defer rows.Close()
	var profiles []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("dssat: querying soil profiles for region %d: %w", gid, err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dssat: querying soil profiles for region %d: %w", gid, err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("dssat: no soil profiles intersect region %d", gid)
	}

	out := make([]string, m.Ensembles)
	for i := range out {
		out[i] = profiles[rand.Intn(len(profiles))]
	}
	return out, nil
}

// profileLines splits a soil profile block into its lines.
func profileLines(profile string) []string {
	return strings.Split(profile, "\r\n")
}

// profileDepths parses the layer bottom depths [cm] from a soil
// profile block. The first three lines of the block are the profile
// header; each subsequent line describes one layer with its depth in
// the first column.
func profileDepths(profile string) ([]float64, error) {
	lines := strings.Split(strings.ReplaceAll(profile, "\r\n", "\n"), "\n")
	if len(lines) < 4 {
		return nil, fmt.Errorf("profile has %d lines; want at least 4", len(lines))
	}
	var dz []float64
	for _, ln := range lines[3:] {
		fields := strings.Fields(ln)
		if len(fields) == 0 {
			continue
		}
		z, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing layer depth from %q: %v", ln, err)
		}
		dz = append(dz, z)
	}
	if len(dz) == 0 {
		return nil, fmt.Errorf("profile contains no layers")
	}
	return dz, nil
}

// interpolateSoilMoist interpolates the volumetric soil moisture
// observations sm at the observation depths onto the profile layer
// depths dz, piecewise-linearly, holding the end values constant
// beyond the observed range.
func interpolateSoilMoist(sm, depths, dz []float64) ([]float64, error) {
	if len(sm) != len(depths) {
		return nil, fmt.Errorf("dssat: %d soil moisture values for %d depths", len(sm), len(depths))
	}
	if len(sm) == 0 {
		return nil, fmt.Errorf("dssat: no soil moisture values to interpolate")
	}
	out := make([]float64, len(dz))
	if len(sm) == 1 {
		for i := range out {
			out[i] = sm[0]
		}
		return out, nil
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(depths, sm); err != nil {
		return nil, fmt.Errorf("dssat: interpolating soil moisture: %v", err)
	}
	lo, hi := depths[0], depths[len(depths)-1]
	for i, z := range dz {
		out[i] = pl.Predict(math.Min(math.Max(z, lo), hi))
	}
	return out, nil
}
