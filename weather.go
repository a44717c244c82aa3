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
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
)

// WeatherFileName returns the weather file name referenced by the
// control file of ensemble member ens (zero-based).
func WeatherFileName(ens int) string {
	return fmt.Sprintf("WEATH%03d.WTH", ens+1)
}

// WeatherRecord is one day of forcing data for the simulator.
type WeatherRecord struct {
	Date time.Time
	SRad float64 // solar radiation [MJ/m2/day]
	TMax float64 // maximum temperature [deg C]
	TMin float64 // minimum temperature [deg C]
	Rain float64 // precipitation [mm]
}

// WriteWeatherFiles writes one weather file per ensemble member into
// dir. A single realization is replicated across all members; a short
// list is cycled, mirroring the soil moisture handling. Record dates
// are rewritten into ReferenceYear to match the control files.
func (m *Model) WriteWeatherFiles(dir, station string, elev, lat, lon float64, realizations [][]WeatherRecord) error {
	if len(realizations) == 0 {
		return fmt.Errorf("dssat: no weather realizations supplied")
	}
	for ens := 0; ens < m.Ensembles; ens++ {
		recs := realizations[ens%len(realizations)]
		path := filepath.Join(dir, WeatherFileName(ens))
		if err := writeWeatherFile(path, station, elev, lat, lon, recs); err != nil {
			return err
		}
	}
	return nil
}

// writeWeatherFile writes a single fixed-column weather file. The
// header's average temperature and amplitude are derived from the
// records themselves.
func writeWeatherFile(path, station string, elev, lat, lon float64, recs []WeatherRecord) error {
	if len(recs) == 0 {
		return fmt.Errorf("dssat: no weather records for %s", path)
	}
	fout, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dssat: creating weather file: %w", err)
	}
	b := bufio.NewWriter(fout)
	f := &controlFile{w: b}

	tav, amp := temperatureStats(recs)
	f.line("*WEATHER DATA : %s", station)
	f.line("")
	f.line("@ INSI      LAT     LONG  ELEV   TAV   AMP REFHT WNDHT")
	f.line("  %-4.4s %8.3f %8.3f %5.0f %5.1f %5.1f %5.1f %5.1f", station, lat, lon, elev, tav, amp, 2.0, 3.0)
	f.line("@DATE  SRAD  TMAX  TMIN  RAIN")
	for _, r := range recs {
		f.line("%s %5.1f %5.1f %5.1f %5.1f", weatherDate(NormalizeYear(r.Date)), r.SRad, r.TMax, r.TMin, r.Rain)
	}
	if f.err != nil {
		fout.Close()
		return fmt.Errorf("dssat: writing %s: %v", path, f.err)
	}
	if err := b.Flush(); err != nil {
		fout.Close()
		return fmt.Errorf("dssat: writing %s: %v", path, err)
	}
	return fout.Close()
}

// temperatureStats returns the mean daily temperature and half the
// range of daily means across the records.
func temperatureStats(recs []WeatherRecord) (tav, amp float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range recs {
		mean := (r.TMax + r.TMin) / 2
		tav += mean
		lo = math.Min(lo, mean)
		hi = math.Max(hi, mean)
	}
	tav /= float64(len(recs))
	amp = (hi - lo) / 2
	return tav, amp
}
