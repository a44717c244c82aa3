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
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testWeather() [][]WeatherRecord {
	return [][]WeatherRecord{
		{
			{Date: time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC), SRad: 10.1, TMax: 30, TMin: 20, Rain: 0},
			{Date: time.Date(2031, 1, 2, 0, 0, 0, 0, time.UTC), SRad: 12.3, TMax: 32, TMin: 22, Rain: 5.5},
		},
		{
			{Date: time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC), SRad: 9.8, TMax: 29, TMin: 21, Rain: 1.2},
			{Date: time.Date(2031, 1, 2, 0, 0, 0, 0, time.UTC), SRad: 11.0, TMax: 31, TMin: 23, Rain: 0},
		},
	}
}

func TestWriteWeatherFiles(t *testing.T) {
	dir := t.TempDir()
	m := &Model{Ensembles: 3}
	if err := m.WriteWeatherFiles(dir, "IRMZ", 21, 14.18, 121.25, testWeather()); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "WEATH001.WTH"))
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"*WEATHER DATA : IRMZ",
		"",
		"@ INSI      LAT     LONG  ELEV   TAV   AMP REFHT WNDHT",
		"  IRMZ   14.180  121.250    21  26.0   1.0   2.0   3.0",
		"@DATE  SRAD  TMAX  TMIN  RAIN",
		"09001  10.1  30.0  20.0   0.0",
		"09002  12.3  32.0  22.0   5.5",
		"",
	}, "\r\n")
	if string(b) != want {
		t.Errorf("weather file mismatch:\nwant:\n%q\nhave:\n%q", want, string(b))
	}

	// The third member cycles back to the first realization.
	b3, err := os.ReadFile(filepath.Join(dir, "WEATH003.WTH"))
	if err != nil {
		t.Fatal(err)
	}
	if string(b3) != string(b) {
		t.Error("want member 3 to cycle to the first realization")
	}
	if _, err := os.Stat(filepath.Join(dir, "WEATH002.WTH")); err != nil {
		t.Error(err)
	}
}

func TestWriteWeatherFilesEmpty(t *testing.T) {
	m := &Model{Ensembles: 1}
	if err := m.WriteWeatherFiles(t.TempDir(), "IRMZ", 21, 14.18, 121.25, nil); err == nil {
		t.Error("want error for missing weather realizations")
	}
}

func TestWeatherFileName(t *testing.T) {
	if name := WeatherFileName(0); name != "WEATH001.WTH" {
		t.Errorf("want WEATH001.WTH but have %s", name)
	}
}
