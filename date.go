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
	"fmt"
	"time"
)

// ReferenceYear is the year all simulation dates are rewritten to
// before being emitted. The DSSAT executable crashes on dates after
// 2010, so the generator normalizes every date into this year and the
// weather files are written with matching years. This is a workaround
// for a defect in the external program, not a modeling choice.
const ReferenceYear = 2009

// NormalizeYear returns t with its year replaced by ReferenceYear.
// February 29 of a leap year rolls over to March 1, since
// ReferenceYear is not a leap year.
func NormalizeYear(t time.Time) time.Time {
	return time.Date(ReferenceYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// dssatDate formats t as the simulator's date field: four year digits
// followed by the zero-padded three-digit day of year.
func dssatDate(t time.Time) string {
	return fmt.Sprintf("%04d%03d", t.Year(), t.YearDay())
}

// weatherDate formats t as the weather-file date field: two year
// digits followed by the zero-padded three-digit day of year.
func weatherDate(t time.Time) string {
	return fmt.Sprintf("%02d%03d", t.Year()%100, t.YearDay())
}
