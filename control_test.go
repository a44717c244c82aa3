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
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

const testProfile = "*IB00000001  SAMPLE      SIC     210 DEFAULT\r\n" +
	"@SITE        COUNTRY     LAT     LONG SCS FAMILY\r\n" +
	" SAMPLE      PHILIPPINES  6.50  121.10 Clay\r\n" +
	"    15   0.228   0.385   0.481\r\n" +
	"    30   0.228   0.385   0.481\r\n" +
	"    60   0.228   0.385   0.481\r\n"

var testCultivar = Cultivar{
	P1: 881.0, P2R: 52.5, P5: 550.0, P2O: 12.0,
	G1: 65.0, G2: 0.025, G3: 1.0, G4: 1.0,
	Name: "IR 58",
}

func TestWriteControlFile(t *testing.T) {
	start := time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC)
	planting := time.Date(2009, 2, 10, 0, 0, 0, 0, time.UTC)
	irrigation, fertilizers := scheduleDefaults(start, nil, nil)

	prof := profileLines(testProfile)
	dz, err := profileDepths(testProfile)
	if err != nil {
		t.Fatal(err)
	}
	smi := []float64{0.25, 0.30, 0.28}

	dir := t.TempDir()
	name := filepath.Join(dir, InputFileName(1, 0))
	if err := writeControlFile(name, 0, start, planting, irrigation, fertilizers,
		prof, dz, smi, 6.5, 121.1, testCultivar); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}

	want := strings.Join([]string{
		"*MODEL INPUT FILE            B     1     1     5   999     0",
		"*FILES",
		"MODEL          RICER040",
		"FILEX          IRMZ8601.RIX",
		"FILEA          IRMZ8601.RIA",
		"FILET          IRMZ8601.RIT",
		"SPECIES        RICER040.SPE",
		"ECOTYPE        RICER040.ECO",
		"CULTIVAR       RICER040.CUL",
		"PESTS          RICER040.PST",
		"SOILS          SOIL.SOL",
		"WEATHER        WEATH001.WTH",
		"OUTPUT         OVERVIEW",
		"*SIMULATION CONTROL",
		"                   1     1     S 2009001  2150 IRRI MUNOZ JAN 86 UREASE  RICER",
		"                   Y     Y     N     N     N     N     N     N",
		"                   M     M     E     R     S     C     R     1     G",
		"                   R     R     R     R     M",
		"                   N     Y     Y     1     Y     N     Y     Y     N     N     Y     N     N",
		"!AUTOMATIC MANAGEM",
		"               2008364 2009012   40.  100.   30.   40.   10.",
		"                 30.   50.  100. IB001 IB001  10.0 1.000",
		"                 30.   50.   25. IB001 IB001",
		"                100.     1   20.",
		"                     0 1986036  100.    0.",
		"*EXP.DETAILS",
		"  1IRMZ8601 RI IRRI,MUNOZ JAN 86 UREASE INHIBITORS",
		"*TREATMENTS",
		"  5 1 0 0 140 kg N as urea(2/3 18 D",
		"*CULTIVARS",
		"   RI IB0012 IR 58",
		"*FIELDS",
		"   IRMZ0001 IRMZ8601   0.0    0. IB000    0.  100. 00000         50. IBRI910002",
		"         121.10000         6.50000      0.00               1.0  100.   1.0   0.0",
		"*INITIAL CONDITIONS",
		"   RI    2009001  600.    0.  1.00  1.00   0.0   800  1.10  0.00  100.   15.",
		"      15   0.250     0.5     0.1",
		"      30   0.300     0.5     0.1",
		"      60   0.280     0.5     0.1",
		"*PLANTING DETAILS",
		"   2009041     -99  75.0  25.0     T     H   20.    0.   2.0    0.   23.  26.0   3.0   0.0",
		"*IRRIGATION",
		"   1.000   30.   75.  -99. GS000 IR001   1.0",
		"   2009001 IR001  0.0",
		"*FERTILIZERS",
		"   2009001 FE001 AP001   30.   20.    0.    0.    0.    0.   -99",
		"*RESIDUES",
		"*CHEMICALS",
		"*TILLAGE",
		"*ENVIRONMENT",
		"*HARVEST",
		"*SOIL",
		"*IB00000001  SAMPLE      SIC     210 DEFAULT",
		"@SITE        COUNTRY     LAT     LONG SCS FAMILY",
		" SAMPLE      PHILIPPINES  6.50  121.10 Clay",
		"    15   0.228   0.385   0.481",
		"    30   0.228   0.385   0.481",
		"    60   0.228   0.385   0.481",
		"",
		"    15   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0",
		"    30   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0",
		"    60   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0",
		"*CULTIVAR",
		"IB0012 IR 58            IB0001 881.0  52.5 550.0  12.0  65.00.0250  1.00  1.00",
	}, "\r\n")
	if string(b) != want {
		t.Errorf("control file mismatch:\nwant:\n%q\nhave:\n%q", want, string(b))
	}
}

func TestInitialConditions(t *testing.T) {
	var buf bytes.Buffer
	f := &controlFile{w: &buf}
	start := time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC)
	f.initialConditions(start, []float64{15, 30, 60}, []float64{0.25, 0.30, 0.28})
	if f.err != nil {
		t.Fatal(f.err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\r\n"), "\r\n")
	if len(lines) != 5 {
		t.Fatalf("want 5 lines but have %d", len(lines))
	}
	wantData := []string{
		"      15   0.250     0.5     0.1",
		"      30   0.300     0.5     0.1",
		"      60   0.280     0.5     0.1",
	}
	if !reflect.DeepEqual(wantData, lines[2:]) {
		t.Errorf("want %v but have %v", wantData, lines[2:])
	}
}

func TestFertilizerDefault(t *testing.T) {
	start := time.Date(2009, 5, 15, 0, 0, 0, 0, time.UTC)
	_, fertilizers := scheduleDefaults(start, nil, nil)
	var buf bytes.Buffer
	f := &controlFile{w: &buf}
	f.fertilizer(fertilizers)
	if f.err != nil {
		t.Fatal(f.err)
	}
	want := "*FERTILIZERS\r\n   2009135 FE001 AP001   30.   20.    0.    0.    0.    0.   -99\r\n"
	if buf.String() != want {
		t.Errorf("want %q but have %q", want, buf.String())
	}
}

func TestScheduleDefaultsKeepExisting(t *testing.T) {
	start := time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC)
	irr := []IrrigationEvent{{Date: start, Amount: 20}}
	fert := []FertilizerEvent{{Date: start, Amount: 50, Percent: 30}}
	gotIrr, gotFert := scheduleDefaults(start, irr, fert)
	if !reflect.DeepEqual(irr, gotIrr) || !reflect.DeepEqual(fert, gotFert) {
		t.Errorf("want %v, %v but have %v, %v", irr, fert, gotIrr, gotFert)
	}
}

// Scheduled application years must be rewritten into the reference
// year before emission, like the start and planting dates.
func TestScheduleDateNormalization(t *testing.T) {
	start := time.Date(2037, 5, 15, 0, 0, 0, 0, time.UTC)
	irrigation, fertilizers := scheduleDefaults(NormalizeYear(start),
		[]IrrigationEvent{{Date: time.Date(2037, 6, 1, 0, 0, 0, 0, time.UTC), Amount: 20}},
		[]FertilizerEvent{{Date: time.Date(2037, 7, 1, 0, 0, 0, 0, time.UTC), Amount: 50, Percent: 30}},
	)

	var buf bytes.Buffer
	f := &controlFile{w: &buf}
	f.irrigation(irrigation)
	f.fertilizer(fertilizers)
	if f.err != nil {
		t.Fatal(f.err)
	}
	wantIrr := "   2009152 IR001 20.0"
	wantFert := "   2009182 FE001 AP001   50.   30.    0.    0.    0.    0.   -99"
	if !strings.Contains(buf.String(), wantIrr+"\r\n") {
		t.Errorf("want irrigation line %q in:\n%s", wantIrr, buf.String())
	}
	if !strings.Contains(buf.String(), wantFert+"\r\n") {
		t.Errorf("want fertilizer line %q in:\n%s", wantFert, buf.String())
	}
}

func TestFields(t *testing.T) {
	var buf bytes.Buffer
	f := &controlFile{w: &buf}
	f.fields(14.18, 121.25)
	if f.err != nil {
		t.Fatal(f.err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\r\n"), "\r\n")
	want := "         121.25000        14.18000      0.00               1.0  100.   1.0   0.0"
	if lines[2] != want {
		t.Errorf("want %q but have %q", want, lines[2])
	}
}

func TestIrrigationOrdering(t *testing.T) {
	events := []IrrigationEvent{
		{Date: time.Date(2009, 6, 1, 0, 0, 0, 0, time.UTC), Amount: 15},
		{Date: time.Date(2009, 5, 1, 0, 0, 0, 0, time.UTC), Amount: 7.5},
		{Date: time.Date(2009, 7, 1, 0, 0, 0, 0, time.UTC), Amount: 30},
	}
	var buf bytes.Buffer
	f := &controlFile{w: &buf}
	f.irrigation(events)
	if f.err != nil {
		t.Fatal(f.err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\r\n"), "\r\n")
	wantData := []string{
		"   2009152 IR001 15.0",
		"   2009121 IR002  7.5",
		"   2009182 IR003 30.0",
	}
	if !reflect.DeepEqual(wantData, lines[2:]) {
		t.Errorf("want %v but have %v", wantData, lines[2:])
	}
}

func TestCycleMoisture(t *testing.T) {
	single := [][]float64{{0.25, 0.30}}
	out, err := cycleMoisture(single, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]float64{{0.25, 0.30}, {0.25, 0.30}, {0.25, 0.30}, {0.25, 0.30}}
	if !reflect.DeepEqual(want, out) {
		t.Errorf("want %v but have %v", want, out)
	}

	short := [][]float64{{0.1}, {0.2}}
	out, err = cycleMoisture(short, 5)
	if err != nil {
		t.Fatal(err)
	}
	want = [][]float64{{0.1}, {0.2}, {0.1}, {0.2}, {0.1}}
	if !reflect.DeepEqual(want, out) {
		t.Errorf("want %v but have %v", want, out)
	}

	if _, err := cycleMoisture(nil, 3); err == nil {
		t.Error("want error for empty moisture input")
	}
}

func TestInputFileName(t *testing.T) {
	if name := InputFileName(20, 2); name != "DSSAT20_003.INP" {
		t.Errorf("want DSSAT20_003.INP but have %s", name)
	}
}
