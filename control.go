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
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// IrrigationEvent is one scheduled irrigation application.
type IrrigationEvent struct {
	Date   time.Time
	Amount float64 // [mm]
}

// FertilizerEvent is one scheduled fertilizer application.
type FertilizerEvent struct {
	Date    time.Time
	Amount  int // [kg/ha]
	Percent int // nitrogen percent
}

// ControlFileSpec describes one region's agronomic scenario, from
// which one control file per ensemble member is generated. It is
// constructed per pixel, consumed once, and discarded.
type ControlFileSpec struct {
	// Dir is the model instance directory the control files are
	// written into.
	Dir string

	// StartDate is the simulation start date; PlantingDate is the
	// planting date. Both are rewritten into ReferenceYear before
	// being emitted.
	StartDate    time.Time
	PlantingDate time.Time

	// SoilMoisture holds volumetric soil moisture observations, one
	// vector per ensemble member at the Depths below. A single vector
	// is replicated across all members; a short list is cycled to
	// fill the ensemble.
	SoilMoisture [][]float64

	// Depths are the observation depths [cm] the SoilMoisture vectors
	// are sampled at.
	Depths []float64

	// GID identifies the agricultural-area polygon this scenario
	// covers.
	GID int

	// Lat and Lon locate the pixel.
	Lat, Lon float64

	// Irrigation and Fertilizer are optional schedules; event dates
	// are rewritten into ReferenceYear like the dates above. When
	// empty, a single default entry dated at the simulation start is
	// emitted (irrigation 0 mm; fertilizer 30 kg/ha at 20 percent N).
	Irrigation []IrrigationEvent
	Fertilizer []FertilizerEvent
}

// InputFileName returns the control file name for ensemble member ens
// (zero-based) out of nens.
func InputFileName(nens, ens int) string {
	return fmt.Sprintf("DSSAT%d_%03d.INP", nens, ens+1)
}

// controlFile writes CRLF-terminated fixed-column lines, holding the
// first write error so section writers can be sequenced without
// per-line error checks.
type controlFile struct {
	w   io.Writer
	err error
}

func (f *controlFile) line(format string, a ...interface{}) {
	if f.err != nil {
		return
	}
	_, f.err = fmt.Fprintf(f.w, format+"\r\n", a...)
}

// raw writes s with no line terminator.
func (f *controlFile) raw(s string) {
	if f.err != nil {
		return
	}
	_, f.err = io.WriteString(f.w, s)
}

// fileNames writes the file name section.
func (f *controlFile) fileNames(ens int) {
	f.line("*MODEL INPUT FILE            B     1     1     5   999     0")
	f.line("*FILES")
	f.line("MODEL          RICER040")
	f.line("FILEX          IRMZ8601.RIX")
	f.line("FILEA          IRMZ8601.RIA")
	f.line("FILET          IRMZ8601.RIT")
	f.line("SPECIES        RICER040.SPE")
	f.line("ECOTYPE        RICER040.ECO")
	f.line("CULTIVAR       RICER040.CUL")
	f.line("PESTS          RICER040.PST")
	f.line("SOILS          SOIL.SOL")
	f.line("WEATHER        %s", WeatherFileName(ens))
	f.line("OUTPUT         OVERVIEW")
}

// simulationControl writes the simulation control section.
func (f *controlFile) simulationControl(start time.Time) {
	f.line("*SIMULATION CONTROL")
	f.line("                   1     1     S %s  2150 IRRI MUNOZ JAN 86 UREASE  RICER", dssatDate(start))
	f.line("                   Y     Y     N     N     N     N     N     N")
	f.line("                   M     M     E     R     S     C     R     1     G")
	f.line("                   R     R     R     R     M")
	f.line("                   N     Y     Y     1     Y     N     Y     Y     N     N     Y     N     N")
}

// automaticMgmt writes the automatic management section. The
// management window opens three days before the simulation start and
// spans two weeks.
func (f *controlFile) automaticMgmt(start time.Time) {
	t0 := start.AddDate(0, 0, -3)
	t1 := t0.AddDate(0, 0, 14)
	f.line("!AUTOMATIC MANAGEM")
	f.line("               %s %s   40.  100.   30.   40.   10.", dssatDate(t0), dssatDate(t1))
	f.line("                 30.   50.  100. IB001 IB001  10.0 1.000")
	f.line("                 30.   50.   25. IB001 IB001")
	f.line("                100.     1   20.")
	f.line("                     0 1986036  100.    0.")
}

func (f *controlFile) expDetails() {
	f.line("*EXP.DETAILS")
	f.line("  1IRMZ8601 RI IRRI,MUNOZ JAN 86 UREASE INHIBITORS")
}

func (f *controlFile) treatments() {
	f.line("*TREATMENTS")
	f.line("  5 1 0 0 140 kg N as urea(2/3 18 D")
}

func (f *controlFile) cultivars() {
	f.line("*CULTIVARS")
	f.line("   RI IB0012 IR 58")
}

// fields writes the fields section. The station metadata is fixed by
// the template; the pixel coordinates fill the XCRD (longitude) and
// YCRD (latitude) slots of the detail line.
func (f *controlFile) fields(lat, lon float64) {
	f.line("*FIELDS")
	f.line("   IRMZ0001 IRMZ8601   0.0    0. IB000    0.  100. 00000         50. IBRI910002")
	f.line("%18.5f%16.5f      0.00               1.0  100.   1.0   0.0", lon, lat)
}

// initialConditions writes the initial conditions section: a header
// dated at the simulation start followed by one line per soil layer
// with the layer depth and interpolated volumetric moisture.
func (f *controlFile) initialConditions(start time.Time, dz, smi []float64) {
	f.line("*INITIAL CONDITIONS")
	f.line("   RI    %s  600.    0.  1.00  1.00   0.0   800  1.10  0.00  100.   15.", dssatDate(start))
	for lyr := range dz {
		f.line("%8.0f%8.3f%8.1f%8.1f", dz[lyr], smi[lyr], 0.5, 0.1)
	}
}

func (f *controlFile) planting(pdt time.Time) {
	f.line("*PLANTING DETAILS")
	f.line("   %s     -99  75.0  25.0     T     H   20.    0.   2.0    0.   23.  26.0   3.0   0.0", dssatDate(pdt))
}

// irrigation writes the irrigation section; event record codes are
// indexed from 1 in input order.
func (f *controlFile) irrigation(events []IrrigationEvent) {
	f.line("*IRRIGATION")
	f.line("   1.000   30.   75.  -99. GS000 IR001   1.0")
	for i, ev := range events {
		f.line("   %s IR%03d %4.1f", dssatDate(ev.Date), i+1, ev.Amount)
	}
}

// fertilizer writes the fertilizer section; event record codes are
// indexed from 1 in input order.
func (f *controlFile) fertilizer(events []FertilizerEvent) {
	f.line("*FERTILIZERS")
	for i, ev := range events {
		f.line("   %s FE%03d AP%03d   %02d.   %02d.    0.    0.    0.    0.   -99", dssatDate(ev.Date), i+1, i+1, ev.Amount, ev.Percent)
	}
}

func (f *controlFile) residues()    { f.line("*RESIDUES") }
func (f *controlFile) chemicals()   { f.line("*CHEMICALS") }
func (f *controlFile) tillage()     { f.line("*TILLAGE") }
func (f *controlFile) environment() { f.line("*ENVIRONMENT") }
func (f *controlFile) harvest()     { f.line("*HARVEST") }

// soil writes the soil section: the sampled profile block followed by
// a zero-filled property row per layer depth.
func (f *controlFile) soil(prof []string, dz []float64) {
	f.line("*SOIL")
	for _, ln := range prof[:len(prof)-1] {
		f.line("%s", ln)
	}
	f.line("")
	for _, z := range dz {
		f.line("%6.0f   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0   0.0", z)
	}
}

// cultivar writes the cultivar genetics section. The genetics line is
// the last record in the file and carries no line terminator.
func (f *controlFile) cultivar(genetics string) {
	f.line("*CULTIVAR")
	f.raw(genetics)
}

// WriteControlFiles writes one DSSAT control file per ensemble member
// for the region described by spec. For each member it samples a soil
// profile, interpolates the observed soil moisture onto the profile's
// layer depths, resolves the member's cultivar, and emits every
// section in the order the simulator's grammar requires. Resolved
// cultivar names are appended to m.Cultivars[spec.GID].
//
// The returned layer depths and interpolated moisture are those of the
// last ensemble member processed, not an aggregate over members;
// callers should not treat them as representative of the ensemble.
func (m *Model) WriteControlFiles(ctx context.Context, spec ControlFileSpec) (dz, smi []float64, err error) {
	// The simulator misbehaves on years after 2010, so all dates are
	// rewritten into the reference year up front.
	start := NormalizeYear(spec.StartDate)
	planting := NormalizeYear(spec.PlantingDate)

	vsm, err := cycleMoisture(spec.SoilMoisture, m.Ensembles)
	if err != nil {
		return nil, nil, err
	}
	profiles, err := m.sampleSoilProfiles(ctx, spec.GID)
	if err != nil {
		return nil, nil, err
	}

	if m.Cultivars == nil {
		m.Cultivars = make(map[int][]string)
	}
	m.Cultivars[spec.GID] = nil

	irrigation, fertilizers := scheduleDefaults(start, spec.Irrigation, spec.Fertilizer)

	for ens := 0; ens < m.Ensembles; ens++ {
		prof := profileLines(profiles[ens])
		dz, err = profileDepths(profiles[ens])
		if err != nil {
			return nil, nil, fmt.Errorf("dssat: parsing soil profile for ensemble member %d: %w", ens+1, err)
		}
		smi, err = interpolateSoilMoist(vsm[ens], spec.Depths, dz)
		if err != nil {
			return nil, nil, err
		}
		cul, err := m.cultivar(ctx, ens, spec.GID)
		if err != nil {
			return nil, nil, err
		}

		if err := writeControlFile(filepath.Join(spec.Dir, InputFileName(m.Ensembles, ens)), ens, start, planting,
			irrigation, fertilizers, prof, dz, smi, spec.Lat, spec.Lon, cul); err != nil {
			return nil, nil, err
		}
	}
	return dz, smi, nil
}

// writeControlFile writes the control file for a single ensemble
// member, invoking every section writer in the fixed order DSSAT
// expects.
func writeControlFile(filename string, ens int, start, planting time.Time,
	irrigation []IrrigationEvent, fertilizers []FertilizerEvent,
	prof []string, dz, smi []float64, lat, lon float64, cul Cultivar) error {
	fout, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("dssat: creating control file: %w", err)
	}
	b := bufio.NewWriter(fout)
	f := &controlFile{w: b}
	f.fileNames(ens)
	f.simulationControl(start)
	f.automaticMgmt(start)
	f.expDetails()
	f.treatments()
	f.cultivars()
	f.fields(lat, lon)
	f.initialConditions(start, dz, smi)
	f.planting(planting)
	f.irrigation(irrigation)
	f.fertilizer(fertilizers)
	f.residues()
	f.chemicals()
	f.tillage()
	f.environment()
	f.harvest()
	f.soil(prof, dz)
	f.cultivar(cul.genetics())
	if f.err != nil {
		fout.Close()
		return fmt.Errorf("dssat: writing %s: %v", filename, f.err)
	}
	if err := b.Flush(); err != nil {
		fout.Close()
		return fmt.Errorf("dssat: writing %s: %v", filename, err)
	}
	return fout.Close()
}

// scheduleDefaults substitutes the simulator's default single-entry
// schedules for empty ones (no irrigation at the simulation start, and
// 30 kg/ha of fertilizer at 20 percent nitrogen) and rewrites every
// event date into ReferenceYear, so scheduled years the simulator
// cannot handle never reach the control file.
func scheduleDefaults(start time.Time, irrigation []IrrigationEvent, fertilizers []FertilizerEvent) ([]IrrigationEvent, []FertilizerEvent) {
	if len(irrigation) == 0 {
		irrigation = []IrrigationEvent{{Date: start, Amount: 0}}
	}
	if len(fertilizers) == 0 {
		fertilizers = []FertilizerEvent{{Date: start, Amount: 30, Percent: 20}}
	}
	irr := make([]IrrigationEvent, len(irrigation))
	for i, ev := range irrigation {
		ev.Date = NormalizeYear(ev.Date)
		irr[i] = ev
	}
	fert := make([]FertilizerEvent, len(fertilizers))
	for i, ev := range fertilizers {
		ev.Date = NormalizeYear(ev.Date)
		fert[i] = ev
	}
	return irr, fert
}

// cycleMoisture expands the per-member soil moisture vectors to
// exactly nens entries: a single vector is replicated and a short
// list is cycled.
func cycleMoisture(vsm [][]float64, nens int) ([][]float64, error) {
	if len(vsm) == 0 {
		return nil, fmt.Errorf("dssat: no soil moisture values supplied")
	}
	out := make([][]float64, nens)
	for i := range out {
		out[i] = vsm[i%len(vsm)]
	}
	return out, nil
}
