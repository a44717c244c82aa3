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

package dssatutil

import (
	"fmt"
	"os"
	"time"

	"github.com/lnashier/viper"
	"github.com/spf13/cast"

	"github.com/spatialcrop/dssat"
)

// Model creates a simulation model from the configuration.
func Model(cfg *viper.Viper) (*dssat.Model, error) {
	nens := cfg.GetInt("Ensembles")
	if nens < 1 {
		return nil, fmt.Errorf("dssat: Ensembles must be at least 1 but is %d", nens)
	}
	return &dssat.Model{
		DatabaseURL: os.ExpandEnv(cfg.GetString("DatabaseURL")),
		Schema:      cfg.GetString("Schema"),
		Crop:        cfg.GetString("Crop"),
		Ensembles:   nens,
		Executable:  os.ExpandEnv(cfg.GetString("Executable")),
	}, nil
}

// Spec creates a control file specification from the configuration.
func Spec(cfg *viper.Viper) (dssat.ControlFileSpec, error) {
	var spec dssat.ControlFileSpec
	var err error

	spec.Dir = os.ExpandEnv(cfg.GetString("ModelPath"))
	if _, err := os.Stat(spec.Dir); err != nil {
		return spec, fmt.Errorf("dssat: the ModelPath directory doesn't exist: %v", err)
	}
	spec.StartDate, err = parseDate(cfg.GetString("StartDate"), "StartDate")
	if err != nil {
		return spec, err
	}
	spec.PlantingDate, err = parseDate(cfg.GetString("PlantingDate"), "PlantingDate")
	if err != nil {
		return spec, err
	}
	spec.GID = cfg.GetInt("GID")
	spec.Lat = cfg.GetFloat64("Lat")
	spec.Lon = cfg.GetFloat64("Lon")

	spec.Depths, err = floatSlice(cfg.Get("Depths"), "Depths")
	if err != nil {
		return spec, err
	}
	spec.SoilMoisture, err = moisture(cfg.Get("SoilMoisture"))
	if err != nil {
		return spec, err
	}
	spec.Irrigation, err = irrigationSchedule(cfg.Get("Irrigation"))
	if err != nil {
		return spec, err
	}
	spec.Fertilizer, err = fertilizerSchedule(cfg.Get("Fertilizer"))
	if err != nil {
		return spec, err
	}
	return spec, nil
}

func parseDate(s, name string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("dssat: you need to specify the %s configuration variable (for example: %s=\"2009-05-15\")", name, name)
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("dssat: problem parsing %s: %v", name, err)
	}
	return t, nil
}

// floatSlice converts a configuration value to a slice of numbers.
func floatSlice(v interface{}, name string) ([]float64, error) {
	raw, err := cast.ToSliceE(v)
	if err != nil {
		// Flag values arrive as string slices.
		strs, err := cast.ToStringSliceE(v)
		if err != nil {
			return nil, fmt.Errorf("dssat: problem parsing %s: %v", name, err)
		}
		raw = make([]interface{}, len(strs))
		for i, s := range strs {
			raw[i] = s
		}
	}
	out := make([]float64, len(raw))
	for i, r := range raw {
		if out[i], err = cast.ToFloat64E(r); err != nil {
			return nil, fmt.Errorf("dssat: problem parsing %s: %v", name, err)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("dssat: %s must contain at least one value", name)
	}
	return out, nil
}

// moisture converts the SoilMoisture configuration value to
// per-member observation vectors. A flat list of numbers is treated
// as a single vector shared by all ensemble members.
func moisture(v interface{}) ([][]float64, error) {
	// Flag values arrive as string slices.
	if strs, err := cast.ToStringSliceE(v); err == nil {
		if len(strs) == 0 {
			return nil, fmt.Errorf("dssat: you need to specify the SoilMoisture configuration variable")
		}
		vec, err := floatSlice(v, "SoilMoisture")
		if err != nil {
			return nil, err
		}
		return [][]float64{vec}, nil
	}
	raw, err := cast.ToSliceE(v)
	if err != nil || len(raw) == 0 {
		return nil, fmt.Errorf("dssat: you need to specify the SoilMoisture configuration variable")
	}
	if _, err := cast.ToFloat64E(raw[0]); err == nil {
		vec, err := floatSlice(v, "SoilMoisture")
		if err != nil {
			return nil, err
		}
		return [][]float64{vec}, nil
	}
	out := make([][]float64, len(raw))
	for i, r := range raw {
		if out[i], err = floatSlice(r, "SoilMoisture"); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// irrigationSchedule converts the Irrigation configuration value,
// a list of tables with Date and Amount keys, to a schedule. A
// missing value yields an empty schedule, for which the generator
// emits its default entry.
func irrigationSchedule(v interface{}) ([]dssat.IrrigationEvent, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := cast.ToSliceE(v)
	if err != nil {
		return nil, fmt.Errorf("dssat: problem parsing Irrigation: %v", err)
	}
	out := make([]dssat.IrrigationEvent, len(raw))
	for i, r := range raw {
		entry, err := cast.ToStringMapE(r)
		if err != nil {
			return nil, fmt.Errorf("dssat: problem parsing Irrigation: %v", err)
		}
		if out[i].Date, err = parseDate(cast.ToString(entry["date"]), "Irrigation.Date"); err != nil {
			return nil, err
		}
		if out[i].Amount, err = cast.ToFloat64E(entry["amount"]); err != nil {
			return nil, fmt.Errorf("dssat: problem parsing Irrigation: %v", err)
		}
	}
	return out, nil
}

// fertilizerSchedule converts the Fertilizer configuration value, a
// list of tables with Date, Amount, and Percent keys, to a schedule.
// A missing value yields an empty schedule, for which the generator
// emits its default entry.
func fertilizerSchedule(v interface{}) ([]dssat.FertilizerEvent, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := cast.ToSliceE(v)
	if err != nil {
		return nil, fmt.Errorf("dssat: problem parsing Fertilizer: %v", err)
	}
	out := make([]dssat.FertilizerEvent, len(raw))
	for i, r := range raw {
		entry, err := cast.ToStringMapE(r)
		if err != nil {
			return nil, fmt.Errorf("dssat: problem parsing Fertilizer: %v", err)
		}
		if out[i].Date, err = parseDate(cast.ToString(entry["date"]), "Fertilizer.Date"); err != nil {
			return nil, err
		}
		if out[i].Amount, err = cast.ToIntE(entry["amount"]); err != nil {
			return nil, fmt.Errorf("dssat: problem parsing Fertilizer: %v", err)
		}
		if out[i].Percent, err = cast.ToIntE(entry["percent"]); err != nil {
			return nil, fmt.Errorf("dssat: problem parsing Fertilizer: %v", err)
		}
	}
	return out, nil
}
