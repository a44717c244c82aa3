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

// Package dssatutil provides the command-line interface and
// configuration handling for the DSSAT input generator.
package dssatutil

import (
	"context"
	"fmt"
	"log"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/spatialcrop/dssat"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to the generator.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel sets the logging verbosity (debug, info, warning, error).
              Captured simulator output is logged at debug level.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "DatabaseURL",
			usage: `
              DatabaseURL is the connection string for the PostGIS database
              holding the cultivar, soil, and agricultural-area tables.`,
			defaultVal: "postgres://localhost:5432/rheas",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Schema",
			usage: `
              Schema is the project schema containing the agareas and yield
              tables for this simulation domain.`,
			defaultVal: "default",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Crop",
			usage: `
              Crop is the crop type used to scope cultivar queries and label
              yield statistics.`,
			defaultVal: "rice",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Ensembles",
			usage: `
              Ensembles is the number of ensemble members to generate and run.`,
			shorthand:  "n",
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Executable",
			usage: `
              Executable is the path to the DSSAT executable.`,
			defaultVal: "DSSAT_Ex.exe",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "ModelPath",
			usage: `
              ModelPath is the model instance directory control files are
              written into and the simulator runs in.`,
			defaultVal: ".",
			flagsets:   []*pflag.FlagSet{prepareCmd.Flags(), runCmd.Flags()},
		},
		{
			name: "StartDate",
			usage: `
              StartDate is the simulation start date in YYYY-MM-DD format.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{prepareCmd.Flags(), runCmd.Flags()},
		},
		{
			name: "PlantingDate",
			usage: `
              PlantingDate is the planting date in YYYY-MM-DD format.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{prepareCmd.Flags(), runCmd.Flags()},
		},
		{
			name: "GID",
			usage: `
              GID is the identifier of the agricultural-area polygon to
              simulate.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{prepareCmd.Flags(), runCmd.Flags()},
		},
		{
			name: "Lat",
			usage: `
              Lat is the pixel latitude [degrees].`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{prepareCmd.Flags(), runCmd.Flags()},
		},
		{
			name: "Lon",
			usage: `
              Lon is the pixel longitude [degrees].`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{prepareCmd.Flags(), runCmd.Flags()},
		},
		{
			name: "Depths",
			usage: `
              Depths are the soil moisture observation depths [cm].`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{prepareCmd.Flags(), runCmd.Flags()},
		},
		{
			name: "SoilMoisture",
			usage: `
              SoilMoisture holds volumetric soil moisture observations at the
              Depths above, shared by all ensemble members. Per-member vectors
              can be given as nested lists in the configuration file.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{prepareCmd.Flags(), runCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("DSSAT")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(prepareCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(importRegionsCmd)
}

// setConfig finds and reads in the configuration file, if there is
// one, and applies the configured log level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("dssat: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(Cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("dssat: problem parsing LogLevel: %v", err)
	}
	logrus.SetLevel(level)
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "dssat",
	Short: "Generate and run DSSAT crop simulation scenarios.",
	Long: `dssat generates the fixed-format input files the DSSAT crop growth
simulator requires, one per ensemble member, runs the simulator for
each member, and collects its output.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'DSSAT_var' where 'var' is
the name of the variable to be set.

The Irrigation and Fertilizer application schedules are lists of tables
and can only be given in the configuration file: Irrigation entries have
Date and Amount keys, Fertilizer entries have Date, Amount, and Percent
keys (see configExample.toml).`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of DSSAT-Go.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("DSSAT-Go v%s\n", dssat.Version)
	},
	DisableAutoGenTag: true,
}

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Write control files without running the simulator.",
	Long: `prepare writes one control file per ensemble member into the model
instance directory, resolving cultivars and sampling soil profiles from
the database, but does not launch the simulator.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := Model(Cfg)
		if err != nil {
			return err
		}
		spec, err := Spec(Cfg)
		if err != nil {
			return err
		}
		log.Println("Writing control files...")
		if _, _, err := m.WriteControlFiles(context.Background(), spec); err != nil {
			return err
		}
		log.Printf("Wrote %d control files to %s.", m.Ensembles, spec.Dir)
		return nil
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate inputs, run the simulator, and collect results.",
	Long: `run writes one control file per ensemble member, runs the simulator
once per member in the model instance directory, renames each member's
output artifact, and labels the yield statistics table with the crop
type.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		m, err := Model(Cfg)
		if err != nil {
			return err
		}
		spec, err := Spec(Cfg)
		if err != nil {
			return err
		}
		log.Println("Writing control files...")
		if _, _, err := m.WriteControlFiles(ctx, spec); err != nil {
			return err
		}
		log.Println("Running simulator...")
		results, err := m.RunEnsemble(ctx, spec.Dir)
		if err != nil {
			return err
		}
		for _, res := range results {
			log.Printf("Ensemble member %d finished: %s", res.Ensemble+1, res.Artifact)
		}
		return m.YieldTable(ctx)
	},
	DisableAutoGenTag: true,
}

var importRegionsCmd = &cobra.Command{
	Use:   "import-regions [shapefile]",
	Short: "Load agricultural-area polygons into the database.",
	Long: `import-regions loads polygons from a lat-lon shapefile into the
project schema's agareas table, so that cultivar and soil queries have
region geometries to intersect.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := Model(Cfg)
		if err != nil {
			return err
		}
		n, err := m.ImportRegions(context.Background(), args[0])
		if err != nil {
			return err
		}
		log.Printf("Imported %d regions into %s.agareas.", n, m.Schema)
		return nil
	},
	DisableAutoGenTag: true,
}
