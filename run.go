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
	"os"
	"os/exec"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// runMode is the positional argument selecting the simulator's batch
// run mode.
const runMode = "D"

// rawOutputName is the fixed file name the simulator writes its
// growth output to. It is overwritten on every run, so each member's
// output must be renamed away before the next member runs.
const rawOutputName = "PlantGro.OUT"

// OutputFileName returns the collected output artifact name for
// ensemble member ens (zero-based).
func OutputFileName(ens int) string {
	return fmt.Sprintf("PLANTGRO%03d.OUT", ens+1)
}

// RunResult describes one completed simulator invocation.
type RunResult struct {
	Ensemble int    // zero-based ensemble member index
	ExitCode int    // simulator exit code
	Output   []byte // combined stdout and stderr
	Artifact string // path of the renamed output file
}

// RunEnsemble runs the simulator once per ensemble member in modelpath,
// sequentially, renaming each run's output artifact to its
// ensemble-indexed name before the next member starts. The first
// failing member aborts the run; results for members completed before
// the failure are returned alongside the error.
func (m *Model) RunEnsemble(ctx context.Context, modelpath string) ([]RunResult, error) {
	results := make([]RunResult, 0, m.Ensembles)
	for ens := 0; ens < m.Ensembles; ens++ {
		res, err := m.runMember(ctx, modelpath, ens)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// runMember launches the simulator for one ensemble member and waits
// for it to finish. The simulator runs with modelpath as its working
// directory; no process-global directory state is touched.
func (m *Model) runMember(ctx context.Context, modelpath string, ens int) (RunResult, error) {
	input := InputFileName(m.Ensembles, ens)
	cmd := exec.CommandContext(ctx, m.Executable, runMode, input)
	cmd.Dir = modelpath
	out, err := cmd.CombinedOutput()
	logrus.WithFields(logrus.Fields{"ensemble": ens + 1, "input": input}).Debug(string(out))

	res := RunResult{Ensemble: ens, Output: out}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}
	if err != nil {
		return res, fmt.Errorf("dssat: running %s for ensemble member %d: %v", m.Executable, ens+1, err)
	}

	artifact := filepath.Join(modelpath, OutputFileName(ens))
	if err := os.Rename(filepath.Join(modelpath, rawOutputName), artifact); err != nil {
		return res, fmt.Errorf("dssat: collecting output for ensemble member %d: %w", ens+1, err)
	}
	res.Artifact = artifact
	return res, nil
}
