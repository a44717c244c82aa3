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

// Command dssat is a command-line interface for generating DSSAT
// crop-simulation inputs and driving the simulator.
package main

import (
	"fmt"
	"os"

	"github.com/spatialcrop/dssat/dssatutil"
)

func main() {
	if err := dssatutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
