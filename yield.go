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
)

// YieldTable ensures the per-region yield statistics table exists and
// labels rows that have no crop type yet with the model's crop. The
// update runs in a single transaction; failure rolls back and
// propagates.
func (m *Model) YieldTable(ctx context.Context) error {
	conn, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	_, err = conn.Exec(ctx, fmt.Sprintf(`create table if not exists %s.yield
		(gid integer, ensemble integer, harvested date,
		max_yield real, avg_yield real, min_yield real, crop text)`, m.Schema))
	if err != nil {
		return fmt.Errorf("dssat: creating yield table: %w", err)
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("dssat: labeling yield table: %w", err)
	}
	defer tx.Rollback(ctx)
	if _, err := tx.Exec(ctx, fmt.Sprintf("update %s.yield set crop=$1 where crop is null", m.Schema), m.Crop); err != nil {
		return fmt.Errorf("dssat: labeling yield table: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("dssat: labeling yield table: %w", err)
	}
	return nil
}
