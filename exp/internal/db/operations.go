package db

import (
	"database/sql"
	"fmt"
)

// InsertGridPoint inserts or gets an existing grid point
func (d *DB) InsertGridPoint(cleanMethod string, scaleFactor, texpFac float64) (int64, error) {
	// Try to get existing
	var id int64
	err := d.db.QueryRow(
		"SELECT id FROM grid_points WHERE clean_method = ? AND scale_factor = ? AND texp_fac = ?",
		cleanMethod, scaleFactor, texpFac,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to query grid point: %w", err)
	}

	// Insert new
	result, err := d.db.Exec(
		"INSERT INTO grid_points (clean_method, scale_factor, texp_fac) VALUES (?, ?, ?)",
		cleanMethod, scaleFactor, texpFac,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert grid point: %w", err)
	}
	return result.LastInsertId()
}

// InsertGalaxy inserts or gets an existing synthetic galaxy
func (d *DB) InsertGalaxy(width, height, bands int, seed int64, keptPixels int) (int64, error) {
	// Try to get existing
	var id int64
	err := d.db.QueryRow(
		"SELECT id FROM galaxies WHERE width = ? AND height = ? AND bands = ? AND seed = ?",
		width, height, bands, seed,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to query galaxy: %w", err)
	}

	// Insert new
	result, err := d.db.Exec(
		"INSERT INTO galaxies (width, height, bands, seed, kept_pixels) VALUES (?, ?, ?, ?, ?)",
		width, height, bands, seed, keptPixels,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert galaxy: %w", err)
	}
	return result.LastInsertId()
}

// InsertResult inserts a result (or updates if already exists)
func (d *DB) InsertResult(result *Result) (int64, error) {
	// Check if result already exists
	var existingID int64
	err := d.db.QueryRow(
		"SELECT id FROM results WHERE galaxy_id = ? AND grid_point_id = ?",
		result.GalaxyID, result.GridPointID,
	).Scan(&existingID)

	if err == nil {
		// Update existing
		_, err = d.db.Exec(`
			UPDATE results SET
				kept_rows = ?,
				rms = ?,
				max_err = ?,
				gen_ms = ?,
				recon_ms = ?
			WHERE id = ?`,
			result.Rows,
			result.RMS,
			result.MaxErr,
			result.GenMS,
			result.ReconMS,
			existingID,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to update result: %w", err)
		}
		return existingID, nil
	}

	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to query existing result: %w", err)
	}

	// Insert new
	res, err := d.db.Exec(`
		INSERT INTO results (
			galaxy_id, grid_point_id,
			kept_rows, rms, max_err, gen_ms, recon_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.GalaxyID,
		result.GridPointID,
		result.Rows,
		result.RMS,
		result.MaxErr,
		result.GenMS,
		result.ReconMS,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert result: %w", err)
	}
	return res.LastInsertId()
}

// ListDetailedResults retrieves all results joined with their parameters
func (d *DB) ListDetailedResults() ([]*DetailedResult, error) {
	rows, err := d.db.Query(`
		SELECT id, width, height, bands, seed, kept_pixels,
		       clean_method, scale_factor, texp_fac,
		       kept_rows, rms, max_err, gen_ms, recon_ms
		FROM results_detailed
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []*DetailedResult
	for rows.Next() {
		var r DetailedResult
		err := rows.Scan(
			&r.ID, &r.Width, &r.Height, &r.Bands, &r.Seed, &r.KeptPixels,
			&r.CleanMethod, &r.ScaleFactor, &r.TexpFac,
			&r.Rows, &r.RMS, &r.MaxErr, &r.GenMS, &r.ReconMS,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, &r)
	}
	return results, rows.Err()
}

// CountResults counts total results
func (d *DB) CountResults() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM results").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count results: %w", err)
	}
	return count, nil
}
