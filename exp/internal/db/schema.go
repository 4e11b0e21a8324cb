package db

const schema = `
-- Grid points table (table-generation parameters)
CREATE TABLE IF NOT EXISTS grid_points (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    clean_method TEXT NOT NULL,
    scale_factor REAL NOT NULL,
    texp_fac REAL NOT NULL,
    UNIQUE(clean_method, scale_factor, texp_fac)
);

-- Galaxies table (synthetic scene parameters)
CREATE TABLE IF NOT EXISTS galaxies (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    bands INTEGER NOT NULL,
    seed INTEGER NOT NULL,
    kept_pixels INTEGER NOT NULL,
    UNIQUE(width, height, bands, seed)
);

-- Results table
CREATE TABLE IF NOT EXISTS results (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    galaxy_id INTEGER NOT NULL,
    grid_point_id INTEGER NOT NULL,

    kept_rows INTEGER NOT NULL,

    rms REAL NOT NULL,
    max_err REAL NOT NULL,

    gen_ms REAL NOT NULL,
    recon_ms REAL NOT NULL,

    FOREIGN KEY (galaxy_id) REFERENCES galaxies(id) ON DELETE CASCADE,
    FOREIGN KEY (grid_point_id) REFERENCES grid_points(id) ON DELETE CASCADE,
    UNIQUE(galaxy_id, grid_point_id)
);

-- Indexes for performance
CREATE INDEX IF NOT EXISTS idx_results_rms ON results(rms);
CREATE INDEX IF NOT EXISTS idx_results_galaxy ON results(galaxy_id);
CREATE INDEX IF NOT EXISTS idx_grid_points_texp ON grid_points(texp_fac);
CREATE INDEX IF NOT EXISTS idx_galaxies_dims ON galaxies(width, height);

-- View for easy querying with all details
CREATE VIEW IF NOT EXISTS results_detailed AS
SELECT
    r.id,

    g.width,
    g.height,
    g.bands,
    g.seed,
    g.kept_pixels,

    gp.clean_method,
    gp.scale_factor,
    gp.texp_fac,

    r.kept_rows,
    r.rms,
    r.max_err,
    r.gen_ms,
    r.recon_ms
FROM results r
JOIN galaxies g ON r.galaxy_id = g.id
JOIN grid_points gp ON r.grid_point_id = gp.id;
`
