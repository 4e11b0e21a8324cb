package db

type (
	// GridPoint represents one combination of table-generation parameters
	GridPoint struct {
		ID          int64
		CleanMethod string
		ScaleFactor float64
		TexpFac     float64
		// Unique constraint on (CleanMethod, ScaleFactor, TexpFac)
	}

	// Galaxy represents one synthetic scene
	Galaxy struct {
		ID         int64
		Width      int
		Height     int
		Bands      int
		Seed       int64
		KeptPixels int // pixels the exclusion mask lets through
		// Unique constraint on (Width, Height, Bands, Seed)
	}

	// Result represents one pipeline round trip
	Result struct {
		ID          int64
		GalaxyID    int64
		GridPointID int64

		Rows int // catalogue rows the table kept

		// Round-trip error of the reconstructed flux map
		RMS    float64
		MaxErr float64

		// Timings
		GenMS   float64
		ReconMS float64

		// Unique constraint on (GalaxyID, GridPointID)
	}

	// DetailedResult joins a result with its galaxy and grid point
	DetailedResult struct {
		ID          int64
		Width       int
		Height      int
		Bands       int
		Seed        int64
		KeptPixels  int
		CleanMethod string
		ScaleFactor float64
		TexpFac     float64
		Rows        int
		RMS         float64
		MaxErr      float64
		GenMS       float64
		ReconMS     float64
	}
)
