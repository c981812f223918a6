package pipeline

import (
	"log/slog"
	"time"

	ridepower "github.com/lucasjlepore/ride-power"
)

// ManifestFormatVersion identifies the artifact bundle layout.
const ManifestFormatVersion = "ride_power_v1"

// ModelOptions configures the power model shared by Run and RunBytes.
type ModelOptions struct {
	RiderWeightKG     float64
	BikeWeightKG      float64
	RollingResistance float64

	// Tire names a power.TirePresets entry used when RollingResistance is zero.
	Tire     string
	Friction string // legacy|physical
	Window   int

	// StartIndex and EndIndex select the inclusive sample range written to
	// the samples table and summarized in the analysis.
	StartIndex int
	EndIndex   int
}

// Options configures the ride_power pipeline.
type Options struct {
	ModelOptions

	FitPath    string
	OutDir     string
	Format     string // parquet|csv|csv.zst
	Overwrite  bool
	CopySource bool
	Logger     *slog.Logger
}

// BytesOptions configures an in-memory pipeline run.
type BytesOptions struct {
	ModelOptions

	SourceFileName string
	FitData        []byte
	Format         string
	CopySource     bool
	Logger         *slog.Logger
}

// Result returns generated output paths.
type Result struct {
	OutputDir      string   `json:"output_dir"`
	ManifestPath   string   `json:"manifest_path"`
	SamplesPath    string   `json:"samples_path"`
	AnalysisPath   string   `json:"analysis_path"`
	NotesPath      string   `json:"notes_path"`
	SourceCopyPath string   `json:"source_copy_path,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
}

// BytesResult holds generated artifacts keyed by file name.
type BytesResult struct {
	Files    map[string][]byte
	Analysis *ridepower.Analysis
	Warnings []string
}

// Manifest describes one artifact bundle.
type Manifest struct {
	FormatVersion   string    `json:"format_version"`
	GeneratedAt     time.Time `json:"generated_at"`
	SourceFileName  string    `json:"source_file_name"`
	SourceSHA256    string    `json:"source_sha256"`
	SourceSizeBytes int64     `json:"source_size_bytes"`
	SampleCount     int       `json:"sample_count"`
	RangeStart      int       `json:"range_start_index"`
	RangeEnd        int       `json:"range_end_index"`
	SamplesFormat   string    `json:"samples_format"`
	Files           []string  `json:"files"`
	Warnings        []string  `json:"warnings,omitempty"`
}

// PowerSample is one row of the samples table: recorded values and the
// estimate at the same index. Null values are NaN.
type PowerSample struct {
	TSUTCISO       string
	Timestamp      time.Time
	ElapsedS       float64
	RecordIndex    int
	LatitudeDeg    float64
	LongitudeDeg   float64
	AltitudeM      float64
	SpeedMPS       float64
	DistanceM      float64
	PowerW         float64
	HRBPM          float64
	CadenceRPM     float64
	GravitationalW float64
	KineticW       float64
	FrictionalW    float64
	CalculatedW    float64
}
