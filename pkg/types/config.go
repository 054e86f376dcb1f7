// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "occurrence-engine/0.1"). Per prd003-ingestion R4.2.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// StoreConfig holds settings for the occurrence store.
// Per prd001-identification R1.2.
type StoreConfig struct {
	// DataDir is the base directory for engine data (contains index/).
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// IngestConfig holds settings for pulling identification events from a
// remote occurrence API. Per prd003-ingestion R1.1, R4.1-R4.3.
type IngestConfig struct {
	HTTPConfig `yaml:",inline"`

	// SourceURL is the base URL of the remote occurrence API.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// APIKey is an optional bearer token for the remote API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// PageSize is the number of events requested per page (default 100).
	PageSize int `json:"page_size" yaml:"page_size"`

	// PageDelay is the delay between consecutive page fetches (default 1s).
	PageDelay time.Duration `json:"page_delay" yaml:"page_delay"`
}

// ExportFormat selects the consensus snapshot output format.
// Per prd004-export R2.1-R2.2.
type ExportFormat string

const (
	ExportYAML ExportFormat = "yaml"
	ExportJSON ExportFormat = "json"
)

// ExportConfig holds settings for consensus snapshot exports.
// Per prd004-export R1.1, R2.1-R2.2.
type ExportConfig struct {
	// OutputDir is the directory snapshot files are written to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Format selects the snapshot format: yaml or json.
	Format ExportFormat `json:"format" yaml:"format"`
}

// EngineConfig groups all stage configurations.
type EngineConfig struct {
	Store  StoreConfig  `json:"store" yaml:"store"`
	Ingest IngestConfig `json:"ingest" yaml:"ingest"`
	Export ExportConfig `json:"export" yaml:"export"`
}
