package models

// MConfig Structure
type MConfig struct {
	Name      string           `yaml:"name"`
	Host      string           `yaml:"host"`
	Port      int              `yaml:"port"`
	Env       string           `yaml:"env"`
	LogLevel  string           `yaml:"log_level"`
	Storage   MStorageConfig   `yaml:"storage"`
	Network   MNetworkConfig   `yaml:"network"`
	Generator MGeneratorConfig `yaml:"generator"`
	Dashboard MDashboardConfig `yaml:"dashboard"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"`
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
	FallbackPath       string `yaml:"fallback_path"`
}

type MNetworkConfig struct {
	APIBase        string `yaml:"api_base"`
	RequestTimeout int    `yaml:"timeout"`
	MaxRetries     int    `yaml:"retries"`
	CacheTTLSec    int    `yaml:"cache_ttl_seconds"`
}

type MGeneratorConfig struct {
	LinePoints    int `yaml:"line_points"`
	ScatterPoints int `yaml:"scatter_points"`
	HistorySize   int `yaml:"history_size"`
}

type MDashboardConfig struct {
	DefaultLayoutName      string `yaml:"default_layout_name"`
	RefreshIntervalSeconds int    `yaml:"refresh_interval_seconds"`
}
