package config

// Configfile represents the structure of the warren.yaml configuration file.
type Configfile struct {
	Version    string      `yaml:"version"`
	BasePath   string      `yaml:"basePath"`
	DefaultEnv string      `yaml:"defaultEnv"`
	Python     string      `yaml:"python"`
	Timeouts   TimeoutsDTO `yaml:"timeouts"`
	Fallback   FallbackDTO `yaml:"fallback"`
	Log        LogDTO      `yaml:"log"`
	Metrics    MetricsDTO  `yaml:"metrics"`
}

// TimeoutsDTO holds process timeouts in milliseconds.
type TimeoutsDTO struct {
	ExecMs    int `yaml:"execMs"`
	PackageMs int `yaml:"packageMs"`
	RunMs     int `yaml:"runMs"`
}

// FallbackDTO configures the source-build install fallback.
type FallbackDTO struct {
	NoBinaryPackages []string `yaml:"noBinaryPackages"`
}

// LogDTO configures the logger.
type LogDTO struct {
	Level string `yaml:"level"`
	JSON  *bool  `yaml:"json"`
}

// MetricsDTO configures the metrics endpoint.
type MetricsDTO struct {
	Listen string `yaml:"listen"`
}
