package config

const DefaultMetricsPrefix = "ballot"

type MetricsConfig struct {
	Enabled bool
	Prefix  string
}

func GetDefaultMetricsConfig() *MetricsConfig {
	return &MetricsConfig{
		Enabled: true,
		Prefix:  DefaultMetricsPrefix,
	}
}
