package config

import "github.com/banshee-data/headcloud/internal/extract"

// ExtractOptions maps the extraction settings onto extract.Options.
func (c *Config) ExtractOptions() extract.Options {
	return extract.Options{
		HeadRadius:        float32(c.GetHeadRadius()),
		NormalizeRotation: c.GetNormalizeFaceRotation(),
		LogDropped:        c.GetLogDroppedPublishes(),
	}
}
