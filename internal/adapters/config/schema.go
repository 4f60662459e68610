package config

// Owlfile represents the structure of the owlcache.yaml configuration file.
type Owlfile struct {
	Cache CacheDTO `yaml:"cache"`
}

// CacheDTO holds the cache settings of the configuration file. Pointer
// fields distinguish "absent" from an explicit zero value.
type CacheDTO struct {
	Enabled       *bool  `yaml:"enabled"`
	Dir           string `yaml:"dir"`
	MaxEntries    *int   `yaml:"maxEntries"`
	MaxMemoryMB   *int64 `yaml:"maxMemoryMB"`
	Eviction      string `yaml:"eviction"`
	ValidateFiles *bool  `yaml:"validateFiles"`
}
