package config

// GetDefault returns the default configuration
func GetDefault() *Config {
	return &Config{
		ExcludePatterns: []string{
			".git",
			"node_modules",
			"*.tmp",
		},
		MinFileSize: "1B", // empty files all collide; skip them
		Workers:     0,    // host parallelism
		PrefixSize:  "8KB",
		Digest:      "sha256",
		Format:      "summary",
		NoProgress:  false,
		Verbose:     false,
	}
}
