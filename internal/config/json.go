package config

import (
	"encoding/json"
	"os"

	"github.com/nkarpov/entrypad/internal/flagx"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	DatabaseDSN        string `json:"database_dsn"`
	EncryptionPassword string `json:"encryption_password"`
	EncryptionSalt     string `json:"encryption_salt"`
	LogLevel           string `json:"log_level"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path is taken from the -c or -config flags;
// if neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(data, c); err != nil {
		panic(err)
	}

	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.EncryptionPassword != "" {
		config.EncryptionPassword = c.EncryptionPassword
	}
	if c.EncryptionSalt != "" {
		config.EncryptionSalt = c.EncryptionSalt
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
}
