package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StorageBackend selects where the credential record is persisted.
type StorageBackend string

const (
	// StorageBackendFile keeps credentials in a local JSON file.
	StorageBackendFile StorageBackend = "file"
	// StorageBackendRedis keeps credentials in Redis, for shared-terminal
	// deployments where nothing may persist on the local disk.
	StorageBackendRedis StorageBackend = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for StorageBackend.
func (b *StorageBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "file", "redis":
		*b = StorageBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid StorageBackend: %q (valid options: file, redis)", v)
	}
}

// StorageConfig contains credential storage configuration.
type StorageConfig struct {
	// Backend determines which storage adapter backs the credential store.
	Backend StorageBackend `env:"BACKEND" envDefault:"file"`

	// Path is the credential file location for the file backend. Empty means
	// a per-user default under the OS config directory.
	Path string `env:"PATH"`
}

// RedisConfig contains Redis configuration for the redis storage backend.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`

	// KeyPrefix namespaces this installation's keys.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"kinebilan:"`
}

// Sanitize fills in the default credential file path when none is configured.
func (c *StorageConfig) Sanitize() {
	if c.Backend == "" {
		c.Backend = StorageBackendFile
	}
	if c.Backend == StorageBackendFile && c.Path == "" {
		c.Path = defaultCredentialPath()
	}
}

func defaultCredentialPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "kinebilan", "credentials.json")
}
