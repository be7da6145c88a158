package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	StageProd = "prod"
	StageDev  = "dev"
)

const (
	defaultMigrationDir = "file://db/migration"
	defaultLogLevel     = "info"
)

type Config struct {
	Stage string
	Port  int

	// Empty means the server runs without analytics
	DatabaseURL  string
	MigrationDir string

	LogLevel log.Level
}

// Load reads the configuration from the environment. Outside of
// prod the variables may also come from a .env file in the working
// directory.
func Load() (Config, error) {
	if os.Getenv("STAGE") != StageProd {
		if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	stage := os.Getenv("STAGE")
	if stage != StageDev && stage != StageProd {
		return Config{}, fmt.Errorf("stage must be either %s or %s, got: %q", StageDev, StageProd, stage)
	}

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid port: %w", err)
	}
	if port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("port out of range: %d", port)
	}

	levelEnv := os.Getenv("LOG_LEVEL")
	if levelEnv == "" {
		levelEnv = defaultLogLevel
	}
	level, err := log.ParseLevel(levelEnv)
	if err != nil {
		return Config{}, err
	}

	migrationDir := os.Getenv("MIGRATION_DIR")
	if migrationDir == "" {
		migrationDir = defaultMigrationDir
	}

	return Config{
		Stage:        stage,
		Port:         port,
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		MigrationDir: migrationDir,
		LogLevel:     level,
	}, nil
}

func IsStageValid(stage string) bool {
	return stage == StageDev || stage == StageProd
}
