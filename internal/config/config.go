package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	env_utils "bugtrail/internal/util/env"
	"bugtrail/internal/util/logger"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

var log = logger.GetLogger()

type EnvVariables struct {
	IsTesting   bool
	DatabaseDsn string            `env:"DATABASE_DSN" required:"true"`
	EnvMode     env_utils.EnvMode `env:"ENV_MODE"     required:"true"`
	// Base URL used in invitation links and the widget embed script
	PublicURL string `env:"PUBLIC_URL" required:"true"`
	// cache
	ValkeyHost     string `env:"VALKEY_HOST"     required:"true"`
	ValkeyPort     string `env:"VALKEY_PORT"     required:"true"`
	ValkeyUsername string `env:"VALKEY_USERNAME" required:"false"`
	ValkeyPassword string `env:"VALKEY_PASSWORD" required:"false"`
	ValkeyIsSsl    bool   `env:"VALKEY_IS_SSL"   required:"false"`
	// smtp (optional; notifications are skipped when unset)
	SmtpHost     string `env:"SMTP_HOST"      required:"false"`
	SmtpPort     string `env:"SMTP_PORT"      required:"false"`
	SmtpUsername string `env:"SMTP_USERNAME"  required:"false"`
	SmtpPassword string `env:"SMTP_PASSWORD"  required:"false"`
	SmtpFrom     string `env:"SMTP_FROM"      required:"false"`
	SmtpFromName string `env:"SMTP_FROM_NAME" required:"false"`
}

var (
	env  EnvVariables
	once sync.Once
)

func GetEnv() EnvVariables {
	once.Do(loadEnvVariables)
	return env
}

func loadEnvVariables() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Warn("could not get current working directory", "error", err)
		cwd = "."
	}

	// Walk up to the module root so .env is found when running tests
	// from nested package directories.
	projectRoot := cwd
	for {
		if _, err := os.Stat(filepath.Join(projectRoot, "go.mod")); err == nil {
			break
		}

		parent := filepath.Dir(projectRoot)
		if parent == projectRoot {
			break
		}

		projectRoot = parent
	}

	envPaths := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(projectRoot, ".env"),
	}

	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Info("Loaded .env", "path", path)
			break
		}
	}

	if err := cleanenv.ReadEnv(&env); err != nil {
		log.Error("Configuration could not be loaded", "error", err)
		os.Exit(1)
	}

	for _, arg := range os.Args {
		if strings.Contains(arg, "test") {
			env.IsTesting = true
			break
		}
	}

	if env.DatabaseDsn == "" {
		log.Error("DATABASE_DSN is empty")
		os.Exit(1)
	}

	if !env.EnvMode.IsValid() {
		log.Error("ENV_MODE is invalid", "mode", env.EnvMode)
		os.Exit(1)
	}

	if env.PublicURL == "" {
		log.Error("PUBLIC_URL is empty")
		os.Exit(1)
	}
	env.PublicURL = strings.TrimRight(env.PublicURL, "/")

	if env.ValkeyHost == "" || env.ValkeyPort == "" {
		log.Error("VALKEY_HOST / VALKEY_PORT must be set")
		os.Exit(1)
	}

	log.Info("Environment variables loaded successfully!", "mode", env.EnvMode)
}
