package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Settings is loaded from an optional YAML file, then overridden by the environment.
type Settings struct {
	Port    string `yaml:"port"`
	GinMode string `yaml:"gin_mode"`

	Database struct {
		Driver     string `yaml:"driver"` // mysql | postgres | sqlite
		URL        string `yaml:"url"`
		Host       string `yaml:"host"`
		Port       string `yaml:"port"`
		User       string `yaml:"user"`
		Password   string `yaml:"password"`
		Name       string `yaml:"name"`
		SQLitePath string `yaml:"sqlite_path"`
		LogLevel   string `yaml:"log_level"`
	} `yaml:"database"`

	JWT struct {
		Secret     string        `yaml:"secret"`
		AccessTTL  time.Duration `yaml:"access_ttl"`
		RefreshTTL time.Duration `yaml:"refresh_ttl"`
	} `yaml:"jwt"`

	CORSOrigins []string `yaml:"cors_origins"`

	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
	} `yaml:"smtp"`

	Seed struct {
		AdminUsername string `yaml:"admin_username"`
		AdminEmail    string `yaml:"admin_email"`
		AdminPassword string `yaml:"admin_password"`
		SampleRooms   bool   `yaml:"sample_rooms"`
	} `yaml:"seed"`
}

func defaultSettings() Settings {
	var s Settings
	s.Port = "8080"
	s.GinMode = "release"
	s.Database.Driver = "mysql"
	s.Database.Host = "127.0.0.1"
	s.Database.Port = "3306"
	s.Database.User = "root"
	s.Database.Name = "hotel_reservation"
	s.Database.SQLitePath = "./hotel.db"
	s.Database.LogLevel = "warn"
	s.JWT.AccessTTL = 60 * time.Minute
	s.JWT.RefreshTTL = 24 * time.Hour
	s.CORSOrigins = []string{"*"}
	s.SMTP.Port = 587
	s.Seed.AdminUsername = "admin"
	s.Seed.AdminEmail = "admin@hotel.local"
	return s
}

// EnvOrDefault returns the trimmed environment value, or def when unset or blank.
func EnvOrDefault(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

// Load reads .env (optional), CONFIG_FILE (optional) and the environment.
func Load() (Settings, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	s := defaultSettings()
	if path := EnvOrDefault("CONFIG_FILE", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return s, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &s); err != nil {
			return s, fmt.Errorf("parse config file %s: %w", path, err)
		}
		log.Printf("✅ config file %s loaded", path)
	}

	if err := applyEnv(&s); err != nil {
		return s, err
	}
	if strings.TrimSpace(s.JWT.Secret) == "" {
		return s, fmt.Errorf("JWT_SECRET is not set")
	}
	return s, nil
}

func applyEnv(s *Settings) error {
	s.Port = EnvOrDefault("PORT", s.Port)
	s.GinMode = EnvOrDefault("GIN_MODE", s.GinMode)

	db := &s.Database
	db.Driver = strings.ToLower(EnvOrDefault("DB_DRIVER", db.Driver))
	db.URL = EnvOrDefault("MYSQL_URL", EnvOrDefault("DATABASE_URL", db.URL))
	db.Host = EnvOrDefault("DB_HOST", db.Host)
	db.Port = EnvOrDefault("DB_PORT", db.Port)
	db.User = EnvOrDefault("DB_USER", db.User)
	db.Password = EnvOrDefault("DB_PASS", db.Password)
	db.Name = EnvOrDefault("DB_NAME", db.Name)
	db.SQLitePath = EnvOrDefault("SQLITE_PATH", db.SQLitePath)
	db.LogLevel = EnvOrDefault("DB_LOG_LEVEL", db.LogLevel)

	s.JWT.Secret = EnvOrDefault("JWT_SECRET", s.JWT.Secret)
	var err error
	if s.JWT.AccessTTL, err = envDuration("ACCESS_TOKEN_TTL", s.JWT.AccessTTL); err != nil {
		return err
	}
	if s.JWT.RefreshTTL, err = envDuration("REFRESH_TOKEN_TTL", s.JWT.RefreshTTL); err != nil {
		return err
	}

	if raw := EnvOrDefault("CORS_ORIGINS", ""); raw != "" {
		s.CORSOrigins = splitList(raw)
	}

	s.SMTP.Host = EnvOrDefault("SMTP_HOST", s.SMTP.Host)
	if raw := EnvOrDefault("SMTP_PORT", ""); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("SMTP_PORT must be a number: %w", err)
		}
		s.SMTP.Port = port
	}
	s.SMTP.User = EnvOrDefault("SMTP_USER", s.SMTP.User)
	s.SMTP.Password = EnvOrDefault("SMTP_PASS", s.SMTP.Password)
	s.SMTP.From = EnvOrDefault("SMTP_FROM", s.SMTP.From)

	s.Seed.AdminUsername = EnvOrDefault("ADMIN_USERNAME", s.Seed.AdminUsername)
	s.Seed.AdminEmail = EnvOrDefault("ADMIN_EMAIL", s.Seed.AdminEmail)
	s.Seed.AdminPassword = EnvOrDefault("ADMIN_PASSWORD", s.Seed.AdminPassword)
	if raw := EnvOrDefault("SEED_SAMPLE_ROOMS", ""); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("SEED_SAMPLE_ROOMS must be true or false: %w", err)
		}
		s.Seed.SampleRooms = v
	}
	return nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	raw := EnvOrDefault(key, "")
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def, fmt.Errorf("%s must be a duration like 60m: %w", key, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
