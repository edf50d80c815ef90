// Package config reads the settings of the asset server and the headless
// client from the environment, loading a .env file first when present.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"myeasyevent_front/internal/router"
	"myeasyevent_front/internal/view"
)

// Config holds every setting the binaries need.
type Config struct {
	// Port is the asset server listen port.
	Port string
	// StaticDir serves assets from disk instead of the embedded copy.
	StaticDir string
	// AssetOrigin is where the headless client fetches the site from.
	AssetOrigin string
	// BackendURL is the root of the PHP API.
	BackendURL string
	// MountPrefix is the deployment sub-path.
	MountPrefix string
	// LocalHosts are the hosts that always use the mount prefix.
	LocalHosts []string
	// RedisURL, when set, backs localStorage with a Redis hash.
	RedisURL string
	// ExitDelay is the fade-out wait between two views.
	ExitDelay time.Duration
	// Debug turns on debug logging.
	Debug bool
}

// Load reads .env (if any) then the environment.
func Load() (*Config, bool) {
	loaded := godotenv.Load() == nil
	return FromEnv(), loaded
}

// FromEnv reads the environment with defaults for unset values.
func FromEnv() *Config {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		StaticDir:   os.Getenv("STATIC_DIR"),
		AssetOrigin: getEnv("ASSET_ORIGIN", "http://localhost:8080"),
		BackendURL:  getEnv("BACKEND_URL", "http://localhost/myeasyevent-back/"),
		MountPrefix: getEnv("MOUNT_PREFIX", router.DeployPrefix),
		LocalHosts:  router.DefaultLocalHosts,
		RedisURL:    os.Getenv("REDIS_URL"),
		ExitDelay:   view.DefaultExitDelay,
		Debug:       os.Getenv("DEBUG") == "true",
	}
	if hosts := os.Getenv("LOCAL_HOSTS"); hosts != "" {
		cfg.LocalHosts = splitList(hosts)
	}
	if raw := os.Getenv("EXIT_DELAY"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d >= 0 {
			cfg.ExitDelay = d
		}
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
