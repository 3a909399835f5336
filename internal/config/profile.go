package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Profile is the notesync CLI configuration, read from a TOML file and
// overridden by NOTES_* environment variables.
type Profile struct {
	BaseURL     string `toml:"base_url"`
	Token       string `toml:"token"`
	UserId      int64  `toml:"user_id"`
	SyncDelayMs int    `toml:"sync_delay_ms"`
	TimeoutMs   int    `toml:"timeout_ms"`
	Verbose     bool   `toml:"verbose"`
}

func (p Profile) SyncDelay() time.Duration {
	return time.Duration(p.SyncDelayMs) * time.Millisecond
}

func (p Profile) Timeout() time.Duration {
	return time.Duration(p.TimeoutMs) * time.Millisecond
}

func defaultProfile() Profile {
	return Profile{
		BaseURL:     "http://localhost:3000/api",
		SyncDelayMs: 500,
		TimeoutMs:   10000,
	}
}

// LoadProfile reads path if it exists. A missing file yields the defaults.
func LoadProfile(path string) (Profile, error) {
	p := defaultProfile()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return p, fmt.Errorf("read profile: %w", err)
		default:
			if err := toml.Unmarshal(data, &p); err != nil {
				return p, fmt.Errorf("parse profile %s: %w", path, err)
			}
		}
	}

	p.BaseURL = getEnv("NOTES_BASE_URL", p.BaseURL)
	p.Token = getEnv("NOTES_TOKEN", p.Token)
	p.SyncDelayMs = getEnvAsInt("NOTES_SYNC_DELAY_MS", p.SyncDelayMs)
	if p.SyncDelayMs < 0 {
		p.SyncDelayMs = 0
	}
	return p, nil
}

// Save writes the profile back as TOML.
func (p Profile) Save(path string) error {
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
