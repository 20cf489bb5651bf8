// Package config stores the API credential and optional user settings
// under the XDG config directory. The credential file is owner-only and
// written atomically: a half-written token file would lock the user out of
// every command.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	xdgAppName    = "cuppa"
	configFile    = "config.json"
	settingsFile  = "settings.yaml"
	configVersion = "1.0.0"
)

// ErrNotConfigured means no credential file exists yet; the caller should
// tell the user to run setup.
var ErrNotConfigured = errors.New("no API token configured")

// Credentials is the persisted credential file.
type Credentials struct {
	APIToken  string    `json:"api_token"`
	CreatedAt time.Time `json:"created_at"`
	Version   string    `json:"version"`
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

// CredentialsPath returns the credential file location.
func CredentialsPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// LoadCredentials reads the stored credential, or ErrNotConfigured when
// the file does not exist.
func LoadCredentials() (*Credentials, error) {
	path, err := CredentialsPath()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotConfigured
		}
		return nil, err
	}
	defer f.Close()

	var creds Credentials
	if err := json.NewDecoder(f).Decode(&creds); err != nil {
		return nil, fmt.Errorf("failed to decode credentials: %w", err)
	}
	if creds.APIToken == "" {
		return nil, ErrNotConfigured
	}
	return &creds, nil
}

// SaveCredentials writes the token with owner-only permissions. The write
// goes through a temp file in the same directory followed by a rename so a
// crash never leaves a truncated credential file behind.
func SaveCredentials(token string) (string, error) {
	path, err := CredentialsPath()
	if err != nil {
		return "", err
	}

	creds := Credentials{
		APIToken:  token,
		CreatedAt: time.Now(),
		Version:   configVersion,
	}
	content, err := json.MarshalIndent(&creds, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode credentials: %w", err)
	}

	if err := atomicWrite(path, content, 0600); err != nil {
		return "", err
	}
	return path, nil
}

// Settings is the optional settings.yaml file. Absence of the file (or any
// field) is not an error; everything has a working default.
type Settings struct {
	// DefaultTeam narrows task views to one workspace when set.
	DefaultTeam string `yaml:"default_team,omitempty"`
}

// SettingsPath returns the settings file location.
func SettingsPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, settingsFile), nil
}

// LoadSettings reads settings.yaml, returning defaults when it is missing.
func LoadSettings() (*Settings, error) {
	path, err := SettingsPath()
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, err
	}

	var s Settings
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return &s, nil
}

// SaveSettings writes settings.yaml atomically.
func SaveSettings(s *Settings) error {
	path, err := SettingsPath()
	if err != nil {
		return err
	}
	content, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return atomicWrite(path, content, 0644)
}

func atomicWrite(path string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cuppa-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to rename into place: %w", err)
	}
	return nil
}
