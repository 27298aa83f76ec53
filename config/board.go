package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// BoardConfig configures the terminal board client.
type BoardConfig struct {
	ServerURL string `yaml:"server_url"`
	Email     string `yaml:"email"`
	TokenFile string `yaml:"token_file"`
	LogFile   string `yaml:"log_file"`
}

func defaultBoardConfig() *BoardConfig {
	dir := boardConfigDir()
	return &BoardConfig{
		ServerURL: "http://localhost:8080",
		TokenFile: filepath.Join(dir, "token"),
		LogFile:   filepath.Join(dir, "board.log"),
	}
}

func boardConfigDir() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "taskboard")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "taskboard")
	}
	return "."
}

// BoardConfigPath returns the default location of board.yaml.
func BoardConfigPath() string {
	return filepath.Join(boardConfigDir(), "board.yaml")
}

// LoadBoard reads the YAML file at path, falling back to defaults when it does
// not exist. TASKBOARD_URL overrides the server address.
func LoadBoard(path string) (*BoardConfig, error) {
	cfg := defaultBoardConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		var fileCfg BoardConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, err
		}
		cfg.mergeFrom(fileCfg)
	}

	if url := os.Getenv("TASKBOARD_URL"); url != "" {
		cfg.ServerURL = url
	}
	return cfg, nil
}

func (c *BoardConfig) mergeFrom(other BoardConfig) {
	if other.ServerURL != "" {
		c.ServerURL = other.ServerURL
	}
	if other.Email != "" {
		c.Email = other.Email
	}
	if other.TokenFile != "" {
		c.TokenFile = other.TokenFile
	}
	if other.LogFile != "" {
		c.LogFile = other.LogFile
	}
}

// LoadToken returns the saved session token, or "" when none is stored.
func (c *BoardConfig) LoadToken() string {
	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		return ""
	}
	return string(data)
}

// SaveToken persists the session token; an empty token removes the file.
func (c *BoardConfig) SaveToken(token string) error {
	if token == "" {
		err := os.Remove(c.TokenFile)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.TokenFile), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.TokenFile, []byte(token), 0o600)
}
