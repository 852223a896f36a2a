package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// load resolves the configuration for gameID.
// Search order: customPath -> ~/.natari/configs/<game>.yaml -> ./configs/<game>.yaml
// -> embedded default -> hardcoded fallback.
// Only an explicit customPath can produce an error; the other locations are
// optional and skipped when missing or malformed.
func load[T any](gameID, customPath string, fallback func() T) (T, error) {
	var cfg T
	filename := gameID + ".yaml"

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg = fallback()
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(filename); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			cfg = fallback()
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", filename)); err == nil {
		cfg = fallback()
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg = fallback()
	if err := yaml.Unmarshal(GetDefaultYAML(gameID), &cfg); err != nil {
		return fallback(), nil
	}
	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".natari", "configs", filename)
}

// LoadPong loads 2D ping-pong configuration.
func LoadPong(customPath string) (PongConfig, error) {
	return load("pong", customPath, DefaultPongConfig)
}

// LoadPong3D loads volumetric ping-pong configuration.
func LoadPong3D(customPath string) (PongConfig, error) {
	return load("pong3d", customPath, DefaultPong3DConfig)
}

// LoadSnake loads two-player snake configuration.
func LoadSnake(customPath string) (SnakeConfig, error) {
	return load("snake", customPath, DefaultSnakeConfig)
}

// LoadArcade loads cell counting arcade configuration.
func LoadArcade(customPath string) (ArcadeConfig, error) {
	return load("arcade", customPath, DefaultArcadeConfig)
}

// LoadPuzzle loads sliding puzzle configuration.
func LoadPuzzle(customPath string) (PuzzleConfig, error) {
	return load("puzzle", customPath, DefaultPuzzleConfig)
}
