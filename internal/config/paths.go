package config

import (
	"os"
	"path/filepath"
	"runtime"

	shipfs "github.com/sqve/shipit/internal/fs"
)

// ProjectFileName is the per-repository config file looked up in the working directory.
const ProjectFileName = ".shipit.toml"

// UserFileName is the config file name inside the user config directory.
const UserFileName = "config.toml"

// GetConfigPaths returns the directories searched for config files.
// The order is important - first paths have higher precedence
func GetConfigPaths() []string {
	var paths []string

	// 1. Environment variable override (highest precedence)
	if envPath := os.Getenv("SHIPIT_CONFIG"); envPath != "" {
		paths = append(paths, filepath.Dir(envPath))
	}

	// 2. Current directory (project-specific config)
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, cwd)
	}

	// 3. User config directory (platform-specific)
	if userConfigDir := getUserConfigDir(); userConfigDir != "" {
		paths = append(paths, userConfigDir)
	}

	return paths
}

// FindConfigFile returns the first existing config file, or "" when none exists.
func FindConfigFile() string {
	if envPath := os.Getenv("SHIPIT_CONFIG"); envPath != "" {
		return envPath
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, ProjectFileName)
		if shipfs.FileExists(shipfs.OS(), candidate) {
			return candidate
		}
	}

	if userConfigDir := getUserConfigDir(); userConfigDir != "" {
		candidate := filepath.Join(userConfigDir, UserFileName)
		if shipfs.FileExists(shipfs.OS(), candidate) {
			return candidate
		}
	}

	return ""
}

// getUserConfigDir returns the user's config directory based on platform
func getUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "shipit")
		}
		return ""
	case "darwin":
		if homeDir := getHomeDir(); homeDir != "" {
			return filepath.Join(homeDir, "Library", "Application Support", "shipit")
		}
		return ""
	default:
		// XDG Base Directory specification
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			return filepath.Join(xdgConfig, "shipit")
		}
		if homeDir := getHomeDir(); homeDir != "" {
			return filepath.Join(homeDir, ".config", "shipit")
		}
		return ""
	}
}

func getHomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
		return userProfile
	}
	return ""
}

// GetDefaultConfigPath returns the user-level config file path for the current platform
func GetDefaultConfigPath() string {
	configDir := getUserConfigDir()
	if configDir == "" {
		return ""
	}
	return filepath.Join(configDir, UserFileName)
}
