// SPDX-License-Identifier: Apache-2.0
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/viper"
)

const (
	// Configuration
	EnvPrefix        = "BELLOWS" // Environment variable prefix for Viper
	ConfigFileName   = "config"  // Config file name for XDG config dir (without extension)
	LocalConfigFile  = "bellows" // Config file name for current directory (without extension)
	ConfigType       = "yaml"    // Config file type
	DefaultConfigExt = ".yaml"   // Default config file extension
)

// Paths holds all XDG-compliant directory paths
type Paths struct {
	DataDir   string
	CacheDir  string
	ConfigDir string

	// Subdirectories
	DownloadDir string // Default shared base-image cache (overridable via download-dir)
}

var (
	// GlobalPaths is the global paths instance
	GlobalPaths *Paths
)

func init() {
	GlobalPaths = GetPaths()
}

// GetPaths returns XDG-compliant directory paths
func GetPaths() *Paths {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to get home directory: %v\n", err)
			os.Exit(1)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to get home directory: %v\n", err)
			os.Exit(1)
		}
		cacheHome = filepath.Join(home, ".cache")
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to get home directory: %v\n", err)
			os.Exit(1)
		}
		configHome = filepath.Join(home, ".config")
	}

	dataDir := filepath.Join(dataHome, "bellows")
	cacheDir := filepath.Join(cacheHome, "bellows")
	configDir := filepath.Join(configHome, "bellows")

	return &Paths{
		DataDir:     dataDir,
		CacheDir:    cacheDir,
		ConfigDir:   configDir,
		DownloadDir: filepath.Join(cacheDir, "download"),
	}
}

// InitDirs creates all necessary directories
func InitDirs() error {
	dirs := []string{
		GlobalPaths.ConfigDir,
		GlobalPaths.DataDir,
		GlobalPaths.CacheDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Settings is the resolved build configuration, constructed once at startup
// and passed into the components that need it.
type Settings struct {
	ImageSize   string            // qemu-img create size, e.g. "32G"
	DownloadDir string            // shared base-image cache directory
	OutputDir   string            // final artifact directory
	WorkdirBase string            // scratch root for per-run workspaces
	ScriptDir   string            // root of per-OS script catalogs
	Downloader  string            // external download command
	Images      map[string]string // OS tag -> base image URL
}

// Load builds Settings from the current Viper state.
func Load() *Settings {
	return &Settings{
		ImageSize:   viper.GetString("image-size"),
		DownloadDir: viper.GetString("download-dir"),
		OutputDir:   viper.GetString("output-dir"),
		WorkdirBase: viper.GetString("workdir-base"),
		ScriptDir:   viper.GetString("script-dir"),
		Downloader:  viper.GetString("downloader"),
		Images:      viper.GetStringMapString("images"),
	}
}

// Tags returns the configured OS tags in sorted order.
func (s *Settings) Tags() []string {
	tags := make([]string, 0, len(s.Images))
	for tag := range s.Images {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// BaseImageURL returns the base image URL for an OS tag.
func (s *Settings) BaseImageURL(tag string) (string, error) {
	url, ok := s.Images[tag]
	if !ok || url == "" {
		return "", fmt.Errorf("no base image URL configured for OS %q", tag)
	}
	return url, nil
}

// BaseImagePath returns the cache path the base image for an OS tag is
// expected at, keyed by the URL's filename.
func (s *Settings) BaseImagePath(tag string) (string, error) {
	url, err := s.BaseImageURL(tag)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.DownloadDir, filepath.Base(url)), nil
}
