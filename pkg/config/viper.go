// SPDX-License-Identifier: Apache-2.0
package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// InitViper initializes Viper configuration with defaults and search paths
// Precedence order: ENV > dir-conf > user-conf > defaults
func InitViper() {
	// Set config type
	viper.SetConfigType(ConfigType)

	// Set defaults (lowest precedence)
	viper.SetDefault("log-level", "warn")
	viper.SetDefault("image-size", "32G")
	viper.SetDefault("download-dir", GlobalPaths.DownloadDir)
	viper.SetDefault("output-dir", "output")
	viper.SetDefault("workdir-base", "/dev/shm/bellows")
	viper.SetDefault("script-dir", "script")
	viper.SetDefault("downloader", "axel")
	viper.SetDefault("images.debian-13", "https://cdimage.debian.org/images/cloud/trixie/latest/debian-13-genericcloud-amd64.qcow2")
	viper.SetDefault("images.ubuntu-2204", "https://cloud-images.ubuntu.com/jammy/current/jammy-server-cloudimg-amd64.img")

	// Enable environment variable support (highest precedence)
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
}

// LoadConfig reads config files in precedence order
// Precedence: ENV > ./bellows.yaml > ~/.config/bellows/config.yaml > defaults
func LoadConfig() error {
	// First, try to read user config from XDG config directory
	viper.SetConfigName(ConfigFileName)
	viper.AddConfigPath(GlobalPaths.ConfigDir)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read user config file: %w", err)
		}
		// Config file not found is OK
	}

	// Then, try to merge in local directory config (overrides user config)
	viper.SetConfigName(LocalConfigFile)
	viper.AddConfigPath(".")

	if err := viper.MergeInConfig(); err != nil {
		// Ignore if local config doesn't exist
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read local config file: %w", err)
		}
	} else {
		log.Debugf("Merged local config from %s", viper.ConfigFileUsed())
	}

	return nil
}

// BindFlags binds command-line flags to Viper keys so config files and
// environment variables can override flag defaults.
func BindFlags(flags *pflag.FlagSet) {
	if f := flags.Lookup("log-level"); f != nil {
		if err := viper.BindPFlag("log-level", f); err != nil {
			log.Debugf("Failed to bind log-level flag: %v", err)
		}
	}
}

// GetLogLevel returns the log-level configuration value
func GetLogLevel() string {
	return viper.GetString("log-level")
}
