// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the rentscope CLI: NYC residential
// property investment analysis from address to recommendation.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/rentscope/internal/secrets"
	"github.com/pdiddy/rentscope/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if set, the named secret otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the rentscope CLI.
var rootCmd = &cobra.Command{
	Use:   "rentscope",
	Short: "NYC residential property investment analysis",
	Long: `rentscope analyzes NYC residential properties for rental investment:
geocoding, property registry resolution, crime/transit/amenity scoring,
rental comparables and a revenue model feed a financial and risk
recommendation with transparent data quality scoring.

Without API credentials every stage runs in demo mode on simulated data,
clearly tagged as such in the output.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./rentscope.yaml or ~/.config/rentscope/config.yaml)")
	rootCmd.PersistentFlags().String("google-api-key", "", "Google Maps API key (default: .secrets/google-maps-api-key)")
	rootCmd.PersistentFlags().String("app-token", "", "NYC Open Data app token (default: .secrets/nyc-open-data-app-token)")
	rootCmd.PersistentFlags().Int64("seed", 0, "random seed for reproducible runs (0 = time-based)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("rentscope")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "rentscope"))
		}
	}

	viper.SetEnvPrefix("RENTSCOPE")
	viper.AutomaticEnv()

	viper.SetDefault("http.timeout", "15s")
	viper.SetDefault("model.training_samples", 1500)
	viper.SetDefault("cache.enabled", false)
	viper.SetDefault("cache.path", "data/rentscope.db")
	viper.SetDefault("server.addr", ":8080")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles the stage configurations from flags, config
// file and loaded secrets.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	apiKey, _ := cmd.Flags().GetString("google-api-key")
	appToken, _ := cmd.Flags().GetString("app-token")
	seed, _ := cmd.Flags().GetInt64("seed")

	apiKey = secretDefault(secrets.GoogleMapsKey, apiKey)
	appToken = secretDefault(secrets.NYCAppToken, appToken)

	httpCfg := types.HTTPConfig{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: "rentscope/" + version,
	}

	return types.PipelineConfig{
		Geocoding: types.GeocodingConfig{
			HTTPConfig: httpCfg,
			APIKey:     apiKey,
			MinDelay:   100 * time.Millisecond,
		},
		Registry: types.RegistryConfig{
			HTTPConfig: httpCfg,
			AppToken:   appToken,
			MinDelay:   time.Second,
		},
		Location: types.LocationConfig{
			HTTPConfig:   httpCfg,
			PlacesAPIKey: apiKey,
			AppToken:     appToken,
			StationsFile: viper.GetString("location.stations_file"),
			MinDelay:     time.Second,
		},
		Model: types.ModelConfig{
			TrainingSamples: viper.GetInt("model.training_samples"),
			Seed:            seed,
		},
		Cache: types.CacheConfig{
			Enabled: viper.GetBool("cache.enabled"),
			Path:    viper.GetString("cache.path"),
		},
		Server: types.ServerConfig{
			Addr: viper.GetString("server.addr"),
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
