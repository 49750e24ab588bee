// ABOUTME: Root command for the pelikan-sizer CLI
// ABOUTME: Handles global flags and layered settings (flag, env, config file, default)

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	apiURL     string
	jsonOutput bool
	configFile string
)

const defaultAPIURL = "http://localhost:8080"

// settings holds values from env and the config file; flags are read
// directly so an explicit flag always wins.
var settings = newSettings()

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "pelikan-sizer",
	Short: "Capacity calculator for Pelikan cache clusters",
	Long: `pelikan-sizer sizes Pelikan cache clusters and single instances.

It talks to the capacity calculator API, or computes in-process with --local.

Environment Variables:
  PELIKAN_SIZER_API_URL  Backend API URL (default: http://localhost:8080)
  PELIKAN_SIZER_JSON     Output JSON instead of human-readable text

Settings may also be placed in ~/.pelikan-sizer.yaml:
  api_url: http://sizer.internal:8080
  json: true`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfigFile(settings, configFile)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides PELIKAN_SIZER_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ~/.pelikan-sizer.yaml)")
}

func newSettings() *viper.Viper {
	v := viper.New()
	v.SetDefault("api_url", defaultAPIURL)
	v.SetDefault("json", false)
	v.SetEnvPrefix("PELIKAN_SIZER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// loadConfigFile merges path, or ~/.pelikan-sizer.yaml when path is empty,
// into v. Only an explicitly named file must exist.
func loadConfigFile(v *viper.Viper, path string) error {
	explicit := path != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(home, ".pelikan-sizer.yaml")
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	return nil
}

// GetAPIURL returns the API URL from flag, env, config file, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	return settings.GetString("api_url")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput || settings.GetBool("json")
}
