package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Harshitk-cp/lide/internal/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultServer = "http://localhost:8080"

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:   "lide",
		Short: "lide - contradiction and ambiguity checks for conversations",
		Long: `lide sends text to a lide server, which builds a meaning graph and reports
contradictions, ambiguities and vague statements.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (LIDE_*)
3. Config file (~/.lide/config.yaml)
4. Defaults`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(v, cfgFile)
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.lide/config.yaml)")
	root.PersistentFlags().String("server", defaultServer, "lide server URL")
	root.PersistentFlags().String("api-key", "", "API key for the server")
	root.PersistentFlags().Duration("timeout", 60*time.Second, "request timeout")
	_ = v.BindPFlag("server", root.PersistentFlags().Lookup("server"))
	_ = v.BindPFlag("api_key", root.PersistentFlags().Lookup("api-key"))
	_ = v.BindPFlag("timeout", root.PersistentFlags().Lookup("timeout"))

	newClient := func() *client.Client {
		return client.New(v.GetString("server"), v.GetString("api_key"), v.GetDuration("timeout"))
	}

	root.AddCommand(
		newAttachCmd(newClient),
		newListCmd(newClient),
		newExportCmd(newClient),
		newAnalyzeCmd(newClient),
		newVersionCmd(newClient),
	)
	return root
}

// initConfig reads the config file and LIDE_* environment variables.
func initConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".lide"))
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("LIDE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}
