package cmd

import (
	"fmt"
	"os"

	"github.com/flanksource/commons/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flanksource/bounty-hunter/internal/store"
)

var (
	cfgFile    string
	dbPath     string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "bounty-hunter",
	Short: "Findings database for automated security scanning",
	Long: `bounty-hunter coordinates automated security-finding discovery for
source repositories: it ingests static-analyzer output, deduplicates and
persists findings, and drives the human-approval workflow from Pending
through Approved, Submitted and Paid.

Scan orchestration, repository discovery and notification delivery are
external collaborators; this tool owns the findings store and its lifecycle.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.bounty-hunter.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "findings database file (default is ~/.cache/bounty-hunter/findings.db)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Format output in json")

	logger.BindFlags(rootCmd.PersistentFlags())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".bounty-hunter")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logger.Infof("Using config file: %s", viper.ConfigFileUsed())
	}

	if dbPath == "" {
		dbPath = viper.GetString("db")
	}
}

// openStore opens the findings database honoring the --db flag.
func openStore() (*store.Store, error) {
	if dbPath != "" {
		return store.OpenFile(dbPath)
	}
	return store.Open()
}
