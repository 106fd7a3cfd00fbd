package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pders01/git-pages/internal/config"
	"github.com/pders01/git-pages/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "git-pages",
	Short: "Mirror a git snapshot into a browsable static site",
	Long: `git-pages renders the tracked files of a repository as a static site:
  - one syntax-highlighted page per file
  - an index page with a collapsible directory tree
  - a README preview on the index

Repositories can be shipped to an S3 bucket as repo.zip archives with
push and pull, and every archived repository can be rendered at once
with generate-all.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/git-pages/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print results and warnings")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "git-pages")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil && !quiet {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newPrinter() *output.Printer {
	return output.New(quiet)
}
