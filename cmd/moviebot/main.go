package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "moviebot",
	Short: "Chat about movies with a tool-using assistant",
	Long: `moviebot answers movie questions. The assistant can show movie
information, cast lists, title search results and filtered lists.

Configuration is read from (highest precedence first):
  1. flags
  2. MOVIEBOT_* environment variables (MOVIEBOT_MOVIES_API_KEY, ...)
  3. --config, or moviebot.yaml in . or $HOME/.config/moviebot

ANTHROPIC_API_KEY must be set.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./moviebot.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("history", "", "history backend: none, file, sqlite")
	rootCmd.PersistentFlags().String("movies-url", "", "movie metadata provider base URL")
	_ = v.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("history.backend", rootCmd.PersistentFlags().Lookup("history"))
	_ = v.BindPFlag("movies.base_url", rootCmd.PersistentFlags().Lookup("movies-url"))

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
