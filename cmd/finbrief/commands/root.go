package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "finbrief",
	Short: "finbrief - 미국 회사 10-K 한국어 요약 서비스",
	Long: `finbrief CLI

한글 회사 이름을 영문으로 변환하고, SEC EDGAR에서 CIK와 최신 10-K를 찾아
한국어로 요약합니다.

Usage:
  go run ./cmd/finbrief [command]

Examples:
  go run ./cmd/finbrief serve
  go run ./cmd/finbrief lookup 애플
  go run ./cmd/finbrief scheduler run directory_refresh
  go run ./cmd/finbrief migrate`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "env file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
