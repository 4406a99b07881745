// Command relmodel introspects a relational database into a normalized
// schema model and exports or serves the result.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/relmodel/relmodel/internal/logger"
)

var (
	logLevel   string
	logFormat  string
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "relmodel",
	Short: "Extract a normalized relational schema model from a database",
	Long: `relmodel connects to PostgreSQL, MySQL, or SQLite, reads the catalog
metadata, and resolves it into a normalized schema model: columns in
ordinal order, composite primary keys, cross-table foreign keys, and
deduplicated indexes. The model can be exported as YAML, pushed to
object storage, or served over HTTP.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format: console or json")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Project config file (relmodel.yaml)")

	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger builds the process logger from the persistent flags.
func newLogger() *logger.Logger {
	cfg := logger.DefaultConfig()
	cfg.Level = logLevel
	cfg.Format = logFormat
	log := logger.New(cfg)
	logger.SetGlobal(log)
	return log
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
