// File: main.go

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"proxy-tester/pkg/checker"
	"proxy-tester/pkg/models"
	"proxy-tester/pkg/runner"
)

var (
	debugFlag bool
	logger    *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "proxy-tester",
	Short: "A tool for testing proxies listed in CSV files",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Set up logging based on the debug flag
		var logLevel slog.Level
		if debugFlag {
			logLevel = slog.LevelDebug
		} else {
			logLevel = slog.LevelInfo
		}

		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
		slog.SetDefault(logger)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Test every proxy source listed in the config file",
	Run: func(cmd *cobra.Command, args []string) {
		var sources []models.Source
		if err := viper.UnmarshalKey("sources", &sources); err != nil {
			logger.Error("Error reading sources from config", "error", err)
			os.Exit(1)
		}
		if len(sources) == 0 {
			logger.Error("No sources configured")
			os.Exit(1)
		}

		r := newRunner()
		for _, source := range sources {
			logger.Info("Processing source", "name", source.Name, "input", source.Input)
			if err := r.ProcessFile(source); err != nil {
				logger.Error("Error processing source", "name", source.Name, "error", err)
				continue
			}
		}
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Test proxies from a single CSV file",
	Long: `Test proxies from a single CSV file without a configured source.
The proxy column is named with --proxy-field; --location-field and
--protocol-field are optional. Results are written under the results
directory, to [file]-results.csv unless --output is given.`,
	Example: "check free-proxy-list.csv --proxy-field \"IP Address\" --location-field Country --protocol-field Https --limit 20",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		input := args[0]
		proxyField, _ := cmd.Flags().GetString("proxy-field")
		locationField, _ := cmd.Flags().GetString("location-field")
		protocolField, _ := cmd.Flags().GetString("protocol-field")
		output, _ := cmd.Flags().GetString("output")
		limit, _ := cmd.Flags().GetInt("limit")

		if output == "" {
			base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
			output = base + "-results.csv"
		}

		source := models.Source{
			Name:   input,
			Input:  input,
			Output: output,
			FieldMap: models.FieldMap{
				ProxyField:    proxyField,
				LocationField: locationField,
				ProtocolField: protocolField,
			},
		}

		r := newRunner()
		if cmd.Flags().Changed("limit") {
			r.Limit = limit
		}
		if err := r.ProcessFile(source); err != nil {
			logger.Error("Error processing file", "input", input, "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "Enable debug logging")

	checkCmd.Flags().String("proxy-field", "proxy", "Name of the column holding the proxy address")
	checkCmd.Flags().String("location-field", "", "Name of the column holding the claimed location")
	checkCmd.Flags().String("protocol-field", "", "Name of the column selecting https (value \"yes\") vs http")
	checkCmd.Flags().String("output", "", "Output file name (default: [file]-results.csv)")
	checkCmd.Flags().Int("limit", 0, "Only test the first N records")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
}

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.proxy-tester")
	viper.AddConfigPath("/etc/proxy-tester/")

	viper.SetDefault("checker.endpoint", checker.DefaultEndpoint)
	viper.SetDefault("checker.timeout_seconds", 5)
	viper.SetDefault("runner.workers", 5)
	viper.SetDefault("runner.results_dir", "results")
	viper.SetDefault("runner.limit", 0)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Printf("Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}
}

func newRunner() *runner.Runner {
	c := checker.New()
	if endpoint := viper.GetString("checker.endpoint"); endpoint != "" {
		c.Endpoint = endpoint
	}
	if seconds := viper.GetInt("checker.timeout_seconds"); seconds > 0 {
		c.Timeout = time.Duration(seconds) * time.Second
	}

	return &runner.Runner{
		Workers:    viper.GetInt("runner.workers"),
		ResultsDir: viper.GetString("runner.results_dir"),
		Limit:      viper.GetInt("runner.limit"),
		Checker:    c,
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
