// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package importcmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sphereio/customer-import/cli/presenter"
	ctxUtils "github.com/sphereio/customer-import/cli/util/context"
	"github.com/sphereio/customer-import/importer/config"
	"github.com/sphereio/customer-import/importer/customer"
	_ "github.com/sphereio/customer-import/importer/feed" // Import feed importers to trigger their init() function for auto-registration.
	"github.com/sphereio/customer-import/importer/metrics"
	"github.com/sphereio/customer-import/importer/types"
	"github.com/sphereio/customer-import/importer/types/factory"
)

const summaryFilePermission = 0o644

var opts struct {
	cfg         config.Config
	format      string
	summaryFile string
	metricsFile string

	defaultShippingAddress int
	defaultBillingAddress  int
}

var Command = &cobra.Command{
	Use:   "import",
	Short: "Import customers from a feed",
	Long: `Import customers from a feed into a commercetools project.

Supported feed formats:
  - json:   a JSON array of customers, or a stream of customer objects
  - ndjson: one customer object per line
  - csv:    a header row followed by one customer per row; nested fields
            use dotted columns such as addresses.0.city or custom.type.key

Every customer is validated, its customer group is resolved by name (and
created when missing), and the customer is created with a random password.
Customers that already exist are reported as errors.

Flag defaults are read from CUSTOMER_IMPORT_* environment variables
(CUSTOMER_IMPORT_FEED_PATH, CUSTOMER_IMPORT_BATCH_SIZE,
CUSTOMER_IMPORT_IMPORTER_DEFAULT_SHIPPING_ADDRESS, ...).

Examples:
  # Import a JSON feed
  customer-import import --file customers.json --project-key my-project \
    --client-id ID --client-secret SECRET

  # Import a CSV feed in batches of 50 and write the run summary
  customer-import import --file customers.csv --format csv --batch-size 50 \
    --summary-file summary.json

  # Default the first address as shipping and billing address
  customer-import import --file customers.json \
    --default-shipping-address 0 --default-billing-address 0

  # Read NDJSON from stdin and only validate
  cat customers.ndjson | customer-import import --file - --format ndjson --dry-run
`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runImport(cmd)
	},
}

func init() {
	// load config
	opts.cfg = loadConfig(config.LoadConfig)

	// Add flags
	flags := Command.Flags()
	flags.StringVarP(&opts.cfg.FeedPath, "file", "f", opts.cfg.FeedPath, `Path of the customer feed ("-" reads stdin)`)
	flags.StringVar(&opts.format, "format", string(opts.cfg.FeedFormat), "Feed format: "+formatList()+" (default: from the file extension, else json)")
	flags.IntVar(&opts.cfg.BatchSize, "batch-size", opts.cfg.BatchSize, "Number of customers imported concurrently per batch")
	flags.IntVar(&opts.cfg.Limit, "limit", opts.cfg.Limit, "Maximum number of customers to import (0 = no limit)")
	flags.BoolVar(&opts.cfg.DryRun, "dry-run", opts.cfg.DryRun, "Validate the feed without importing")
	flags.IntVar(&opts.defaultShippingAddress, "default-shipping-address", -1, "Address index used as default shipping address when a customer has none")
	flags.IntVar(&opts.defaultBillingAddress, "default-billing-address", -1, "Address index used as default billing address when a customer has none")
	flags.StringVar(&opts.summaryFile, "summary-file", "", "Write the run summary as JSON to this path")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this path")

	presenter.AddOutputFlags(Command)

	// Mark required flags
	if opts.cfg.FeedPath == "" {
		Command.MarkFlagRequired("file") //nolint:errcheck
	}
}

// loadConfig returns the import configuration read from the environment, or
// the defaults when it cannot be loaded. Flags override it.
func loadConfig(load func() (*config.Config, error)) config.Config {
	cfg, err := load()
	if err != nil {
		return config.Config{BatchSize: config.DefaultBatchSize}
	}

	return *cfg
}

func runImport(cmd *cobra.Command) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Dry runs do not need a client
	var client config.ClientInterface

	if !cfg.DryRun {
		c, ok := ctxUtils.GetClientFromContext(cmd.Context())
		if !ok {
			return errors.New("failed to get client from context")
		}

		client = c
	}

	// Create importer instance from pre-initialized factory, passing client separately
	importer, err := factory.Create(client, cfg)
	if err != nil {
		return fmt.Errorf("failed to create importer: %w", err)
	}

	// Run import with progress reporting
	presenter.PrintSmartf(cmd, "Starting %s import from %s...\n", cfg.FeedFormat, feedName(cfg.FeedPath))

	if cfg.DryRun {
		presenter.PrintSmartf(cmd, "Mode: DRY RUN (validation only)\n")
	}

	presenter.PrintSmartf(cmd, "\n")

	result, err := importer.Run(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if err := writeArtifacts(result); err != nil {
		return err
	}

	if presenter.GetOutputOptions(cmd).IsStructuredOutput() {
		return presenter.PrintMessage(cmd, "result", "Result", newOutput(result))
	}

	// Print summary
	printSummary(cmd, cfg, result)

	return nil
}

// output is the structured form of an import result.
type output struct {
	TotalRecords  int              `json:"totalRecords"`
	Batches       int              `json:"batches"`
	ImportedCount int              `json:"imported"`
	ValidCount    int              `json:"valid,omitempty"`
	FailedCount   int              `json:"failed"`
	Summary       *customer.Report `json:"summary,omitempty"`
}

func newOutput(result *types.ImportResult) output {
	return output{
		TotalRecords:  result.TotalRecords,
		Batches:       result.Batches,
		ImportedCount: result.ImportedCount,
		ValidCount:    result.ValidCount,
		FailedCount:   result.FailedCount,
		Summary:       result.Summary,
	}
}

// buildConfig merges flags into the import configuration.
func buildConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := opts.cfg

	format, err := resolveFormat(opts.format, cfg.FeedPath)
	if err != nil {
		return cfg, err
	}

	cfg.FeedFormat = format
	cfg.Stdin = cmd.InOrStdin()

	if cmd.Flags().Changed("default-shipping-address") {
		idx := opts.defaultShippingAddress
		cfg.Importer.DefaultShippingAddress = &idx
	}

	if cmd.Flags().Changed("default-billing-address") {
		idx := opts.defaultBillingAddress
		cfg.Importer.DefaultBillingAddress = &idx
	}

	return cfg, nil
}

// resolveFormat picks the feed format from the flag or the file extension.
func resolveFormat(flag, path string) (config.FeedFormat, error) {
	if flag != "" {
		format := config.FeedFormat(strings.ToLower(flag))
		if !factory.IsRegistered(format) {
			return "", fmt.Errorf("unsupported feed format %q, supported: %s", flag, formatList())
		}

		return format, nil
	}

	for _, format := range factory.RegisteredFormats() {
		if strings.HasSuffix(strings.ToLower(path), "."+string(format)) {
			return format, nil
		}
	}

	return config.FeedFormatJSON, nil
}

func formatList() string {
	formats := factory.RegisteredFormats()

	names := make([]string, 0, len(formats))
	for _, f := range formats {
		names = append(names, string(f))
	}

	return strings.Join(names, ", ")
}

func feedName(path string) string {
	if path == "-" {
		return "stdin"
	}

	return path
}

// writeArtifacts writes the summary and metrics files when requested.
func writeArtifacts(result *types.ImportResult) error {
	if opts.summaryFile != "" && result.Summary != nil {
		data, err := result.Summary.JSON()
		if err != nil {
			return fmt.Errorf("failed to encode summary: %w", err)
		}

		if err := os.WriteFile(opts.summaryFile, data, summaryFilePermission); err != nil {
			return fmt.Errorf("failed to write summary file: %w", err)
		}
	}

	if opts.metricsFile != "" {
		if err := metrics.WriteToTextfile(opts.metricsFile); err != nil {
			return fmt.Errorf("failed to write metrics file: %w", err)
		}
	}

	return nil
}

func printSummary(cmd *cobra.Command, cfg config.Config, result *types.ImportResult) {
	maxErrors := 10

	presenter.Printf(cmd, "\n=== Import Summary ===\n")
	presenter.Printf(cmd, "Total records:   %d\n", result.TotalRecords)

	if cfg.DryRun {
		presenter.Printf(cmd, "Valid:           %d\n", result.ValidCount)
	} else {
		presenter.Printf(cmd, "Batches:         %d\n", result.Batches)
		presenter.Printf(cmd, "Imported:        %d\n", result.ImportedCount)
	}

	presenter.Printf(cmd, "Failed:          %d\n", result.FailedCount)

	if len(result.Errors) > 0 {
		presenter.Printf(cmd, "\n=== Errors ===\n")

		for i, err := range result.Errors {
			if i < maxErrors { // Show only first 10 errors
				presenter.Printf(cmd, "  - %v\n", err)
			}
		}

		if len(result.Errors) > maxErrors {
			presenter.Printf(cmd, "  ... and %d more errors\n", len(result.Errors)-maxErrors)
		}
	}

	if cfg.DryRun {
		presenter.Printf(cmd, "\nNote: This was a dry run. No customers were actually imported.\n")
	}
}
