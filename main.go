package main

import (
	"encoding/json"
	"fmt"
	"os"

	"aerorent-calculator/internal/config"
	"aerorent-calculator/internal/engine"
	"aerorent-calculator/internal/logger"
	"aerorent-calculator/internal/models"
	"aerorent-calculator/internal/routes"
	"aerorent-calculator/internal/services"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	inputFile  string
	outputFile string
	format     string
)

var rootCmd = &cobra.Command{
	Use:   "aerorent-calculator",
	Short: "Financial projection calculator for a drone rental fleet",
	Long: `aerorent-calculator models the economics of a drone rental business:
break-even analysis, profit projections across utilisation levels, ROI and
payback metrics, VAT position and exportable reports.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		appCfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Close()

		router := routes.Setup(appCfg, log)
		addr := fmt.Sprintf("%s:%d", appCfg.Server.Host, appCfg.Server.Port)

		log.Info("Starting server", map[string]interface{}{"addr": addr})
		return router.Run(addr)
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a CSV or PDF report from a configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		appCfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Close()

		cfg, err := loadBusinessConfig(appCfg)
		if err != nil {
			return err
		}

		calc := engine.New()
		res, err := calc.Evaluate(cfg)
		if err != nil {
			return err
		}

		base := appCfg.Tax.BaseUtilisationPct
		metrics := calc.Metrics(res, base)
		vat := calc.VATAnalysis(cfg, res, base)
		table := calc.ProjectionTable(res)

		var content []byte
		switch format {
		case "csv":
			content = []byte(services.NewCSVService(&appCfg.Report).BuildReport(res, metrics, vat, table))
		case "pdf":
			content, err = services.NewReportService(&appCfg.Report).GenerateReportPDF(&services.ReportData{
				Result:    res,
				Metrics:   metrics,
				VAT:       vat,
				Table:     table,
				Breakdown: calc.CostBreakdown(res),
			})
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported format %q, use csv or pdf", format)
		}

		if outputFile == "" || outputFile == "-" {
			_, err = os.Stdout.Write(content)
			return err
		}
		return os.WriteFile(outputFile, content, 0644)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a configuration file and print the headline figures",
	RunE: func(cmd *cobra.Command, args []string) error {
		appCfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Close()

		cfg, err := loadBusinessConfig(appCfg)
		if err != nil {
			return err
		}

		calc := engine.New()
		res, err := calc.Evaluate(cfg)
		if err != nil {
			return err
		}

		cur := appCfg.Report.CurrencySymbol
		fmt.Printf("Fleet size:             %d drones\n", res.TotalDrones)
		fmt.Printf("Total first year cost:  %s%.2f\n", cur, res.TotalFirstYearCost)
		fmt.Printf("Avg revenue per day:    %s%.2f\n", cur, res.WeightedAvgRevenuePerDay)
		fmt.Printf("Contribution margin:    %s%.2f per rental day\n", cur, res.ContributionMarginPerDay)
		fmt.Printf("Break-even:             %.1f rental days (%.1f%% utilisation)\n",
			res.BreakEvenDays, res.BreakEvenUtilisationPct)

		metrics := calc.Metrics(res, appCfg.Tax.BaseUtilisationPct)
		fmt.Printf("ROI at %.0f%% utilisation: %.1f%%\n", metrics.BaseUtilisationPct, metrics.ROIPct)
		fmt.Printf("Payback:                %s\n", metrics.Payback)
		return nil
	},
}

// bootstrap loads the application config and initializes the logger.
func bootstrap() (*config.Config, *logger.StructuredLogger, error) {
	godotenv.Load()

	appCfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewStructuredLogger(logger.LoggerConfig{
		Level:      logger.ParseLevel(appCfg.Logging.Level),
		Service:    "aerorent-calculator",
		OutputPath: appCfg.Logging.File,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return appCfg, log, nil
}

// loadBusinessConfig reads the business inputs from --input, falling back to
// the shipped defaults with the server's tax parameters applied.
func loadBusinessConfig(appCfg *config.Config) (*models.BusinessConfig, error) {
	if inputFile == "" {
		cfg := models.DefaultConfig()
		cfg.Tax.VATRatePct = appCfg.Tax.VATRatePct
		cfg.Tax.RegistrationThreshold = appCfg.Tax.RegistrationThreshold
		return cfg, nil
	}

	data, err := os.ReadFile(inputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", inputFile, err)
	}

	var cfg models.BusinessConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", inputFile, err)
	}
	if cfg.Tax == nil {
		cfg.Tax = &models.TaxParams{
			VATRatePct:            appCfg.Tax.VATRatePct,
			RegistrationThreshold: appCfg.Tax.RegistrationThreshold,
		}
	}
	return &cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.json", "application config file")

	reportCmd.Flags().StringVarP(&inputFile, "input", "i", "", "business configuration JSON (defaults to the shipped figures)")
	reportCmd.Flags().StringVarP(&outputFile, "output", "o", "-", "output file, - for stdout")
	reportCmd.Flags().StringVarP(&format, "format", "f", "csv", "report format: csv or pdf")

	checkCmd.Flags().StringVarP(&inputFile, "input", "i", "", "business configuration JSON (defaults to the shipped figures)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
