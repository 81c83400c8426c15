package config

import (
	"encoding/json"
	"os"
	"strconv"
)

type Config struct {
	Server  ServerConfig  `json:"server"`
	Report  ReportConfig  `json:"report"`
	Tax     TaxConfig     `json:"tax"`
	Logging LoggingConfig `json:"logging"`
}

type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// ReportConfig drives the presentation side of CSV and PDF exports. All
// currency formatting lives here; the engine itself deals in raw numbers.
type ReportConfig struct {
	CompanyName    string `json:"company_name"`
	CurrencySymbol string `json:"currency_symbol"`
	CurrencyCode   string `json:"currency_code"`
	// CalculatorURL is embedded as a QR code in the PDF footer.
	CalculatorURL string `json:"calculator_url"`
}

type TaxConfig struct {
	VATRatePct            float64 `json:"vat_rate_pct"`
	RegistrationThreshold float64 `json:"registration_threshold"`
	BaseUtilisationPct    float64 `json:"base_utilisation_pct"`
}

type LoggingConfig struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

// LoadConfig builds the configuration from defaults, then environment
// variables, then an optional JSON file, then the environment again so env
// values keep priority over the file.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	loadFromEnvironment(config)

	file, err := os.Open(path)
	if err == nil {
		defer file.Close()
		decoder := json.NewDecoder(file)
		if err := decoder.Decode(config); err != nil {
			return nil, err
		}
		loadFromEnvironment(config)
	}

	return config, nil
}

func (c *Config) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(c)
}

// DefaultConfig returns the built-in configuration before any overrides.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Report: ReportConfig{
			CompanyName:    "AeroRent UK",
			CurrencySymbol: "£",
			CurrencyCode:   "GBP",
			CalculatorURL:  "https://calculator.aerorent.co.uk",
		},
		Tax: TaxConfig{
			VATRatePct:            20.0,
			RegistrationThreshold: 90000,
			BaseUtilisationPct:    20.0,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "stdout",
		},
	}
}

// loadFromEnvironment loads configuration from environment variables
func loadFromEnvironment(config *Config) {
	// Server configuration
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	// Report configuration
	if name := os.Getenv("COMPANY_NAME"); name != "" {
		config.Report.CompanyName = name
	}
	if symbol := os.Getenv("CURRENCY_SYMBOL"); symbol != "" {
		config.Report.CurrencySymbol = symbol
	}
	if code := os.Getenv("CURRENCY_CODE"); code != "" {
		config.Report.CurrencyCode = code
	}
	if url := os.Getenv("CALCULATOR_URL"); url != "" {
		config.Report.CalculatorURL = url
	}

	// Tax configuration
	if rate := os.Getenv("VAT_RATE"); rate != "" {
		if r, err := strconv.ParseFloat(rate, 64); err == nil {
			config.Tax.VATRatePct = r
		}
	}
	if threshold := os.Getenv("VAT_THRESHOLD"); threshold != "" {
		if t, err := strconv.ParseFloat(threshold, 64); err == nil {
			config.Tax.RegistrationThreshold = t
		}
	}
	if base := os.Getenv("BASE_UTILISATION"); base != "" {
		if b, err := strconv.ParseFloat(base, 64); err == nil {
			config.Tax.BaseUtilisationPct = b
		}
	}

	// Logging configuration
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if file := os.Getenv("LOG_FILE"); file != "" {
		config.Logging.File = file
	}
}
