package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Tax.VATRatePct != 20 {
		t.Errorf("default VAT rate: got %v, exp 20", cfg.Tax.VATRatePct)
	}
	if cfg.Tax.RegistrationThreshold != 90000 {
		t.Errorf("default threshold: got %v, exp 90000", cfg.Tax.RegistrationThreshold)
	}
	if cfg.Report.CurrencyCode != "GBP" {
		t.Errorf("default currency: got %q, exp GBP", cfg.Report.CurrencyCode)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	fileCfg := DefaultConfig()
	fileCfg.Tax.VATRatePct = 17.5
	fileCfg.Server.Port = 9000
	if err := fileCfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	os.Setenv("VAT_RATE", "15")
	defer os.Unsetenv("VAT_RATE")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("file port: got %d, exp 9000", cfg.Server.Port)
	}
	// Env wins over the file value.
	if cfg.Tax.VATRatePct != 15 {
		t.Errorf("VAT rate: got %v, exp env override 15", cfg.Tax.VATRatePct)
	}
}
