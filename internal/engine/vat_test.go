package engine_test

import (
	"math"
	"testing"

	"aerorent-calculator/internal/engine"
	"aerorent-calculator/internal/models"
)

func TestVATAnalysis_RoundTripIdentity(t *testing.T) {
	calc := engine.New()
	cfg := testConfig()
	res, err := calc.Evaluate(cfg)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	vat := calc.VATAnalysis(cfg, res, engine.DefaultBaseUtilisationPct)

	// Definitional identity, must hold exactly for all inputs.
	if vat.ProfitAfterVAT != vat.ProfitBeforeVAT-vat.NetPayable {
		t.Errorf("identity broken: after %v != before %v - net %v",
			vat.ProfitAfterVAT, vat.ProfitBeforeVAT, vat.NetPayable)
	}

	base := calc.ProjectAt(res, engine.DefaultBaseUtilisationPct)
	expRevenueVAT := base.AnnualRevenue * 0.20
	if math.Abs(vat.RevenueVAT-expRevenueVAT) > 1e-9 {
		t.Errorf("revenue VAT: got %v, exp %v", vat.RevenueVAT, expRevenueVAT)
	}

	// Line-by-line deduction equals the aggregate at a flat rate.
	expDeductible := res.TotalFirstYearCost * 0.20
	if math.Abs(vat.DeductibleVAT-expDeductible) > 1e-9 {
		t.Errorf("deductible VAT: got %v, exp %v", vat.DeductibleVAT, expDeductible)
	}
}

func TestVATAnalysis_RefundPositionNotClamped(t *testing.T) {
	calc := engine.New()
	cfg := testConfig()
	// Heavy one-off spend, tiny revenue: input VAT exceeds output VAT.
	cfg.AdditionalCosts = []models.AdditionalCost{{Amount: 250000, Note: "Fleet expansion"}}
	res, err := calc.Evaluate(cfg)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	vat := calc.VATAnalysis(cfg, res, 1)
	if vat.NetPayable >= 0 {
		t.Fatalf("expected refund position, got net payable %v", vat.NetPayable)
	}
	// The refund increases after-VAT profit relative to before-VAT.
	if vat.ProfitAfterVAT <= vat.ProfitBeforeVAT {
		t.Errorf("refund not credited: after %v, before %v", vat.ProfitAfterVAT, vat.ProfitBeforeVAT)
	}
}

func TestVATAnalysis_ThresholdCheck(t *testing.T) {
	calc := engine.New()
	cfg := testConfig()
	res, err := calc.Evaluate(cfg)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	vat := calc.VATAnalysis(cfg, res, engine.DefaultBaseUtilisationPct)
	base := calc.ProjectAt(res, engine.DefaultBaseUtilisationPct)

	expAbove := base.AnnualRevenue >= cfg.Tax.RegistrationThreshold
	if vat.AboveThreshold != expAbove {
		t.Errorf("threshold flag: got %v, exp %v", vat.AboveThreshold, expAbove)
	}

	expMonths := cfg.Tax.RegistrationThreshold / base.AnnualRevenue * 12
	if math.Abs(float64(vat.MonthsToThreshold)-expMonths) > 1e-9 {
		t.Errorf("months to threshold: got %v, exp %v", vat.MonthsToThreshold, expMonths)
	}
}

func TestVATAnalysis_MissingTaxBlock(t *testing.T) {
	calc := engine.New()
	cfg := testConfig()
	cfg.Tax = nil
	res, err := calc.Evaluate(cfg)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	vat := calc.VATAnalysis(cfg, res, engine.DefaultBaseUtilisationPct)
	if vat.RatePct != 0 {
		t.Errorf("rate without tax block: got %v, exp 0", vat.RatePct)
	}
	if vat.RevenueVAT != 0 || vat.DeductibleVAT != 0 || vat.NetPayable != 0 {
		t.Errorf("VAT amounts without tax block: got %v/%v/%v, exp all 0",
			vat.RevenueVAT, vat.DeductibleVAT, vat.NetPayable)
	}
}

func TestVATAnalysis_ZeroRevenueSentinel(t *testing.T) {
	calc := engine.New()
	cfg := testConfig()
	for i := range cfg.Models {
		cfg.Models[i].Quantity = 0
	}
	res, err := calc.Evaluate(cfg)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	vat := calc.VATAnalysis(cfg, res, engine.DefaultBaseUtilisationPct)
	if !vat.MonthsToThreshold.IsUnbounded() {
		t.Errorf("months to threshold at zero revenue: got %v, exp unbounded", vat.MonthsToThreshold)
	}
	if vat.MonthsToThreshold.String() != "∞" {
		t.Errorf("display: got %q, exp infinity sign", vat.MonthsToThreshold.String())
	}
}
