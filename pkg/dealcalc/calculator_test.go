package dealcalc

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
)

func buyToLetInputs() DealInputs {
	return DealInputs{
		PurchasePrice:            200000,
		RenovationCost:           20000,
		InitialCash:              250000,
		Rooms:                    3,
		MonthlyRent:              1200,
		ValuationAfterRenovation: 260000,
		MortgageLTV:              0.75,
		MortgageRate:             0.0629,
		LenderFee:                0.02,
		ManagementFee:            0.1,
		BridgingRate:             0.01,
		ArrangementRate:          0.02,
		BrokerRate:               0.01,
		BridgingDurationMonths:   6,
	}
}

func newTestCalculator(t *testing.T) *Calculator {
	t.Helper()
	calc, err := NewCalculator(zap.NewNop(), DefaultAssumptions())
	if err != nil {
		t.Fatalf("NewCalculator() unexpected error: %v", err)
	}
	return calc
}

func TestEvaluateEndToEnd(t *testing.T) {
	calc := newTestCalculator(t)

	result, err := calc.Evaluate(buyToLetInputs())
	if err != nil {
		t.Fatalf("Evaluate() unexpected error: %v", err)
	}

	checks := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"StampDuty", result.StampDuty.Amount, 12250},
		{"TotalPurchaseFees", result.PurchaseCost.TotalPurchaseFees, 12250},
		{"TotalMoneyNeeded", result.PurchaseCost.TotalMoneyNeeded, 212250},
		{"BridgingNeeded", result.Bridging.BridgingNeeded, 0},
		{"CashLeftoverAfterRenovations", result.Bridging.CashLeftoverAfterRenovations, 17750},
		{"BridgingCost", result.Bridging.BridgingCost, 0},
		{"MortgageAmount", result.Mortgage.MortgageAmount, 198900},
		{"AnnualMortgageInterest", result.Mortgage.AnnualMortgageInterest, 12761.0262},
		{"AnnualRent", result.Rental.AnnualRent, 14400},
		{"UtilityBills", result.Rental.UtilityBills, 3441},
		{"RentalIncome", result.Rental.RentalIncome, 8643},
		{"AnnualProfit", result.Profitability.AnnualProfit, -4118.0262},
		{"CashLeftInDeal", result.Profitability.CashLeftInDeal, 33350},
		{"SellingFees", result.Flip.SellingFees, 10400},
		{"FlipProfitAfterTax", result.Flip.FlipProfitAfterTax, 14053.5},
	}
	for _, c := range checks {
		if !almostEqual(c.got, c.expected) {
			t.Errorf("%s = %v, expected %v", c.name, c.got, c.expected)
		}
	}
	if result.Bridging.Active() {
		t.Error("expected no bridging when cash covers purchase and renovation")
	}
}

func TestEvaluateBuyersFeesFeedPurchaseCost(t *testing.T) {
	calc := newTestCalculator(t)
	in := buyToLetInputs()
	in.BuyersFeeRate = 0.04
	in.ExtraPurchaseFees = 2800

	result, err := calc.Evaluate(in)
	if err != nil {
		t.Fatalf("Evaluate() unexpected error: %v", err)
	}
	// 12250 stamp duty + 8000 buyer's fee + 2800 legal and survey
	if !almostEqual(result.PurchaseCost.TotalPurchaseFees, 23050) {
		t.Errorf("TotalPurchaseFees = %v, expected 23050", result.PurchaseCost.TotalPurchaseFees)
	}
	if !almostEqual(result.PurchaseCost.TotalMoneyNeeded, 223050) {
		t.Errorf("TotalMoneyNeeded = %v, expected 223050", result.PurchaseCost.TotalMoneyNeeded)
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	calc := newTestCalculator(t)
	in := buyToLetInputs()
	in.InitialCash = 210000

	first, err := calc.Evaluate(in)
	if err != nil {
		t.Fatalf("Evaluate() unexpected error: %v", err)
	}
	second, err := calc.Evaluate(in)
	if err != nil {
		t.Fatalf("Evaluate() unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated evaluation differs:\n%+v\n%+v", first, second)
	}
}

func TestEvaluateConcurrent(t *testing.T) {
	calc := newTestCalculator(t)
	in := buyToLetInputs()
	expected, err := calc.Evaluate(in)
	if err != nil {
		t.Fatalf("Evaluate() unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := calc.Evaluate(in)
			if err != nil {
				errs <- err
				return
			}
			if !reflect.DeepEqual(got, expected) {
				errs <- errors.New("concurrent result differs")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestEvaluateRejectsInvalidInputs(t *testing.T) {
	calc := newTestCalculator(t)

	tests := []struct {
		name   string
		mutate func(*DealInputs)
		field  string
	}{
		{"Zero bridging duration", func(in *DealInputs) { in.BridgingDurationMonths = 0 }, "bridging duration months"},
		{"Negative price", func(in *DealInputs) { in.PurchasePrice = -1 }, "purchase price"},
		{"Negative rate", func(in *DealInputs) { in.MortgageRate = -0.01 }, "mortgage rate"},
		{"Rate given as percent", func(in *DealInputs) { in.MortgageLTV = 75 }, "mortgage ltv"},
		{"Negative rooms", func(in *DealInputs) { in.Rooms = -1 }, "rooms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := buyToLetInputs()
			tt.mutate(&in)
			result, err := calc.Evaluate(in)
			var inputErr *InvalidInputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("expected InvalidInputError, got %v", err)
			}
			if inputErr.Field != tt.field {
				t.Errorf("field = %q, expected %q", inputErr.Field, tt.field)
			}
			if !reflect.DeepEqual(result, Result{}) {
				t.Error("expected a zero result alongside the error")
			}
		})
	}
}

func TestEvaluateUndefinedROI(t *testing.T) {
	calc := newTestCalculator(t)
	in := DealInputs{
		PurchasePrice:            100000,
		InitialCash:              200000,
		MonthlyRent:              900,
		ValuationAfterRenovation: 100000,
		BridgingDurationMonths:   1,
		// 5000 stamp duty; mortgage of exactly the 105000 needed
		MortgageLTV: 1,
		LenderFee:   0.05,
	}

	result, err := calc.Evaluate(in)
	if err != nil {
		t.Fatalf("Evaluate() unexpected error: %v", err)
	}
	if result.Profitability.CashLeftInDeal != 0 {
		t.Fatalf("CashLeftInDeal = %v, expected 0", result.Profitability.CashLeftInDeal)
	}
	if _, err := result.Profitability.TotalROI.Float(); !errors.Is(err, ErrUndefinedRatio) {
		t.Fatalf("expected ErrUndefinedRatio, got %v", err)
	}

	data, err := json.Marshal(result.Profitability)
	if err != nil {
		t.Fatalf("json.Marshal() unexpected error: %v", err)
	}
	if !strings.Contains(string(data), `"total_roi":null`) {
		t.Errorf("expected undefined ROI to encode as null, got %s", data)
	}
}

func TestEvaluateWrapsStageName(t *testing.T) {
	calc := newTestCalculator(t)
	in := buyToLetInputs()
	in.BridgingDurationMonths = 0

	_, err := calc.Evaluate(in)
	if err == nil || !strings.Contains(err.Error(), "bridging duration months") {
		t.Fatalf("expected error naming the field, got %v", err)
	}
}

func TestNewCalculatorRejectsInvalidAssumptions(t *testing.T) {
	a := DefaultAssumptions()
	a.SellingFeeRate = -0.04
	if _, err := NewCalculator(nil, a); err == nil {
		t.Fatal("expected error for negative selling fee rate")
	}
}

func TestCalculatorAssumptionsAreCopied(t *testing.T) {
	calc := newTestCalculator(t)
	a := calc.Assumptions()
	a.StampDuty.Bands[0].Rate = 0.5

	result, err := calc.Evaluate(buyToLetInputs())
	if err != nil {
		t.Fatalf("Evaluate() unexpected error: %v", err)
	}
	if !almostEqual(result.StampDuty.Amount, 12250) {
		t.Errorf("mutating a copy changed the calculator: stamp duty %v", result.StampDuty.Amount)
	}
}
