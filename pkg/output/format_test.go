package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/iwvelando/deal-calculator/internal/appraisal"
	"github.com/iwvelando/deal-calculator/pkg/dealcalc"
	"github.com/iwvelando/deal-calculator/pkg/optimization"
)

func float(v float64) *float64 { return &v }

func testAppraisals(t *testing.T) []appraisal.Appraisal {
	t.Helper()
	calc, err := dealcalc.NewCalculator(nil, dealcalc.DefaultAssumptions())
	if err != nil {
		t.Fatalf("NewCalculator() error = %v", err)
	}

	terrace := dealcalc.DealForm{
		PurchasePrice:            200000,
		ValuationAfterRenovation: 260000,
		MonthlyRent:              1200,
		Rooms:                    3,
		InitialCash:              250000,
		BridgingDurationMonths:   6,
		BuyersFee:                float(0),
		LegalFees:                float(0),
		SurveyCost:               float(0),
	}

	return []appraisal.Appraisal{
		appraisal.Evaluate(nil, calc, "Terrace", terrace),
		{Name: "Broken", Err: errors.New("invalid input: purchase price: must be non-negative")},
	}
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, testAppraisals(t)); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	expected := []string{
		"--- Results for deal Terrace ---",
		"Purchase price £200,000.00, 3 rooms, 6 month bridge",
		"Section    | Item                        | Amount",
		"Stamp duty",
		"£12,250.00",
		"£212,250.00",
		"Monthly payment",
		"--- Results for deal Broken ---",
		"REJECTED: invalid input",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat output missing %q\n%s", want, output)
		}
	}

	broken := output[strings.Index(output, "--- Results for deal Broken ---"):]
	if strings.Contains(broken, "£") {
		t.Errorf("rejected deal should not show figures:\n%s", broken)
	}
}

func TestCsvFormat(t *testing.T) {
	out, err := CsvString(testAppraisals(t))
	if err != nil {
		t.Fatalf("CsvString() error = %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if strings.Join(records[0], ",") != "deal,section,item,value" {
		t.Errorf("unexpected header %v", records[0])
	}

	var stampDuty, rejected []string
	for _, rec := range records[1:] {
		if rec[0] == "Terrace" && rec[2] == "Stamp duty" {
			stampDuty = rec
		}
		if rec[0] == "Broken" {
			if rejected != nil {
				t.Errorf("rejected deal should produce a single row")
			}
			rejected = rec
		}
	}
	if stampDuty == nil || stampDuty[3] != "12250.00" {
		t.Errorf("unexpected stamp duty row %v", stampDuty)
	}
	if rejected == nil || rejected[1] != "error" || !strings.Contains(rejected[3], "purchase price") {
		t.Errorf("unexpected rejected row %v", rejected)
	}
}

func TestCsvFormatUndefinedRatio(t *testing.T) {
	item := lineItem{label: "Total ROI", ratio: &dealcalc.Ratio{}}
	if got := item.raw(); got != "" {
		t.Errorf("undefined ratio should render empty, got %q", got)
	}
	if got := item.pretty(); got != "undefined" {
		t.Errorf("undefined ratio should render as undefined, got %q", got)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONFormat(&buf, testAppraisals(t)); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(decoded))
	}
	if decoded[0]["status"] != "ok" || decoded[0]["result"] == nil {
		t.Errorf("unexpected first entry %v", decoded[0])
	}
	if decoded[1]["status"] != "rejected" || decoded[1]["error"] == "" {
		t.Errorf("unexpected second entry %v", decoded[1])
	}
	if _, ok := decoded[1]["result"]; ok {
		t.Errorf("rejected deal should not carry a result")
	}
}

func TestOfferRows(t *testing.T) {
	results := testAppraisals(t)[:1]
	achieved := 8.5
	results[0].Offer = &optimization.Summary{
		TargetName: "Terrace",
		Metric:     "roi",
		Threshold:  8,
		Original:   200000,
		Value:      185000,
		Achieved:   &achieved,
		Converged:  false,
		Notes:      []string{"stopped after 50 iterations"},
	}

	var buf bytes.Buffer
	if err := PrettyFormat(&buf, results); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	for _, want := range []string{"Maximum offer", "£185,000.00", "Below asking price", "£15,000.00", "Offer note: stopped after 50 iterations"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("PrettyFormat output missing %q\n%s", want, buf.String())
		}
	}

	out, err := CsvString(results)
	if err != nil {
		t.Fatalf("CsvString() error = %v", err)
	}
	if !strings.Contains(out, "Terrace,offer,Maximum offer,185000.00") {
		t.Errorf("expected a maximum offer row:\n%s", out)
	}

	buf.Reset()
	if err := JSONFormat(&buf, results); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}
	var decoded []struct {
		Offer *optimization.Summary `json:"offer"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded[0].Offer == nil || decoded[0].Offer.Value != 185000 {
		t.Errorf("expected the offer in JSON output, got %+v", decoded[0].Offer)
	}
}
