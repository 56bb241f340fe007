package dealcalc

// DealInputs is the fraction-based input to a calculation. Monetary fields are
// pounds; rate fields are fractions in [0,1]. BridgingRate is per month.
type DealInputs struct {
	PurchasePrice            float64 `json:"purchase_price"`
	RenovationCost           float64 `json:"renovation_cost"`
	InitialCash              float64 `json:"initial_cash"`
	Rooms                    int     `json:"rooms"`
	MonthlyRent              float64 `json:"monthly_rent"`
	ValuationAfterRenovation float64 `json:"valuation_after_renovation"`
	MortgageLTV              float64 `json:"mortgage_ltv"`
	MortgageRate             float64 `json:"mortgage_rate"`
	LenderFee                float64 `json:"lender_fee"`
	ManagementFee            float64 `json:"management_fee"`
	BridgingRate             float64 `json:"bridging_rate"`
	ArrangementRate          float64 `json:"arrangement_rate"`
	BrokerRate               float64 `json:"broker_rate"`
	BridgingDurationMonths   int     `json:"bridging_duration_months"`
	BuyersFeeRate            float64 `json:"buyers_fee_rate"`
	ExtraPurchaseFees        float64 `json:"extra_purchase_fees"`
}

// Validate checks every field up front so that no stage runs on a deal that a
// later stage would reject.
func (in DealInputs) Validate() error {
	if in.Rooms < 0 {
		return invalid("rooms", float64(in.Rooms), "must not be negative")
	}
	if in.BridgingDurationMonths <= 0 {
		return invalid("bridging duration months", float64(in.BridgingDurationMonths), "must be greater than zero")
	}
	return firstError(
		requireNonNegative("purchase price", in.PurchasePrice),
		requireNonNegative("renovation cost", in.RenovationCost),
		requireNonNegative("initial cash", in.InitialCash),
		requireNonNegative("monthly rent", in.MonthlyRent),
		requireNonNegative("valuation after renovation", in.ValuationAfterRenovation),
		requireNonNegative("extra purchase fees", in.ExtraPurchaseFees),
		requireFraction("mortgage ltv", in.MortgageLTV),
		requireFraction("mortgage rate", in.MortgageRate),
		requireFraction("lender fee", in.LenderFee),
		requireFraction("management fee", in.ManagementFee),
		requireFraction("bridging rate", in.BridgingRate),
		requireFraction("arrangement rate", in.ArrangementRate),
		requireFraction("broker rate", in.BrokerRate),
		requireFraction("buyers fee rate", in.BuyersFeeRate),
	)
}
