// Package costmodel weighs a no-cost EMI purchase against paying upfront, and
// finds the investment return at which the two cost the same.
package costmodel

import (
	"math"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/finance"
	"github.com/iwvelando/finance-calculators/pkg/loans"
	"github.com/iwvelando/finance-calculators/pkg/mathutil"
	"github.com/iwvelando/finance-calculators/pkg/rootfind"
	"go.uber.org/zap"
)

// Params describes a purchase offered both upfront and on a no-cost EMI plan.
// UpfrontDiscount is only given to upfront buyers; EmiDiscount reduces the
// amount financed on the plan.
type Params struct {
	ProductPrice            float64 `json:"productPrice" mapstructure:"productPrice" validate:"gt=0,lte=20000000" label:"Product Price"`
	TenureMonths            int     `json:"tenureMonths" mapstructure:"tenureMonths" validate:"gte=1,lte=60" label:"Tenure"`
	ProcessingFee           float64 `json:"processingFee" mapstructure:"processingFee" validate:"gte=0" label:"Processing Fee"`
	UpfrontDiscount         float64 `json:"upfrontDiscount" mapstructure:"upfrontDiscount" validate:"gte=0,ltefield=ProductPrice" label:"Discount Lost"`
	EmiDiscount             float64 `json:"emiDiscount" mapstructure:"emiDiscount" validate:"gte=0,ltefield=ProductPrice" label:"EMI Discount"`
	ReturnRatePercent       float64 `json:"returnRatePercent" mapstructure:"returnRatePercent" validate:"gte=0,lte=50" label:"Expected Return"`
	BankInterestRatePercent float64 `json:"bankInterestRatePercent" mapstructure:"bankInterestRatePercent" validate:"gte=0,lte=50" label:"Bank Interest Rate"`
	GSTOnInterest           bool    `json:"gstOnInterest" mapstructure:"gstOnInterest"`
	GSTPercent              float64 `json:"gstPercent" mapstructure:"gstPercent" validate:"gte=0,lte=100" label:"GST Rate"`
	TaxPercent              float64 `json:"taxPercent" mapstructure:"taxPercent" validate:"gte=0,lte=50" label:"Tax Rate"`
}

// DefaultParams is a typical consumer electronics no-cost EMI offer.
func DefaultParams() Params {
	return Params{
		ProductPrice:            80000,
		TenureMonths:            6,
		ProcessingFee:           199,
		UpfrontDiscount:         2500,
		ReturnRatePercent:       7,
		BankInterestRatePercent: 15,
		GSTOnInterest:           true,
		GSTPercent:              constants.DefaultGSTPercent,
	}
}

// Sanitize clamps amounts and rates to non-negative values, floors the tenure
// at one month and fills in the default GST rate.
func (p Params) Sanitize() Params {
	p.ProductPrice = mathutil.NonNegative(p.ProductPrice)
	p.TenureMonths = mathutil.TermMonths(p.TenureMonths)
	p.ProcessingFee = mathutil.NonNegative(p.ProcessingFee)
	p.UpfrontDiscount = mathutil.Clamp(mathutil.NonNegative(p.UpfrontDiscount), 0, p.ProductPrice)
	p.EmiDiscount = mathutil.Clamp(mathutil.NonNegative(p.EmiDiscount), 0, p.ProductPrice)
	p.ReturnRatePercent = mathutil.NonNegative(p.ReturnRatePercent)
	p.BankInterestRatePercent = mathutil.NonNegative(p.BankInterestRatePercent)
	p.GSTPercent = mathutil.NonNegative(p.GSTPercent)
	if p.GSTPercent == 0 {
		p.GSTPercent = constants.DefaultGSTPercent
	}
	p.TaxPercent = mathutil.Clamp(mathutil.Finite(p.TaxPercent), 0, constants.PercentageMultiplier)
	return p
}

// Result breaks down both sides of the comparison. Savings is positive when the
// EMI plan is cheaper than paying upfront.
type Result struct {
	UpfrontCost      float64 `json:"upfrontCost"`
	FinancedAmount   float64 `json:"financedAmount"`
	MonthlyEMI       float64 `json:"monthlyEmi"`
	ProcessingFee    float64 `json:"processingFee"`
	BankInterest     float64 `json:"bankInterest"`
	GSTCost          float64 `json:"gstCost"`
	TotalEmiPayment  float64 `json:"totalEmiPayment"`
	InterestEarned   float64 `json:"interestEarned"`
	TaxOnReturn      float64 `json:"taxOnReturn"`
	NetReturn        float64 `json:"netReturn"`
	EffectiveEmiCost float64 `json:"effectiveEmiCost"`
	Savings          float64 `json:"savings"`
	IsEmiBetter      bool    `json:"isEmiBetter"`
	SavingsPercent   float64 `json:"savingsPercent"`
}

// Analyze prices the EMI plan net of what the upfront money earns while it
// stays invested and is drawn down one instalment at a time.
func Analyze(params Params) Result {
	p := params.Sanitize()

	upfront := p.ProductPrice - p.UpfrontDiscount
	financed := p.ProductPrice - p.EmiDiscount
	emi := financed / float64(p.TenureMonths)

	// On a no-cost plan the seller pays the bank its interest; the buyer still
	// owes GST on that interest.
	bankInterest := loans.Amortize(loans.Terms{
		Principal:         financed,
		AnnualRatePercent: p.BankInterestRatePercent,
		TermMonths:        p.TenureMonths,
	}, loans.NoCostEMI(100)).StandardInterest

	gst := 0.0
	if p.GSTOnInterest {
		gst = mathutil.ApplyPercentage(bankInterest, p.GSTPercent)
	}

	earned := finance.OpportunityReturn(upfront, p.ReturnRatePercent, p.TenureMonths, emi).InterestEarned
	taxed := finance.ApplyTax(upfront+earned, upfront, p.TaxPercent)
	netReturn := taxed.Gain()

	total := emi*float64(p.TenureMonths) + p.ProcessingFee + gst
	effective := total - netReturn
	savings := upfront - effective

	percent := mathutil.CalculatePercentage(math.Abs(savings), p.ProductPrice)

	return Result{
		UpfrontCost:      upfront,
		FinancedAmount:   financed,
		MonthlyEMI:       mathutil.Finite(emi),
		ProcessingFee:    p.ProcessingFee,
		BankInterest:     bankInterest,
		GSTCost:          gst,
		TotalEmiPayment:  mathutil.Finite(total),
		InterestEarned:   earned,
		TaxOnReturn:      taxed.TaxPaid,
		NetReturn:        mathutil.Finite(netReturn),
		EffectiveEmiCost: mathutil.Finite(effective),
		Savings:          mathutil.Finite(savings),
		IsEmiBetter:      savings > 0,
		SavingsPercent:   mathutil.Finite(percent),
	}
}

// FindBreakEvenReturnRate returns the lowest annual return rate at which the EMI
// plan costs no more than paying upfront. It returns 0 when the plan already
// wins at a 0% return, and nil when paying upfront stays cheaper across the
// whole search range.
func FindBreakEvenReturnRate(params Params) *float64 {
	return findBreakEven(params, rootfind.DefaultBisector)
}

func findBreakEven(params Params, bisector rootfind.Bisector) *float64 {
	advantage := func(rate float64) float64 {
		p := params
		p.ReturnRatePercent = rate
		r := Analyze(p)
		return r.EffectiveEmiCost - r.UpfrontCost
	}

	rate, found := bisector.Search(advantage)
	if !found {
		return nil
	}
	return &rate
}

// Analyzer runs cost model computations with logging.
type Analyzer struct {
	logger   *zap.Logger
	bisector rootfind.Bisector
}

// NewAnalyzer creates an analyzer. If logger is nil a no-op logger is used.
func NewAnalyzer(logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{logger: logger, bisector: rootfind.DefaultBisector}
}

// Report is an analysis together with its break-even return rate.
type Report struct {
	Params          Params   `json:"params"`
	Result          Result   `json:"result"`
	BreakEvenReturn *float64 `json:"breakEvenReturnPercent"`
}

// Run analyzes params and searches for the break-even return rate.
func (a *Analyzer) Run(params Params) Report {
	params = params.Sanitize()
	result := Analyze(params)
	breakEven := findBreakEven(params, a.bisector)

	fields := []zap.Field{
		zap.String("op", "costmodel.Run"),
		zap.Float64("upfront_cost", result.UpfrontCost),
		zap.Float64("effective_emi_cost", result.EffectiveEmiCost),
		zap.Bool("emi_better", result.IsEmiBetter),
	}
	if breakEven != nil {
		fields = append(fields, zap.Float64("break_even_return_percent", *breakEven))
	} else {
		fields = append(fields, zap.String("break_even_return_percent", "none"))
	}
	a.logger.Debug("analyzed no-cost EMI offer", fields...)

	return Report{Params: params, Result: result, BreakEvenReturn: breakEven}
}
