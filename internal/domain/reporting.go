package domain

// KPIs are the headline reporting metrics, percentage-scaled where applicable
type KPIs struct {
	YtdReturn        float64 `json:"ytdReturn"`
	AnnualizedVol    float64 `json:"annualizedVol"`
	Sharpe           float64 `json:"sharpe"`
	MaxDrawdown      float64 `json:"maxDrawdown"`
	TrackingError    float64 `json:"trackingError"`
	InformationRatio float64 `json:"informationRatio"`
}

// PerformancePoint is one point of the indexed performance series
type PerformancePoint struct {
	Date      string  `json:"date"`
	Portfolio float64 `json:"portfolio"`
	Benchmark float64 `json:"benchmark"`
}

// DrawdownPoint is one point of the drawdown series
type DrawdownPoint struct {
	Date     string  `json:"date"`
	Drawdown float64 `json:"drawdown"`
}

// Attribution is one performance-attribution row
type Attribution struct {
	Group        string  `json:"group"`
	Name         string  `json:"name"`
	Contribution float64 `json:"contribution"`
}

// Exposure is one sector exposure row
type Exposure struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// FactorExposure is one factor exposure row
type FactorExposure struct {
	Factor   string  `json:"factor"`
	Exposure float64 `json:"exposure"`
}

// FeedbackSignalType classifies a feedback signal
type FeedbackSignalType string

const (
	FeedbackSignalInfo    FeedbackSignalType = "info"
	FeedbackSignalWarning FeedbackSignalType = "warning"
	FeedbackSignalDanger  FeedbackSignalType = "danger"
)

// FeedbackSignal is one reporting-stage signal feeding back into the pipeline
type FeedbackSignal struct {
	Type                FeedbackSignalType `json:"type"`
	Message             string             `json:"message"`
	SuggestedRiskTarget *float64           `json:"suggestedRiskTarget,omitempty"`
	Flags               []string           `json:"flags,omitempty"`
}

// Clone returns a deep copy of the feedback signal
func (f FeedbackSignal) Clone() FeedbackSignal {
	next := f
	next.SuggestedRiskTarget = cloneFloat(f.SuggestedRiskTarget)
	next.Flags = append([]string(nil), f.Flags...)
	return next
}

// ExecutionMetrics are execution-cost metrics in basis points
type ExecutionMetrics struct {
	ImplementationShortfallBps float64 `json:"implementationShortfallBps"`
	SlippageBps                float64 `json:"slippageBps"`
	SpreadCostBps              float64 `json:"spreadCostBps"`
}

// OrderScore is the execution evaluator's per-order quality assessment
type OrderScore struct {
	OrderID      string   `json:"orderId"`
	QualityScore float64  `json:"qualityScore"`
	Notes        []string `json:"notes"`
}

// ExecutionReport is the execution evaluator's output slot
type ExecutionReport struct {
	ExecutionMetrics ExecutionMetrics `json:"executionMetrics"`
	OrderScores      []OrderScore     `json:"orderScores"`
	Anomalies        []string         `json:"anomalies"`
}

// Clone returns a deep copy of the execution report
func (r ExecutionReport) Clone() ExecutionReport {
	next := r
	next.OrderScores = make([]OrderScore, len(r.OrderScores))
	for i, score := range r.OrderScores {
		copied := score
		copied.Notes = append([]string(nil), score.Notes...)
		next.OrderScores[i] = copied
	}
	next.Anomalies = append([]string(nil), r.Anomalies...)
	return next
}

// Explanation is one allocation-explainer finding
type Explanation struct {
	Type     string         `json:"type"`
	Message  string         `json:"message"`
	Evidence map[string]any `json:"evidence"`
}

// TargetVsBenchmark compares one symbol's target weight against the benchmark
type TargetVsBenchmark struct {
	Symbol          string  `json:"symbol"`
	TargetWeight    float64 `json:"targetWeight"`
	BenchmarkWeight float64 `json:"benchmarkWeight"`
	ActiveWeight    float64 `json:"activeWeight"`
}

// AllocationExplainability is the allocation explainer's output slot
type AllocationExplainability struct {
	Explanations      []Explanation       `json:"explanations"`
	TargetVsBenchmark []TargetVsBenchmark `json:"targetVsBenchmark"`
}

// Clone returns a deep copy of the explainability slot
func (e AllocationExplainability) Clone() AllocationExplainability {
	next := e
	next.Explanations = make([]Explanation, len(e.Explanations))
	for i, exp := range e.Explanations {
		copied := exp
		if exp.Evidence != nil {
			copied.Evidence = make(map[string]any, len(exp.Evidence))
			for k, v := range exp.Evidence {
				copied.Evidence[k] = v
			}
		}
		next.Explanations[i] = copied
	}
	next.TargetVsBenchmark = append([]TargetVsBenchmark(nil), e.TargetVsBenchmark...)
	return next
}

// ExpectedSummary is the explainer's forward-looking summary, ratio-scaled
// as delivered by the model (not converted to percentages)
type ExpectedSummary struct {
	ExpectedReturn        float64 `json:"expectedReturn"`
	ExpectedVol           float64 `json:"expectedVol"`
	ExpectedTrackingError float64 `json:"expectedTrackingError"`
}

// SuggestionReason explains one part of a suggested allocation change
type SuggestionReason struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// SuggestedConstraints carried inside a suggestion, ratio-scale internally;
// converted to percentages only when applied to the allocation section
type SuggestedConstraints struct {
	MaxSectorWeight float64 `json:"maxSectorWeight"`
	TurnoverLimit   float64 `json:"turnoverLimit"`
}

// SuggestedAllocationInputs is the allocation advisor's output slot
type SuggestedAllocationInputs struct {
	RiskTarget  float64              `json:"riskTarget"`
	Constraints SuggestedConstraints `json:"constraints"`
	Reasons     []SuggestionReason   `json:"reasons"`
}

// Clone returns a deep copy of the suggestion
func (s SuggestedAllocationInputs) Clone() SuggestedAllocationInputs {
	next := s
	next.Reasons = append([]SuggestionReason(nil), s.Reasons...)
	return next
}

// Reporting holds the reporting-stage section of the aggregate.
// The four optional slots are populated only by external-model ingestion.
type Reporting struct {
	KPIs                      KPIs                       `json:"kpis"`
	PerformanceSeries         []PerformancePoint         `json:"performanceSeries"`
	DrawdownSeries            []DrawdownPoint            `json:"drawdownSeries"`
	Attribution               []Attribution              `json:"attribution"`
	SectorExposures           []Exposure                 `json:"sectorExposures"`
	FactorExposures           []FactorExposure           `json:"factorExposures"`
	FeedbackSignals           []FeedbackSignal           `json:"feedbackSignals"`
	Execution                 *ExecutionReport           `json:"execution"`
	AllocationExplainability  *AllocationExplainability  `json:"allocationExplainability"`
	ExpectedSummary           *ExpectedSummary           `json:"expectedSummary"`
	SuggestedAllocationInputs *SuggestedAllocationInputs `json:"suggestedAllocationInputs"`
}

// Clone returns a deep copy of the reporting section
func (r Reporting) Clone() Reporting {
	next := r

	next.PerformanceSeries = append([]PerformancePoint(nil), r.PerformanceSeries...)
	next.DrawdownSeries = append([]DrawdownPoint(nil), r.DrawdownSeries...)
	next.Attribution = append([]Attribution(nil), r.Attribution...)
	next.SectorExposures = append([]Exposure(nil), r.SectorExposures...)
	next.FactorExposures = append([]FactorExposure(nil), r.FactorExposures...)

	next.FeedbackSignals = make([]FeedbackSignal, len(r.FeedbackSignals))
	for i, signal := range r.FeedbackSignals {
		next.FeedbackSignals[i] = signal.Clone()
	}

	if r.Execution != nil {
		copied := r.Execution.Clone()
		next.Execution = &copied
	}
	if r.AllocationExplainability != nil {
		copied := r.AllocationExplainability.Clone()
		next.AllocationExplainability = &copied
	}
	if r.ExpectedSummary != nil {
		copied := *r.ExpectedSummary
		next.ExpectedSummary = &copied
	}
	if r.SuggestedAllocationInputs != nil {
		copied := r.SuggestedAllocationInputs.Clone()
		next.SuggestedAllocationInputs = &copied
	}

	return next
}
