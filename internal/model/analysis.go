package model

import "time"

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

const (
	ImpactPositive = "positive"
	ImpactNegative = "negative"
	ImpactNeutral  = "neutral"
)

type Region string

const (
	RegionUS     Region = "US"
	RegionEU     Region = "EU"
	RegionAsia   Region = "ASIA"
	RegionGlobal Region = "GLOBAL"
)

func Regions() []Region {
	return []Region{RegionUS, RegionEU, RegionAsia, RegionGlobal}
}

func (r Region) Valid() bool {
	switch r {
	case RegionUS, RegionEU, RegionAsia, RegionGlobal:
		return true
	}
	return false
}

type Timeframe string

const (
	TimeframeDaily     Timeframe = "daily"
	TimeframeWeekly    Timeframe = "weekly"
	TimeframeMonthly   Timeframe = "monthly"
	TimeframeQuarterly Timeframe = "quarterly"
	TimeframeYearly    Timeframe = "yearly"
)

func Timeframes() []Timeframe {
	return []Timeframe{TimeframeDaily, TimeframeWeekly, TimeframeMonthly, TimeframeQuarterly, TimeframeYearly}
}

func (t Timeframe) Valid() bool {
	switch t {
	case TimeframeDaily, TimeframeWeekly, TimeframeMonthly, TimeframeQuarterly, TimeframeYearly:
		return true
	}
	return false
}

// Days returns the length of the timeframe window used by collectors
// that query a date range.
func (t Timeframe) Days() int {
	switch t {
	case TimeframeDaily:
		return 1
	case TimeframeWeekly:
		return 7
	case TimeframeMonthly:
		return 30
	case TimeframeQuarterly:
		return 90
	case TimeframeYearly:
		return 365
	}
	return 7
}

type AnalysisRequest struct {
	Market    string
	Region    Region
	Timeframe Timeframe
}

// MarketData is one data point produced by a collector. RawData keeps the
// upstream payload as-is; ProcessedData holds the derived fields the trend
// rules read.
type MarketData struct {
	Source        string
	DataType      string
	Timestamp     time.Time
	RawData       map[string]any
	ProcessedData map[string]any
}

type Trend struct {
	TrendName      string
	Description    string
	Confidence     float64
	SupportingData []string
	Impact         string
}

type AnalysisResult struct {
	ID          string
	Request     AnalysisRequest
	Status      string
	CreatedAt   time.Time
	CompletedAt *time.Time

	MarketData []MarketData
	Trends     []Trend
	Summary    string

	// ProcessingTime is elapsed wall-clock seconds, set on the terminal
	// transition for both outcomes.
	ProcessingTime *float64
	ErrorMessage   string
}
