package handler

import (
	"time"

	"crewinsight/internal/model"
)

type AnalyzeRequest struct {
	Market    string `json:"market"`
	Region    string `json:"region"`
	Timeframe string `json:"timeframe"`
	APIKey    string `json:"api_key"`
}

type AnalyzeResponse struct {
	AnalysisID          string `json:"analysis_id"`
	Status              string `json:"status"`
	Message             string `json:"message"`
	EstimatedCompletion string `json:"estimated_completion"`
}

type RequestResponse struct {
	Market    string `json:"market"`
	Region    string `json:"region"`
	Timeframe string `json:"timeframe"`
}

type MarketDataResponse struct {
	Source        string         `json:"source"`
	DataType      string         `json:"data_type"`
	Timestamp     string         `json:"timestamp"`
	RawData       map[string]any `json:"raw_data"`
	ProcessedData map[string]any `json:"processed_data"`
}

type TrendResponse struct {
	TrendName      string   `json:"trend_name"`
	Description    string   `json:"description"`
	Confidence     float64  `json:"confidence"`
	SupportingData []string `json:"supporting_data"`
	Impact         string   `json:"impact"`
}

type ResultResponse struct {
	ID             string               `json:"id"`
	Request        RequestResponse      `json:"request"`
	Status         string               `json:"status"`
	CreatedAt      string               `json:"created_at"`
	CompletedAt    *string              `json:"completed_at,omitempty"`
	MarketData     []MarketDataResponse `json:"market_data"`
	Trends         []TrendResponse      `json:"trends"`
	Summary        string               `json:"summary,omitempty"`
	ProcessingTime *float64             `json:"processing_time,omitempty"`
	ErrorMessage   string               `json:"error_message,omitempty"`
}

func toResultResponse(r model.AnalysisResult) ResultResponse {
	res := ResultResponse{
		ID: r.ID,
		Request: RequestResponse{
			Market:    r.Request.Market,
			Region:    string(r.Request.Region),
			Timeframe: string(r.Request.Timeframe),
		},
		Status:         r.Status,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
		MarketData:     []MarketDataResponse{},
		Trends:         []TrendResponse{},
		Summary:        r.Summary,
		ProcessingTime: r.ProcessingTime,
		ErrorMessage:   r.ErrorMessage,
	}

	if r.CompletedAt != nil {
		completed := r.CompletedAt.Format(time.RFC3339)
		res.CompletedAt = &completed
	}

	for _, d := range r.MarketData {
		res.MarketData = append(res.MarketData, MarketDataResponse{
			Source:        d.Source,
			DataType:      d.DataType,
			Timestamp:     d.Timestamp.Format(time.RFC3339),
			RawData:       d.RawData,
			ProcessedData: d.ProcessedData,
		})
	}

	for _, t := range r.Trends {
		res.Trends = append(res.Trends, TrendResponse{
			TrendName:      t.TrendName,
			Description:    t.Description,
			Confidence:     t.Confidence,
			SupportingData: t.SupportingData,
			Impact:         t.Impact,
		})
	}

	return res
}
