package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"crewinsight/internal/config"
	"crewinsight/internal/handler"
	"crewinsight/internal/pipeline"
	"crewinsight/internal/store"
	"crewinsight/pkg/llm"
	"crewinsight/pkg/market"
)

func main() {

	godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	resultStore := store.New(cfg.StoreMaxResults, cfg.StoreTTLHours)

	manager := market.NewManager(
		market.NewAlphaVantageCollector(cfg.AlphaVantageAPIKey, cfg.RequestTimeout),
		market.NewNewsCollector(cfg.NewsAPIKey, cfg.RequestTimeout),
		market.NewEconomicCollector(),
		market.NewFinnhubCollector(cfg.FinnhubAPIKey),
	)

	var provider llm.Provider
	switch {
	case cfg.OpenAIAPIKey != "":
		provider = llm.NewOpenAIClient(cfg.OpenAIAPIKey)
	case cfg.AnthropicAPIKey != "":
		provider = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
	default:
		slog.Warn("no summary provider key configured, using fallback summaries")
	}

	summarizer := llm.NewMarketSummarizer(provider)
	slog.Info("summary provider selected", "provider", summarizer.ProviderName())

	runner := pipeline.NewRunner(resultStore, manager, summarizer)
	analysisHandler := handler.NewAnalysisHandler(resultStore, runner, summarizer, cfg.APIKey)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type"},
	}))

	r.POST("/analyze", analysisHandler.Analyze)
	r.GET("/results/:id", analysisHandler.GetResult)
	r.GET("/results", analysisHandler.ListResults)
	r.DELETE("/results/:id", analysisHandler.DeleteResult)
	r.GET("/health", analysisHandler.GetHealth)
	r.GET("/", analysisHandler.GetInfo)
	r.GET("/api", analysisHandler.GetInfo)

	slog.Info("starting server", "addr", cfg.Addr())

	err = r.Run(cfg.Addr())
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
