package ai

import (
	"context"

	"go-interview-backend/config"
	"go-interview-backend/pkg/logger"
)

// NewFromConfig picks the completion backend once at startup. A backend that
// fails to initialise degrades to Disabled so the pipeline keeps running on
// its deterministic stages.
func NewFromConfig(ctx context.Context, cfg *config.Config) Completer {
	switch cfg.AIProvider {
	case config.AIProviderGemini:
		c, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Log.Error("Gemini init failed, using deterministic fallbacks", "error", err)
			return Disabled()
		}
		logger.Log.Info("AI completion enabled", "provider", "gemini", "model", cfg.GeminiModel)
		return c
	case config.AIProviderVertex:
		c, err := NewVertexClient(ctx, cfg.GoogleCloudProject, cfg.GoogleCloudLocation, cfg.GeminiModel)
		if err != nil {
			logger.Log.Error("Vertex AI init failed, using deterministic fallbacks", "error", err)
			return Disabled()
		}
		logger.Log.Info("AI completion enabled", "provider", "vertex", "model", cfg.GeminiModel)
		return c
	}
	logger.Log.Warn("AI completion disabled")
	return Disabled()
}
