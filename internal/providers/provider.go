// internal/providers/provider.go

// Package providers defines the interface for sending evaluation prompts to
// language model hosts. It abstracts over the underlying HTTP API so the
// runner can treat every host uniformly.
package providers

import (
	"context"
	"time"

	"github.com/mwiater/skew/internal/appconfig"
)

// ChatMessage represents a single message in a chat conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest encapsulates one evaluation prompt bound for a host.
type ChatRequest struct {
	Host         appconfig.Host
	Model        string
	Messages     []ChatMessage
	SystemPrompt string
	// ScenarioID and Iteration identify the trial in request logs.
	ScenarioID string
	Iteration  int
}

// ChatResponse carries the model's reply plus timing metadata.
type ChatResponse struct {
	Content         string
	Model           string
	CreatedAt       time.Time
	TotalDuration   int64
	PromptEvalCount int
	EvalCount       int
	EvalDuration    int64
}

// ChatProvider is the interface all model providers implement.
type ChatProvider interface {
	// LoadedModels returns the models currently loaded in memory on the host.
	LoadedModels(ctx context.Context, host appconfig.Host) ([]string, error)
	// EnsureModelReady loads the model if it is not already resident.
	EnsureModelReady(ctx context.Context, host appconfig.Host, model string) error
	// Chat sends one prompt and blocks until the full response arrives.
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
	// Close releases any resources held by the provider.
	Close() error
}
