package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/Tmtan95/GenAI-demo/internal/models"
)

// ChatConfig represents the configuration for a chat engine.
type ChatConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
	BaseURL     string // Ollama server URL
}

// ChatEngine is an engine that uses an Ollama model to generate chat
// responses.
type ChatEngine struct {
	config ChatConfig
	llm    llms.Model
}

// NewWithConfig creates a new ChatEngine with the given configuration.
func NewWithConfig(config ChatConfig) (*ChatEngine, error) {
	// Validate and set default values for config fields if necessary
	if config.Model == "" {
		config.Model = "phi3:mini" // Default Ollama model
	}
	if config.Temperature < 0 || config.Temperature > 2 {
		return nil, fmt.Errorf("temperature must be between 0 and 2")
	}
	if config.Temperature == 0 {
		config.Temperature = 0.7
	}
	if config.MaxTokens < 0 {
		return nil, fmt.Errorf("max tokens cannot be negative")
	} else if config.MaxTokens == 0 {
		config.MaxTokens = 2000
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434" // Default Ollama URL
	}

	llm, err := ollama.New(ollama.WithModel(config.Model),
		ollama.WithServerURL(config.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return &ChatEngine{
		config: config,
		llm:    llm,
	}, nil
}

// Chat sends the conversation to the model and returns the reply text.
// Messages keep their order; roles map onto the model's system, human
// and assistant message types.
func (ce *ChatEngine) Chat(ctx context.Context, messages []models.ChatMessage) (string, error) {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		content = append(content, llms.TextParts(messageType(msg.Role), msg.Content))
	}

	response, err := ce.llm.GenerateContent(ctx, content,
		llms.WithTemperature(ce.config.Temperature),
		llms.WithMaxTokens(ce.config.MaxTokens))
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrModelUnavailable, err)
	}
	if response == nil || len(response.Choices) == 0 {
		return "", fmt.Errorf("empty response from chat model")
	}

	return response.Choices[0].Content, nil
}

func messageType(role string) llms.ChatMessageType {
	switch role {
	case models.RoleSystem:
		return llms.ChatMessageTypeSystem
	case models.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
