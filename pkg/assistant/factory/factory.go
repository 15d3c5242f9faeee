package factory

import (
	"fmt"

	"strategy-buddy-be/pkg/assistant"
	"strategy-buddy-be/pkg/assistant/openai"
)

func NewProvider(providerType, apiKey, baseURL string) (assistant.Provider, error) {
	switch providerType {
	case "openai", "":
		return openai.NewOpenAIProvider(apiKey, baseURL), nil
	default:
		return nil, fmt.Errorf("unsupported assistant provider: %s", providerType)
	}
}
