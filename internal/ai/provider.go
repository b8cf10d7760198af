package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnavailable   = errors.New("ai provider unavailable")
	ErrNotConfigured = errors.New("ai not configured")
)

// Request is one structured generation call. Providers that cannot enforce
// Schema still ask for JSON in the prompt.
type Request struct {
	Instructions string
	Prompt       string
	SchemaName   string
	Schema       map[string]interface{}
	MaxTokens    int
}

type IProvider interface {
	Name() string
	Generate(ctx context.Context, model string, req Request) (string, error)
}

type IGenerator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

type generator struct {
	provider IProvider
	model    string
}

func NewGenerator(p IProvider, model string) IGenerator {
	return &generator{provider: p, model: model}
}

func (g *generator) Generate(ctx context.Context, req Request) (string, error) {
	return g.provider.Generate(ctx, g.model, req)
}

type ProviderFactory func(args interface{}) (IProvider, error)

var registry = map[string]ProviderFactory{}

func Register(name string, factory ProviderFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func NewProvider(name string, args interface{}) (IProvider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("ai provider name is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported ai provider: %s", name)
	}
	return factory(args)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("ai provider config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode ai provider config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode ai provider config: %w", err)
	}
	return nil
}

// DecodeModelJSON unmarshals outputText, falling back to the outermost
// {...} span when the model wrapped its answer in prose or code fences.
func DecodeModelJSON(outputText string, v interface{}) error {
	s := strings.TrimSpace(outputText)
	if s == "" {
		return fmt.Errorf("empty ai response")
	}
	if err := json.Unmarshal([]byte(s), v); err == nil {
		return nil
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end <= start {
		return fmt.Errorf("no json object found in ai response (len=%d)", len(s))
	}
	if err := json.Unmarshal([]byte(s[start:end+1]), v); err != nil {
		return fmt.Errorf("decode ai response: %w", err)
	}
	return nil
}
