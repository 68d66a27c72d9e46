// Package llmops registers the llm_generate operation, which turns a
// node's inputs into a prompt for a hosted language model. Import this
// package with a blank identifier to activate it:
//
//	import _ "github.com/ravi-parthasarathy/strgraph/pkg/graph/llmops"
//
// The operation takes any number of inputs (concatenated into the user
// prompt) and one or two constants: a "provider:model-name" id and an
// optional system prompt. Network calls block the evaluating worker, as
// any long-running operation does.
package llmops

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ravi-parthasarathy/strgraph/pkg/graph"
)

func init() {
	graph.RegisterOperation("llm_generate", generateOp)
}

// Client is the provider-agnostic completion interface.
type Client interface {
	// Complete performs a blocking generation and returns the response text.
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// ProviderFactory creates a Client for a given model name within a provider.
type ProviderFactory func(modelName string) (Client, error)

var (
	providersMu sync.RWMutex
	providers   = map[string]ProviderFactory{}
)

// RegisterProvider registers a factory for a named provider. Call this
// from init() in provider files.
func RegisterProvider(name string, factory ProviderFactory) {
	providersMu.Lock()
	defer providersMu.Unlock()
	providers[name] = factory
}

// newClient constructs a Client for a "provider:model-name" id.
func newClient(modelID string) (Client, error) {
	provider, modelName, ok := strings.Cut(modelID, ":")
	if !ok || provider == "" || modelName == "" {
		return nil, fmt.Errorf("model id %q: want 'provider:model-name'", modelID)
	}
	providersMu.RLock()
	factory, found := providers[provider]
	providersMu.RUnlock()
	if !found {
		return nil, fmt.Errorf("no provider registered for %q (model id %q)", provider, modelID)
	}
	return factory(modelName)
}

func generateOp(inputs, constants []string) (graph.Result, error) {
	if len(constants) < 1 || len(constants) > 2 {
		return graph.Result{}, fmt.Errorf("llm_generate requires 1 or 2 constants (model id, optional system prompt), got %d", len(constants))
	}
	prompt := strings.Join(inputs, "")
	if prompt == "" {
		return graph.Result{}, fmt.Errorf("llm_generate: empty prompt")
	}
	system := ""
	if len(constants) == 2 {
		system = constants[1]
	}

	client, err := newClient(constants[0])
	if err != nil {
		return graph.Result{}, err
	}

	var text string
	err = withRetry(context.Background(), 4, func(ctx context.Context) error {
		var innerErr error
		text, innerErr = client.Complete(ctx, system, prompt)
		return innerErr
	})
	if err != nil {
		return graph.Result{}, err
	}
	return graph.SingleResult(text), nil
}
