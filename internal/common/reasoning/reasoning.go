// internal/common/reasoning/reasoning.go
package reasoning

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"archai-workers/internal/common/config"
)

const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"

	DefaultSystemPrompt = "You are an expert technical architect. Return only JSON unless specified otherwise."
)

var (
	ErrTimeout     = errors.New("REASONING_TIMEOUT")
	ErrUnavailable = errors.New("REASONING_UNAVAILABLE")
	ErrEmpty       = errors.New("REASONING_EMPTY_RESPONSE")
	ErrRejected    = errors.New("REASONING_REPLY_REJECTED")
)

// ReplyCheck returns an error for replies the caller cannot use.
type ReplyCheck func(reply string) error

// CheckedClient is implemented by clients that keep state per reply and must
// know whether the caller accepted it.
type CheckedClient interface {
	CompleteChecked(ctx context.Context, system, prompt string, check ReplyCheck) (string, error)
}

// CompleteChecked calls c and runs check on the reply. A rejected reply comes
// back as an ErrRejected error.
func CompleteChecked(ctx context.Context, c Client, system, prompt string, check ReplyCheck) (string, error) {
	if cc, ok := c.(CheckedClient); ok {
		return cc.CompleteChecked(ctx, system, prompt, check)
	}
	out, err := c.Complete(ctx, system, prompt)
	if err != nil {
		return "", err
	}
	if err := runCheck(check, out); err != nil {
		return "", err
	}
	return out, nil
}

func runCheck(check ReplyCheck, reply string) error {
	if check == nil {
		return nil
	}
	if err := check(reply); err != nil {
		return fmt.Errorf("%w: %v", ErrRejected, err)
	}
	return nil
}

// Client sends one prompt to an external reasoning service and returns the
// raw text of its reply.
type Client interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
	Name() string
}

// New builds the client for the configured provider.
func New(ctx context.Context, cfg config.ReasoningConfig) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderGroq:
		return NewGroqClient(cfg), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported reasoning provider %q", cfg.Provider)
	}
}

// Timeout returns the configured per-call budget.
func Timeout(cfg config.ReasoningConfig) time.Duration {
	if cfg.Timeout <= 0 {
		return 15 * time.Second
	}
	return config.GetDuration(cfg.Timeout)
}
