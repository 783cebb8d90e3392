package classify

import (
	"context"
	"strings"

	"github.com/tech5hu/helpdesk-ticket-system/internal/domain"
)

// Classifier assigns a category to a ticket from its title. Implementations
// must always return a value from the category enum.
type Classifier interface {
	Classify(ctx context.Context, title string) (domain.Category, error)
}

// rule pairs a category with the keywords that select it.
type rule struct {
	category domain.Category
	keywords []string
}

// KeywordClassifier is the local best-effort fallback. Rules are evaluated
// in a fixed order and the first match wins, so Security beats Network when
// a title mentions both ("VPN password issue").
type KeywordClassifier struct {
	rules []rule
}

// NewKeywordClassifier builds the classifier with the default rule set.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{
		rules: []rule{
			{domain.CategorySecurity, []string{"password", "login", "account"}},
			{domain.CategoryHardware, []string{"printer", "hardware", "microphone", "camera"}},
			{domain.CategoryNetwork, []string{"vpn", "wifi", "network"}},
		},
	}
}

// Classify lower-cases the title and returns the first matching category,
// defaulting to Software. It never fails.
func (c *KeywordClassifier) Classify(_ context.Context, title string) (domain.Category, error) {
	lowered := strings.ToLower(title)
	for _, r := range c.rules {
		for _, kw := range r.keywords {
			if strings.Contains(lowered, kw) {
				return r.category, nil
			}
		}
	}
	return domain.CategorySoftware, nil
}

// WithFallback wraps an external classifier so a failed call or an answer
// outside the category enum falls back to the keyword heuristic. The
// external classifier is advisory, never authoritative over the enum.
type WithFallback struct {
	External Classifier
	Fallback *KeywordClassifier
}

func (c *WithFallback) Classify(ctx context.Context, title string) (domain.Category, error) {
	if c.External != nil {
		result, err := c.External.Classify(ctx, title)
		if err == nil {
			if normalized, ok := domain.ParseCategory(string(result)); ok {
				return normalized, nil
			}
		}
	}
	return c.Fallback.Classify(ctx, title)
}
