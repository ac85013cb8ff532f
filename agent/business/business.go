// Package business holds the read-only business facts (services, pricing,
// FAQ) that are rendered verbatim into reply-generation prompts.
package business

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

type Service struct {
	Price       string `mapstructure:"price" yaml:"price"`
	Description string `mapstructure:"description" yaml:"description"`
}

type Facts struct {
	Name     string             `mapstructure:"name" yaml:"name"`
	Tagline  string             `mapstructure:"tagline" yaml:"tagline"`
	Services string             `mapstructure:"services" yaml:"services"`
	Pricing  map[string]Service `mapstructure:"pricing" yaml:"pricing"`
	FAQ      map[string]string  `mapstructure:"faq" yaml:"faq"`
}

// Default returns the built-in facts for the amilie design studio.
func Default() Facts {
	return Facts{
		Name:     "amilie",
		Tagline:  "Professional digital designs & VTuber models",
		Services: "logos, banners, VTuber models, and digital designs",
		Pricing: map[string]Service{
			"logo":            {Price: "$50-100", Description: "Custom logo design"},
			"banner":          {Price: "$50-100", Description: "Custom banner design"},
			"vtuber_model_2d": {Price: "$200-500", Description: "2D VTuber model"},
			"vtuber_model_3d": {Price: "$200-500", Description: "3D VTuber model"},
			"other":           {Price: "$200-600", Description: "Other digital services"},
		},
		FAQ: map[string]string{
			"delivery_time":   "4-5 business days",
			"revisions":       "4 revisions included",
			"payment_methods": "PayPal, Stripe, and other methods",
			"rush_orders":     "Rush orders are not available at the moment",
			"refund_policy":   "Please contact us to discuss refund options",
		},
	}
}

// Load returns Default overridden by the YAML file at path, when present.
func Load(path string) (Facts, error) {
	facts := Default()
	if strings.TrimSpace(path) == "" {
		return facts, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return facts, fmt.Errorf("read business facts: %w", err)
	}
	if err := v.Unmarshal(&facts); err != nil {
		return facts, fmt.Errorf("decode business facts: %w", err)
	}
	return facts, nil
}

// PricingText renders the pricing table as prompt lines, keys sorted for a
// stable rendering.
func (f Facts) PricingText() string {
	keys := make([]string, 0, len(f.Pricing))
	for k := range f.Pricing {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("PRICING:\n")
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("- %s: %s\n", titleize(k), f.Pricing[k].Price))
	}
	return b.String()
}

func (f Facts) FAQText() string {
	keys := make([]string, 0, len(f.FAQ))
	for k := range f.FAQ {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("FAQ:\n")
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("- %s: %s\n", titleize(k), f.FAQ[k]))
	}
	return b.String()
}

// PromptContext is the full block injected into best-reply prompts.
func (f Facts) PromptContext() string {
	return fmt.Sprintf("Business: %s\nServices: %s\n\n%s\n%s", f.Name, f.Services, f.PricingText(), f.FAQText())
}

func titleize(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
