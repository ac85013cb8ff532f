package business

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPricingTextSortedAndTitleized(t *testing.T) {
	t.Parallel()

	text := Default().PricingText()
	if !strings.HasPrefix(text, "PRICING:\n") {
		t.Fatalf("text = %q, want PRICING header", text)
	}
	banner := strings.Index(text, "- Banner:")
	logo := strings.Index(text, "- Logo:")
	vtuber := strings.Index(text, "- Vtuber Model 2d:")
	if banner < 0 || logo < 0 || vtuber < 0 {
		t.Fatalf("missing entries:\n%s", text)
	}
	if !(banner < logo && logo < vtuber) {
		t.Fatalf("entries not sorted:\n%s", text)
	}
}

func TestPromptContext(t *testing.T) {
	t.Parallel()

	ctx := Default().PromptContext()
	for _, want := range []string{"Business: amilie", "PRICING:", "FAQ:", "- Delivery Time: 4-5 business days"} {
		if !strings.Contains(ctx, want) {
			t.Fatalf("prompt context missing %q:\n%s", want, ctx)
		}
	}
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	t.Parallel()

	facts, err := Load("  ")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if facts.Name != "amilie" {
		t.Fatalf("name = %q, want default", facts.Name)
	}
}

func TestLoadOverridesDefault(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "facts.yaml")
	content := "name: acme\ntagline: custom tagline\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	facts, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if facts.Name != "acme" || facts.Tagline != "custom tagline" {
		t.Fatalf("facts = %+v, want overrides applied", facts)
	}
	// Fields absent from the file keep their defaults.
	if len(facts.Pricing) == 0 {
		t.Fatal("pricing defaults should survive a partial override")
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for a missing file")
	}
}
