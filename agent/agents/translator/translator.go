// Package translator adapts the completion capability for language
// detection, translation, and tone adjustment of in/outbound messages.
package translator

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/amilie-studio/inbox-agent/agent/contract"
	llmx "github.com/amilie-studio/inbox-agent/agent/llm"
	promptx "github.com/amilie-studio/inbox-agent/agent/prompt"
)

const (
	translateMaxTokens = 1024
	toneMaxTokens      = 1024

	// DefaultTargetLanguage is the pipeline's working language.
	DefaultTargetLanguage = "en"
)

var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"ar": "Arabic",
	"zh": "Chinese",
	"ja": "Japanese",
	"ko": "Korean",
	"hi": "Hindi",
	"ru": "Russian",
}

var toneInstructions = map[contractx.Tone]string{
	contractx.ToneFriendly:     "Make it warm, casual, and approachable. Use a conversational style.",
	contractx.ToneProfessional: "Make it formal, polite, and business-appropriate.",
	contractx.TonePersuasive:   "Make it compelling and sales-oriented while remaining respectful.",
}

type translatorImpl struct {
	client   contractx.CompletionClient
	detector contractx.LanguageDetector
	prompts  promptx.PromptSet
}

var _ contractx.Translator = (*translatorImpl)(nil)

func New(client contractx.CompletionClient, detector contractx.LanguageDetector, prompts promptx.PromptSet) contractx.Translator {
	return &translatorImpl{
		client:   client,
		detector: detector,
		prompts:  prompts,
	}
}

// Translate detects the source language and translates into targetLanguage.
// A remote failure falls back to pass-through: the original text, unmarked.
func (t *translatorImpl) Translate(ctx context.Context, message, targetLanguage string) (contractx.Translation, error) {
	if strings.TrimSpace(targetLanguage) == "" {
		targetLanguage = DefaultTargetLanguage
	}
	source := t.detector.Detect(message)

	passthrough := contractx.Translation{
		Original:       message,
		Translated:     message,
		SourceLanguage: source,
		TargetLanguage: targetLanguage,
		WasTranslated:  false,
	}
	if source == targetLanguage {
		return passthrough, nil
	}

	targetName := languageNames[targetLanguage]
	if targetName == "" {
		targetName = targetLanguage
	}
	prompt, err := llmx.Render("translate", t.prompts.Translate, map[string]string{
		"TargetName": targetName,
		"Message":    message,
	})
	if err != nil {
		return contractx.Translation{}, err
	}

	translated, err := t.client.Complete(ctx, prompt, translateMaxTokens)
	if err != nil {
		log.Warn().Err(err).Str("target", targetLanguage).Msg("translate failed, passing message through")
		return passthrough, nil
	}

	return contractx.Translation{
		Original:       message,
		Translated:     strings.TrimSpace(translated),
		SourceLanguage: source,
		TargetLanguage: targetLanguage,
		WasTranslated:  true,
	}, nil
}

// TranslateForClient translates an outbound reply into the client's language.
func (t *translatorImpl) TranslateForClient(ctx context.Context, message, clientLanguage string) (string, error) {
	result, err := t.Translate(ctx, message, clientLanguage)
	if err != nil {
		return "", err
	}
	return result.Translated, nil
}

// AdjustTone rewrites the message in the requested register. On failure the
// text is returned unchanged.
func (t *translatorImpl) AdjustTone(ctx context.Context, message string, tone contractx.Tone) (string, error) {
	instruction, ok := toneInstructions[tone]
	if !ok {
		instruction = toneInstructions[contractx.ToneProfessional]
	}

	prompt, err := llmx.Render("adjust_tone", t.prompts.AdjustTone, map[string]string{
		"Instruction": instruction,
		"Message":     message,
	})
	if err != nil {
		return "", err
	}

	adjusted, err := t.client.Complete(ctx, prompt, toneMaxTokens)
	if err != nil {
		log.Warn().Err(err).Str("tone", string(tone)).Msg("tone adjustment failed, keeping message")
		return message, nil
	}
	return strings.TrimSpace(adjusted), nil
}
