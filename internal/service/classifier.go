package service

import (
	"regexp"
	"strings"
)

// DefaultTriggerPhrase marks an utterance as a request for flashcards.
const DefaultTriggerPhrase = "create flashcards on"

// Intent is what the user wants from one utterance.
type Intent int

// Known intents.
const (
	IntentAnswer Intent = iota
	IntentFlashcards
)

// String returns the intent name used in logs.
func (i Intent) String() string {
	switch i {
	case IntentFlashcards:
		return "flashcards"
	default:
		return "answer"
	}
}

// Classification is the result of classifying an utterance. Topic is only
// meaningful for IntentFlashcards and may be empty.
type Classification struct {
	Intent Intent
	Topic  string
}

// Classifier decides whether an utterance asks for flashcards.
type Classifier interface {
	Classify(prompt string) Classification
}

// TriggerPhraseClassifier matches a fixed phrase case-insensitively. The
// first occurrence of the phrase is removed and the trimmed remainder becomes
// the topic.
type TriggerPhraseClassifier struct {
	pattern *regexp.Regexp
}

// NewTriggerPhraseClassifier creates a classifier for phrase, or for
// DefaultTriggerPhrase when phrase is blank.
func NewTriggerPhraseClassifier(phrase string) *TriggerPhraseClassifier {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		phrase = DefaultTriggerPhrase
	}
	return &TriggerPhraseClassifier{
		pattern: regexp.MustCompile("(?i)" + regexp.QuoteMeta(phrase)),
	}
}

// Classify implements Classifier.
func (c *TriggerPhraseClassifier) Classify(prompt string) Classification {
	loc := c.pattern.FindStringIndex(prompt)
	if loc == nil {
		return Classification{Intent: IntentAnswer}
	}

	topic := strings.TrimSpace(prompt[:loc[0]] + prompt[loc[1]:])
	return Classification{Intent: IntentFlashcards, Topic: topic}
}
