package generation

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"text/template"
)

// flashcardInstruction is the system instruction for flashcard generation.
const flashcardInstruction = "You generate study flashcards. " +
	"Reply with a bare JSON array of objects with string fields \"term\" and \"definition\" " +
	"and nothing else: no prose, no markdown, no code fences."

// tutorInstruction is the system instruction for plain chat answers.
const tutorInstruction = "You are a friendly study tutor. " +
	"Answer the student's questions clearly and concisely."

//go:embed prompts/flashcards.tmpl
var defaultFlashcardTemplate string

// promptData represents the data passed to the prompt template
type promptData struct {
	Topic string
}

// loadPromptTemplate parses the template at path, or the embedded default
// when path is empty.
func loadPromptTemplate(path string) (*template.Template, error) {
	content := defaultFlashcardTemplate
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
				ErrUpstreamMisconfigured, path, err)
		}
		content = string(b)
	}

	tmpl, err := template.New("flashcards").Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", ErrUpstreamMisconfigured, err)
	}
	return tmpl, nil
}

// renderFlashcardPrompt executes the template for topic.
func renderFlashcardPrompt(tmpl *template.Template, topic string) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, promptData{Topic: topic}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
