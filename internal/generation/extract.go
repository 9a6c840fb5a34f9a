package generation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/phrazzld/cardchat/internal/domain"
)

// pairSchema is the shape every generated element must have.
type pairSchema struct {
	Term       string `json:"term"       validate:"required,notblank"`
	Definition string `json:"definition" validate:"required,notblank"`
}

// wrappedContent is the content-array envelope some providers nest the
// generated text in: {"content":[{"type":"text","text":"[...]"}]}.
type wrappedContent struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

var schemaValidator = newSchemaValidator()

func newSchemaValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		// ALLOW-PANIC: registration only fails on programmer error
		panic(err)
	}
	return v
}

// Extract parses raw model output into an ordered list of flashcard pairs.
//
// It accepts either a bare JSON array or an object whose first content
// element's text is that array, and tolerates a markdown fence or stray text
// around the array. Everything inside the array is checked strictly: if any
// element is not an object with non-blank string "term" and "definition"
// fields, the whole response is rejected with ErrMalformedResponse. An empty
// array yields domain.ErrEmptyResult.
func Extract(raw string) ([]domain.FlashcardPair, error) {
	candidate, err := candidateArray(raw)
	if err != nil {
		return nil, err
	}

	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &elements); err != nil {
		return nil, fmt.Errorf("%w: not a JSON array: %v", ErrMalformedResponse, err)
	}

	if len(elements) == 0 {
		return nil, domain.ErrEmptyResult
	}

	pairs := make([]domain.FlashcardPair, 0, len(elements))
	for i, element := range elements {
		if !bytes.HasPrefix(bytes.TrimSpace(element), []byte("{")) {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrMalformedResponse, i)
		}

		var item pairSchema
		if err := json.Unmarshal(element, &item); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrMalformedResponse, i, err)
		}

		if err := schemaValidator.Struct(item); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrMalformedResponse, i, err)
		}

		pairs = append(pairs, domain.FlashcardPair{Term: item.Term, Definition: item.Definition})
	}

	return pairs, nil
}

// candidateArray unwraps the text that should hold the JSON array.
func candidateArray(raw string) (string, error) {
	s := stripCodeFence(strings.TrimSpace(raw))
	if s == "" {
		return "", fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	if s[0] == '{' {
		var wrapped wrappedContent
		if err := json.Unmarshal([]byte(s), &wrapped); err != nil {
			return "", fmt.Errorf("%w: invalid JSON object: %v", ErrMalformedResponse, err)
		}
		if len(wrapped.Content) == 0 {
			return "", fmt.Errorf("%w: object has no content array", ErrMalformedResponse)
		}
		s = stripCodeFence(strings.TrimSpace(wrapped.Content[0].Text))
	}

	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end < start {
		return "", fmt.Errorf("%w: no JSON array found", ErrMalformedResponse)
	}

	return s[start : end+1], nil
}

// stripCodeFence removes a surrounding ``` or ```json fence.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}

	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
