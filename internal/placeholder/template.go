package placeholder

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// PreloadToken marks where the loader script tag goes.
	PreloadToken = "{{{ PRELOAD }}}"
	// ScriptToken marks where the inline bootstrap block goes.
	ScriptToken = "{{{ SCRIPT }}}"
)

var (
	// ErrMissingSlot is returned when a required token does not occur in the content.
	ErrMissingSlot = errors.New("required placeholder not found")
	// errDuplicateSlot is returned when two slots share a name or a token.
	errDuplicateSlot = errors.New("duplicate slot")
)

// RenderFunc produces the replacement text of a slot.
type RenderFunc func() (string, error)

// Slot describes one placeholder.
type Slot struct {
	// Name identifies the slot in errors and results.
	Name string
	// Token is the literal marker replaced in the content.
	Token string
	// Required makes rendering fail when Token is absent.
	Required bool
	// Render produces the replacement; it is not called for absent optional slots.
	Render RenderFunc
}

// Result reports what Render did.
type Result struct {
	// Content is the rendered content.
	Content string
	// Substituted lists the names of slots whose token was replaced.
	Substituted []string
	// Skipped lists the names of optional slots whose token was absent.
	Skipped []string
}

// Changed reports whether any substitution happened.
func (r *Result) Changed() bool {
	return len(r.Substituted) > 0
}

// Template is an ordered set of slots.
type Template struct {
	// slots keeps registration order.
	slots []Slot
}

// New builds a template from slots; names and tokens must be unique.
func New(slots ...Slot) (*Template, error) {
	var (
		names  = make(map[string]struct{}, len(slots))
		tokens = make(map[string]struct{}, len(slots))
	)

	for _, slot := range slots {
		if slot.Token == "" || slot.Render == nil {
			return nil, fmt.Errorf("slot %q: token and render function are required", slot.Name)
		}

		if _, found := names[slot.Name]; found {
			return nil, fmt.Errorf("name %q: %w", slot.Name, errDuplicateSlot)
		}

		if _, found := tokens[slot.Token]; found {
			return nil, fmt.Errorf("token %q: %w", slot.Token, errDuplicateSlot)
		}

		names[slot.Name] = struct{}{}
		tokens[slot.Token] = struct{}{}
	}

	return &Template{slots: slots}, nil
}

// Render validates required slots against content, then replaces every
// occurrence of each present token. Nothing is rendered if validation fails.
func (t *Template) Render(content string) (*Result, error) {
	present := make([]bool, len(t.slots))

	for i, slot := range t.slots {
		present[i] = strings.Contains(content, slot.Token)
		if !present[i] && slot.Required {
			return nil, fmt.Errorf("slot %s (%s): %w", slot.Name, slot.Token, ErrMissingSlot)
		}
	}

	result := &Result{Content: content}

	for i, slot := range t.slots {
		if !present[i] {
			result.Skipped = append(result.Skipped, slot.Name)
			continue
		}

		replacement, err := slot.Render()
		if err != nil {
			return nil, fmt.Errorf("render slot %s: %w", slot.Name, err)
		}

		result.Content = strings.ReplaceAll(result.Content, slot.Token, replacement)
		result.Substituted = append(result.Substituted, slot.Name)
	}

	return result, nil
}

// Static returns a RenderFunc producing a fixed text.
func Static(text string) RenderFunc {
	return func() (string, error) {
		return text, nil
	}
}
