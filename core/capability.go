package core

import "strings"

// Capability declares an area of expertise for an agent. The keyword list and
// the capability name are matched case-insensitively against free-text
// instructions to score an agent's fitness for a task.
type Capability struct {
	Name        string
	Description string
	Keywords    []string
}

// Matches reports whether any keyword or the capability name occurs in text,
// ignoring case.
func (c Capability) Matches(text string) bool {
	lowered := strings.ToLower(text)
	for _, kw := range c.Keywords {
		if kw != "" && strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	return c.Name != "" && strings.Contains(lowered, strings.ToLower(c.Name))
}
