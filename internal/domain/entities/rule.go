package entities

import "strings"

// Rule is a named inference schema of propositional logic.
type Rule struct {
	Name        string   `json:"name" yaml:"name"`
	Premises    []string `json:"premises" yaml:"premises"`
	Conclusion  string   `json:"conclusion" yaml:"conclusion"`
	Description string   `json:"description" yaml:"description"`
}

// Schema renders the rule as "P → Q, P ⊢ Q".
func (r Rule) Schema() string {
	return strings.Join(r.Premises, ", ") + " ⊢ " + r.Conclusion
}

// Mistake is a common invalid inference paired with its correction.
type Mistake struct {
	Name        string `json:"name" yaml:"name"`
	Example     string `json:"example" yaml:"example"`
	Correction  string `json:"correction" yaml:"correction"`
	Explanation string `json:"explanation" yaml:"explanation"`
}

// Catalog holds the question pools a session draws from.
type Catalog struct {
	Rules    []Rule
	Mistakes []Mistake
}

// PoolSize returns the number of questions available for the mode.
func (c Catalog) PoolSize(m Mode) int {
	if m.UsesMistakes() {
		return len(c.Mistakes)
	}
	return len(c.Rules)
}
