package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/aliskhannn/logic-rules-bot/internal/domain/entities"
)

var ErrEmptyCatalog = errors.New("catalog has no rules or no mistakes")

// CatalogRepository provides the fixed rule and mistake pools.
// The built-in set is used unless a JSON file overrides it.
type CatalogRepository struct {
	catalog entities.Catalog
}

// NewCatalogRepository loads the catalog from path, or uses the built-in one
// when path is empty. Files ending in .yaml or .yml are read as YAML, anything
// else as JSON.
func NewCatalogRepository(path string) (*CatalogRepository, error) {
	if path == "" {
		return &CatalogRepository{catalog: DefaultCatalog()}, nil
	}

	catalog, err := loadCatalog(path)
	if err != nil {
		return nil, err
	}

	return &CatalogRepository{catalog: catalog}, nil
}

// Catalog returns the loaded pools.
func (r *CatalogRepository) Catalog() entities.Catalog {
	return r.catalog
}

// Rules returns the rule pool in order.
func (r *CatalogRepository) Rules() []entities.Rule {
	return r.catalog.Rules
}

// Mistakes returns the mistake pool in order.
func (r *CatalogRepository) Mistakes() []entities.Mistake {
	return r.catalog.Mistakes
}

func loadCatalog(path string) (entities.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entities.Catalog{}, err
	}

	var wrapper struct {
		Rules    []entities.Rule    `json:"rules" yaml:"rules"`
		Mistakes []entities.Mistake `json:"mistakes" yaml:"mistakes"`
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err = yaml.Unmarshal(data, &wrapper); err != nil {
			return entities.Catalog{}, fmt.Errorf("failed to unmarshal catalog YAML: %w", err)
		}
	default:
		if err = json.Unmarshal(data, &wrapper); err != nil {
			return entities.Catalog{}, fmt.Errorf("failed to unmarshal catalog JSON: %w", err)
		}
	}

	if len(wrapper.Rules) == 0 || len(wrapper.Mistakes) == 0 {
		return entities.Catalog{}, ErrEmptyCatalog
	}

	return entities.Catalog{Rules: wrapper.Rules, Mistakes: wrapper.Mistakes}, nil
}

// DefaultCatalog returns the built-in inference rules and common mistakes.
func DefaultCatalog() entities.Catalog {
	return entities.Catalog{
		Rules: []entities.Rule{
			{
				Name:        "Modus Ponens",
				Premises:    []string{"P → Q", "P"},
				Conclusion:  "Q",
				Description: "If P implies Q, and P is true, then Q must be true.",
			},
			{
				Name:        "Modus Tollens",
				Premises:    []string{"P → Q", "¬Q"},
				Conclusion:  "¬P",
				Description: "If P implies Q, and Q is false, then P must be false.",
			},
			{
				Name:        "Hypothetical Syllogism",
				Premises:    []string{"P → Q", "Q → R"},
				Conclusion:  "P → R",
				Description: "If P implies Q and Q implies R, then P implies R.",
			},
			{
				Name:        "Disjunctive Syllogism",
				Premises:    []string{"P ∨ Q", "¬P"},
				Conclusion:  "Q",
				Description: "If either P or Q is true, and P is false, then Q must be true.",
			},
			{
				Name:        "Conjunction",
				Premises:    []string{"P", "Q"},
				Conclusion:  "P ∧ Q",
				Description: "If P is true and Q is true, then 'P and Q' is true.",
			},
			{
				Name:        "Simplification",
				Premises:    []string{"P ∧ Q"},
				Conclusion:  "P",
				Description: "If 'P and Q' is true, then P is true.",
			},
			{
				Name:        "Addition",
				Premises:    []string{"P"},
				Conclusion:  "P ∨ Q",
				Description: "If P is true, then 'P or Q' is true.",
			},
			{
				Name:        "Resolution",
				Premises:    []string{"P ∨ Q", "¬P ∨ R"},
				Conclusion:  "Q ∨ R",
				Description: "If 'P or Q' is true and 'not P or R' is true, then 'Q or R' is true.",
			},
		},
		Mistakes: []entities.Mistake{
			{
				Name:        "Affirming the Consequent",
				Example:     "If P → Q, Q; therefore P",
				Correction:  "Invalid: Q could be true for other reasons",
				Explanation: "Just because Q is true doesn't mean P caused it. Example: If it rains, the ground is wet. The ground is wet, therefore it rained (wrong - sprinklers could cause wet ground).",
			},
			{
				Name:        "Denying the Antecedent",
				Example:     "If P → Q, ¬P; therefore ¬Q",
				Correction:  "Invalid: Q could still be true for other reasons",
				Explanation: "Just because P is false doesn't mean Q must be false. Example: If it's sunny, it's daytime. It's not sunny, therefore it's not daytime (wrong - it could be cloudy during day).",
			},
			{
				Name:        "Fallacy of Distribution",
				Example:     "All A are B, therefore all B are A",
				Correction:  "Invalid: Relationship is not reversible",
				Explanation: "The relationship between sets is not always reversible. Example: All dogs are animals, therefore all animals are dogs (wrong).",
			},
			{
				Name:        "Confusion of Necessity",
				Example:     "P ∨ Q, P; therefore ¬Q",
				Correction:  "Invalid: Both P and Q can be true in OR statement",
				Explanation: "In an OR statement, both statements can be true. Example: Either it's hot or sunny, it's hot, therefore it's not sunny (wrong - it could be both).",
			},
			{
				Name:        "Improper Negation",
				Example:     "¬(P ∧ Q) = ¬P ∧ ¬Q",
				Correction:  "Correct form: ¬(P ∧ Q) = ¬P ∨ ¬Q",
				Explanation: "De Morgan's Law states that the negation of AND becomes OR. Example: Not(both sunny and warm) means either not sunny OR not warm.",
			},
		},
	}
}
