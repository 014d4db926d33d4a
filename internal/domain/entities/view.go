package entities

// Question is the payload shown to the player for the current item.
type Question struct {
	Mode        Mode
	Heading     string
	Premises    []string // rule modes
	Conclusion  string   // identify-rule mode only
	MistakeName string   // mistakes mode
	Example     string   // mistakes mode
	Placeholder string
}

// QuizView is a read-only snapshot of a session for rendering.
type QuizView struct {
	State       QuizState
	Question    Question
	HasQuestion bool
	Progress    int
	Length      int
}

// ReferenceEntry is one line item of the reference guide.
type ReferenceEntry struct {
	Name    string
	Summary string
	Example string
}

// View snapshots the session.
func (s *QuizSession) View() QuizView {
	q, ok := s.question()
	return QuizView{
		State:       s.state,
		Question:    q,
		HasQuestion: ok,
		Progress:    s.Progress(),
		Length:      s.length,
	}
}

func (s *QuizSession) question() (Question, bool) {
	mode := s.state.Mode

	if mode.UsesMistakes() {
		m, ok := s.CurrentMistake()
		if !ok {
			return Question{}, false
		}
		return Question{
			Mode:        mode,
			Heading:     "Identify the correction:",
			MistakeName: m.Name,
			Example:     m.Example,
			Placeholder: "Enter the correction",
		}, true
	}

	r, ok := s.CurrentRule()
	if !ok {
		return Question{}, false
	}

	if mode == ModeCompleteRule {
		return Question{
			Mode:        mode,
			Heading:     "Complete this rule: " + r.Name,
			Premises:    r.Premises,
			Placeholder: "Enter the conclusion",
		}, true
	}

	return Question{
		Mode:        mode,
		Heading:     "Identify this rule:",
		Premises:    r.Premises,
		Conclusion:  r.Conclusion,
		Placeholder: "Enter the name of this rule",
	}, true
}

// Reference lists the whole pool of the mode in catalog order.
func Reference(c Catalog, m Mode) []ReferenceEntry {
	if m.UsesMistakes() {
		out := make([]ReferenceEntry, 0, len(c.Mistakes))
		for _, mk := range c.Mistakes {
			out = append(out, ReferenceEntry{
				Name:    mk.Name,
				Summary: mk.Explanation,
				Example: "Example: " + mk.Example,
			})
		}
		return out
	}

	out := make([]ReferenceEntry, 0, len(c.Rules))
	for _, r := range c.Rules {
		out = append(out, ReferenceEntry{
			Name:    r.Name,
			Summary: r.Description,
			Example: r.Schema(),
		})
	}
	return out
}
