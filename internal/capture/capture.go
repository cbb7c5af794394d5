// Package capture turns a single line of free text into a draft task.
//
// The expected shape is "title, person, 20min" with every segment after the
// title optional and in any order. Segments containing digits set the
// estimate, anything else names the person. The task type is guessed from
// keywords in the title.
package capture

import (
	"regexp"
	"strconv"
	"strings"

	"demand-planner/internal/model"
)

// Description is attached to every task created through quick capture.
const Description = "Criado via Quick Capture"

var digits = regexp.MustCompile(`\d+`)

// Keywords lists the title words that select each type.
type Keywords struct {
	Think   []string `yaml:"think"`
	Respond []string `yaml:"respond"`
	Execute []string `yaml:"execute"`
}

// DefaultKeywords is the built-in Portuguese word list.
func DefaultKeywords() Keywords {
	return Keywords{
		Think:   []string{"analisar", "pensar", "planejar", "estruturar"},
		Respond: []string{"responder", "enviar", "retornar", "email"},
		Execute: []string{"escrever", "criar", "produzir", "fazer"},
	}
}

// Merge replaces each list of k that other sets.
func (k Keywords) Merge(other Keywords) Keywords {
	if len(other.Think) > 0 {
		k.Think = other.Think
	}
	if len(other.Respond) > 0 {
		k.Respond = other.Respond
	}
	if len(other.Execute) > 0 {
		k.Execute = other.Execute
	}
	return k
}

// Parser parses quick-capture lines.
type Parser struct {
	keywords Keywords
}

// NewParser builds a parser for the given keyword lists.
func NewParser(k Keywords) *Parser {
	return &Parser{keywords: k}
}

// Parse never fails; the worst case is a draft made of defaults.
func (p *Parser) Parse(line string) model.DraftTask {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	draft := model.DraftTask{
		Title:       parts[0],
		Type:        p.InferType(parts[0]),
		Duration:    model.DefaultDuration,
		Description: Description,
	}

	for _, part := range parts[1:] {
		if match := digits.FindString(part); match != "" {
			if minutes, err := strconv.Atoi(match); err == nil {
				draft.Duration = minutes
			}
			continue
		}
		draft.Person = part
	}
	return draft
}

// InferType picks a type from title keywords. THINK beats RESPOND beats
// EXECUTE; without any match the type is EXECUTE.
func (p *Parser) InferType(title string) model.TaskType {
	lower := strings.ToLower(title)
	switch {
	case containsAny(lower, p.keywords.Think):
		return model.TypeThink
	case containsAny(lower, p.keywords.Respond):
		return model.TypeRespond
	case containsAny(lower, p.keywords.Execute):
		return model.TypeExecute
	default:
		return model.TypeExecute
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" && strings.Contains(s, w) {
			return true
		}
	}
	return false
}
