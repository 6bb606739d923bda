// Package classify wraps the external AI classification step that
// assigns priority, category, department, and a time estimate to a new
// ticket. The algorithm itself is a collaborator; the lifecycle machine
// only depends on the Classifier contract and the documented fallback.
package classify

import (
	"context"
	"strings"

	"github.com/inucxhu/soporte360/internal/domain"
)

// Classifier produces a classification for a ticket draft.
type Classifier interface {
	Classify(ctx context.Context, title, description string) (domain.Classification, error)
}

// Heuristic is a keyword-based classifier used when no remote
// classification endpoint is configured. It mirrors the label set of the
// upstream model.
type Heuristic struct{}

// NewHeuristic creates the keyword classifier.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// categoryRules are checked in order; the first match wins, so security
// wording beats the broader access and network vocabularies.
var categoryRules = []struct {
	category domain.TicketCategory
	words    []string
}{
	{domain.TicketCategorySecurity, []string{"phishing", "virus", "malware", "breach", "security", "suspicious"}},
	{domain.TicketCategoryAccess, []string{"login", "log in", "password", "locked", "access", "permission", "account"}},
	{domain.TicketCategoryNetwork, []string{"network", "wifi", "vpn", "internet", "dns", "connection"}},
	{domain.TicketCategoryHardware, []string{"printer", "keyboard", "monitor", "laptop", "disk", "hardware", "screen"}},
}

var highPriorityKeywords = []string{"cannot", "can't", "down", "outage", "urgent", "blocked", "critical", "everyone"}
var lowPriorityKeywords = []string{"request", "question", "how to", "whenever", "minor", "cosmetic"}

// Classify inspects title and description for signal words. Unmatched
// input falls through to the same defaults the remote classifier uses.
func (h *Heuristic) Classify(_ context.Context, title, description string) (domain.Classification, error) {
	text := strings.ToLower(title + " " + description)
	result := domain.FallbackClassification()

	for _, rule := range categoryRules {
		if containsAny(text, rule.words) {
			result.Category = rule.category
			break
		}
	}

	switch result.Category {
	case domain.TicketCategoryNetwork, domain.TicketCategorySecurity:
		result.Department = domain.TicketDepartmentInfrastructure
	case domain.TicketCategoryHardware:
		result.Department = domain.TicketDepartmentIT
	}

	if containsAny(text, highPriorityKeywords) {
		result.Priority = domain.TicketPriorityHigh
		result.EstimatedTime = "1-2 hours"
	} else if containsAny(text, lowPriorityKeywords) {
		result.Priority = domain.TicketPriorityLow
		result.EstimatedTime = "1-2 days"
	}

	return result, nil
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
