package classify

import (
	"regexp"

	"github.com/opsdesk/helpdesk/internal/domain"
)

// Keyword checks used to correct the model when its suggestion contradicts
// obvious signals in the description.
var (
	technicalKeywords = regexp.MustCompile(`(?i)\b(api|webhook|endpoint|500|502|503|server\s*error|integration|bug|crash|timeout|logs)\b`)
	accountKeywords   = regexp.MustCompile(`(?i)\b(login|log\s*in|password|reset\s*password|unlock|account|permission|profile|access|locked\s*out)\b`)
	billingKeywords   = regexp.MustCompile(`(?i)\b(charge|charged|refund|invoice|payment|subscription|billed|billing|duplicate\s*charge)\b`)

	// Outage/system-down takes precedence over account, e.g. "can't log in
	// because the platform is down".
	outageKeywords = regexp.MustCompile(`(?i)\b(outage|system\s*down|platform\s*down|been\s+down|is\s+down|full\s+outage|data\s*loss|breach)\b`)

	criticalPriorityKeywords = regexp.MustCompile(`(?i)\b(outage|down\s*for|system\s*down|platform\s*down|been\s+down|full\s+outage|data\s*loss|breach|security\s*incident|urgent|restore|backup)\b`)
	highPriorityKeywords     = regexp.MustCompile(`(?i)\b(no\s*workaround|blocking|deadline|can't\s*access|cannot\s*access|as\s*soon\s*as\s*possible|critical\s*deadline)\b`)
	lowPriorityKeywords      = regexp.MustCompile(`(?i)\b(minor|cosmetic|not\s*urgent|feature\s*request|would\s*be\s*nice|small\s*issue)\b`)
)

func looksTechnical(description string) bool {
	return description != "" && technicalKeywords.MatchString(description)
}

func looksAccount(description string) bool {
	return description != "" && accountKeywords.MatchString(description)
}

func looksBilling(description string) bool {
	return description != "" && billingKeywords.MatchString(description)
}

func looksOutage(description string) bool {
	return description != "" && outageKeywords.MatchString(description)
}

// keywordPriority derives a priority from description keywords. Critical
// wins over high, high over low, default medium.
func keywordPriority(description string) domain.TicketPriority {
	switch {
	case description == "":
		return domain.TicketPriorityMedium
	case criticalPriorityKeywords.MatchString(description):
		return domain.TicketPriorityCritical
	case highPriorityKeywords.MatchString(description):
		return domain.TicketPriorityHigh
	case lowPriorityKeywords.MatchString(description):
		return domain.TicketPriorityLow
	default:
		return domain.TicketPriorityMedium
	}
}

// applyKeywordCorrections adjusts a parsed suggestion in place. Only fields
// the model produced are corrected; fields already coerced to nil stay nil.
func applyKeywordCorrections(description string, s *Suggestion) {
	if s.Category != nil {
		switch *s.Category {
		case domain.TicketCategoryTechnical:
			if looksAccount(description) && !looksTechnical(description) {
				s.Category = categoryPtr(domain.TicketCategoryAccount)
			} else if looksBilling(description) && !looksTechnical(description) {
				s.Category = categoryPtr(domain.TicketCategoryBilling)
			}
		case domain.TicketCategoryGeneral:
			if looksTechnical(description) {
				s.Category = categoryPtr(domain.TicketCategoryTechnical)
			}
		}
		if looksOutage(description) {
			s.Category = categoryPtr(domain.TicketCategoryTechnical)
		}
	}

	if s.Priority != nil {
		if *s.Priority == domain.TicketPriorityMedium {
			if kp := keywordPriority(description); kp != domain.TicketPriorityMedium {
				s.Priority = priorityPtr(kp)
			}
		}
		if looksOutage(description) {
			s.Priority = priorityPtr(domain.TicketPriorityCritical)
		}
	}
}

func categoryPtr(c domain.TicketCategory) *domain.TicketCategory {
	return &c
}

func priorityPtr(p domain.TicketPriority) *domain.TicketPriority {
	return &p
}
