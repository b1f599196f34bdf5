package classify

import (
	"testing"

	"github.com/opsdesk/helpdesk/internal/domain"
)

func TestKeywordPriority(t *testing.T) {
	tests := []struct {
		description string
		want        domain.TicketPriority
	}{
		{"", domain.TicketPriorityMedium},
		{"the export button moved a pixel, cosmetic only", domain.TicketPriorityLow},
		{"feature request: dark mode would be nice", domain.TicketPriorityLow},
		{"this is blocking our release, no workaround", domain.TicketPriorityHigh},
		{"cannot access my dashboard before the deadline", domain.TicketPriorityHigh},
		{"urgent: production data loss after last deploy", domain.TicketPriorityCritical},
		{"security incident reported by a customer", domain.TicketPriorityCritical},
		{"the report totals look slightly different", domain.TicketPriorityMedium},
		// critical keywords win over high and low when several match
		{"urgent and blocking, minor on the surface", domain.TicketPriorityCritical},
	}
	for _, tc := range tests {
		if got := keywordPriority(tc.description); got != tc.want {
			t.Errorf("keywordPriority(%q) = %s, want %s", tc.description, got, tc.want)
		}
	}
}

func TestCategoryKeywordMatchers(t *testing.T) {
	if !looksAccount("I am locked out of my account") {
		t.Error("expected account match")
	}
	if !looksBilling("duplicate charge on my invoice") {
		t.Error("expected billing match")
	}
	if !looksTechnical("the webhook endpoint returns a 500") {
		t.Error("expected technical match")
	}
	if !looksOutage("the platform is down since noon") {
		t.Error("expected outage match")
	}
	if looksOutage("minor visual glitch") || looksBilling("minor visual glitch") {
		t.Error("unexpected match on unrelated description")
	}
}

func TestApplyKeywordCorrectionsLeavesNilFieldsAlone(t *testing.T) {
	s := Suggestion{}
	applyKeywordCorrections("full outage, urgent", &s)
	if s.Category != nil || s.Priority != nil {
		t.Fatalf("expected nil fields untouched, got %+v", s)
	}
}

func TestApplyKeywordCorrectionsGeneralToTechnical(t *testing.T) {
	s := Suggestion{
		Category: categoryPtr(domain.TicketCategoryGeneral),
		Priority: priorityPtr(domain.TicketPriorityMedium),
	}
	applyKeywordCorrections("the integration crashes with a timeout in the logs", &s)
	if s.Category == nil || *s.Category != domain.TicketCategoryTechnical {
		t.Fatalf("expected general corrected to technical, got %+v", s.Category)
	}
}

func TestApplyKeywordCorrectionsKeepsConfidentModelChoice(t *testing.T) {
	// Non-medium priorities from the model are kept unless an outage forces
	// critical.
	s := Suggestion{
		Category: categoryPtr(domain.TicketCategoryBilling),
		Priority: priorityPtr(domain.TicketPriorityLow),
	}
	applyKeywordCorrections("refund request, not urgent", &s)
	if *s.Priority != domain.TicketPriorityLow {
		t.Fatalf("expected low priority kept, got %s", *s.Priority)
	}
	if *s.Category != domain.TicketCategoryBilling {
		t.Fatalf("expected billing kept, got %s", *s.Category)
	}
}
