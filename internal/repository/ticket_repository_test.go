package repository

import (
	"testing"

	"github.com/opsdesk/helpdesk/internal/domain"
)

func TestAveragePerDay(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		activeDays int64
		want       float64
	}{
		{"empty store", 0, 0, 0},
		{"single day", 5, 1, 5},
		{"rounds to one decimal", 10, 3, 3.3},
		{"rounds up", 5, 3, 1.7},
		{"exact division", 6, 2, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := averagePerDay(tc.total, tc.activeDays); got != tc.want {
				t.Fatalf("averagePerDay(%d, %d) = %v, want %v", tc.total, tc.activeDays, got, tc.want)
			}
		})
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "login", "login"},
		{"underscore escaped", "log_in", `log\_in`},
		{"percent escaped", "100% cpu", `100\% cpu`},
		{"backslash escaped", `c:\temp`, `c:\\temp`},
		{"every metacharacter", `%_\`, `\%\_\\`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := escapeLike(tc.in); got != tc.want {
				t.Fatalf("escapeLike(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTicketUpdateEmpty(t *testing.T) {
	if !(TicketUpdate{}).Empty() {
		t.Fatal("zero update should be empty")
	}
	status := domain.TicketStatusOpen
	if (TicketUpdate{Status: &status}).Empty() {
		t.Fatal("update with a field should not be empty")
	}
}
