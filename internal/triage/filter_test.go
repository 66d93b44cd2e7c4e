package triage

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestQueryParams(t *testing.T) {
	tests := []struct {
		filter Filter
		want   string
	}{
		{FilterAll, ""},
		{FilterHigh, "filter_priority=high"},
		{FilterMedium, "filter_priority=medium"},
		{FilterLow, "filter_priority=low"},
		{FilterNegative, "filter_sentiment=negative"},
		{FilterRefund, ""},
		{FilterTech, ""},
		{FilterBilling, ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			if got := tt.filter.QueryParams().Encode(); got != tt.want {
				t.Errorf("QueryParams() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMatchesIntent(t *testing.T) {
	tests := []struct {
		filter Filter
		intent string
		want   bool
	}{
		{FilterRefund, "refund_request", true},
		{FilterRefund, "Partial REFUND", true},
		{FilterRefund, "billing_issue", false},
		{FilterBilling, "billing_issue", true},
		{FilterBilling, "refund_request", false},
		{FilterTech, "login_issue", true},
		{FilterTech, "tech_support", true},
		{FilterTech, "account_access", true},
		{FilterTech, "shipping_delay", false},
		{FilterTech, "", false},
		// Non-local filters never reject by intent.
		{FilterAll, "", true},
		{FilterHigh, "anything", true},
		{FilterNegative, "", true},
	}
	for _, tt := range tests {
		if got := tt.filter.MatchesIntent(tt.intent); got != tt.want {
			t.Errorf("%s.MatchesIntent(%q) = %v, want %v", tt.filter, tt.intent, got, tt.want)
		}
	}
}

func TestApplyLocal(t *testing.T) {
	emails := []Email{
		{ID: 1, Analysis: &Analysis{ExtractedEntities: map[string]string{"intent": "refund_request"}}},
		{ID: 2, Analysis: &Analysis{ExtractedEntities: map[string]string{"intent": "login_issue"}}},
		{ID: 3}, // no analysis at all
	}

	got := FilterRefund.ApplyLocal(emails)
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("refund filter kept %v, want only email 1", ids(got))
	}

	got = FilterTech.ApplyLocal(emails)
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("tech filter kept %v, want only email 2", ids(got))
	}

	// Server-side filters pass everything through untouched.
	if diff := cmp.Diff(emails, FilterHigh.ApplyLocal(emails)); diff != "" {
		t.Errorf("priority filter modified the slice (-want +got):\n%s", diff)
	}
}

func TestCyclingCoversEveryFilter(t *testing.T) {
	f := FilterAll
	seen := map[Filter]bool{}
	for range Filters {
		seen[f] = true
		f = f.Next()
	}
	if f != FilterAll {
		t.Errorf("cycling %d steps should return to all, got %q", len(Filters), f)
	}
	if len(seen) != len(Filters) {
		t.Errorf("cycle visited %d filters, want %d", len(seen), len(Filters))
	}

	if got := FilterAll.Prev(); got != Filters[len(Filters)-1] {
		t.Errorf("Prev from all = %q, want %q", got, Filters[len(Filters)-1])
	}
}

func ids(emails []Email) []int64 {
	out := make([]int64, len(emails))
	for i, e := range emails {
		out[i] = e.ID
	}
	return out
}
