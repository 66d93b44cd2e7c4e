package triage

import (
	"net/url"
	"strings"
)

// Filter is the single active inbox filter. Priority and sentiment filters
// are evaluated by the backend via query parameters; intent filters are
// evaluated locally against each email's classified intent. Exactly one
// strategy applies per fetch.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterNegative Filter = "negative"
	FilterHigh     Filter = "high"
	FilterMedium   Filter = "medium"
	FilterLow      Filter = "low"
	FilterRefund   Filter = "refund"
	FilterTech     Filter = "tech"
	FilterBilling  Filter = "billing"
)

// Filters is the closed set of selectable filters, in cycling order.
var Filters = []Filter{
	FilterAll,
	FilterHigh,
	FilterMedium,
	FilterLow,
	FilterNegative,
	FilterRefund,
	FilterTech,
	FilterBilling,
}

// IsPriority reports whether f is sent to the backend as filter_priority.
func (f Filter) IsPriority() bool {
	return f == FilterHigh || f == FilterMedium || f == FilterLow
}

// IsLocal reports whether f is evaluated client-side against extracted
// intents rather than sent to the backend.
func (f Filter) IsLocal() bool {
	return f == FilterRefund || f == FilterTech || f == FilterBilling
}

// QueryParams returns the query parameters for the email-listing request.
// Intent filters and FilterAll contribute none.
func (f Filter) QueryParams() url.Values {
	v := url.Values{}
	switch {
	case f.IsPriority():
		v.Set("filter_priority", string(f))
	case f == FilterNegative:
		v.Set("filter_sentiment", "negative")
	}
	return v
}

// MatchesIntent reports whether an email with the given classified intent
// passes a local intent filter. Matching is a case-insensitive substring
// check; non-local filters match everything.
func (f Filter) MatchesIntent(intent string) bool {
	if !f.IsLocal() {
		return true
	}
	intent = strings.ToLower(intent)
	switch f {
	case FilterRefund:
		return strings.Contains(intent, "refund")
	case FilterBilling:
		return strings.Contains(intent, "billing")
	case FilterTech:
		return strings.Contains(intent, "login") ||
			strings.Contains(intent, "tech") ||
			strings.Contains(intent, "account")
	}
	return true
}

// ApplyLocal restricts emails to those passing a local intent filter.
// For non-local filters the input is returned unchanged.
func (f Filter) ApplyLocal(emails []Email) []Email {
	if !f.IsLocal() {
		return emails
	}
	out := make([]Email, 0, len(emails))
	for _, e := range emails {
		if f.MatchesIntent(e.Analysis.Intent()) {
			out = append(out, e)
		}
	}
	return out
}

// Label returns the filter's display name.
func (f Filter) Label() string {
	switch f {
	case FilterAll:
		return "All"
	case FilterNegative:
		return "Negative Tone"
	case FilterHigh:
		return "High Priority"
	case FilterMedium:
		return "Medium Priority"
	case FilterLow:
		return "Low Priority"
	case FilterRefund:
		return "Refunds"
	case FilterTech:
		return "Login/Tech"
	case FilterBilling:
		return "Billing"
	default:
		return string(f)
	}
}

// Valid reports whether f is one of the defined filters.
func (f Filter) Valid() bool {
	for _, other := range Filters {
		if other == f {
			return true
		}
	}
	return false
}

// Next returns the filter after f in cycling order.
func (f Filter) Next() Filter {
	return f.step(1)
}

// Prev returns the filter before f in cycling order.
func (f Filter) Prev() Filter {
	return f.step(-1)
}

func (f Filter) step(delta int) Filter {
	for i, other := range Filters {
		if other == f {
			return Filters[(i+delta+len(Filters))%len(Filters)]
		}
	}
	return FilterAll
}
