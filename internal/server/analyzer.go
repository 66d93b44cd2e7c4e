package server

import (
	"regexp"
	"strings"

	"github.com/codebharat/mailtriage/internal/triage"
)

// The analyzer classifies emails with keyword heuristics. It replaces the
// hosted model pipeline so the demo backend runs with no external services,
// while producing the same analysis shape the client expects.

var (
	angryWords    = []string{"furious", "outrageous", "unacceptable", "angry", "worst", "disgrace", "fed up"}
	negativeWords = []string{"disappointed", "problem", "broken", "not working", "failed", "delay", "issue", "complaint"}
	positiveWords = []string{"thank", "great", "love", "awesome", "appreciate"}
	urgentWords   = []string{"urgent", "asap", "immediately", "right now", "today"}

	// Words that trip the compliance check regardless of everything else.
	legalThreatWords = []string{"sue", "lawyer", "scam", "cheat"}

	orderIDPattern = regexp.MustCompile(`(?i)order\s*#?\s*(\d{3,})`)
	amountPattern  = regexp.MustCompile(`[$₹€£]\s?\d+(?:[.,]\d+)?`)
	intentKeywords = map[string][]string{
		"refund_request": {"refund", "money back", "reimburse"},
		"billing_issue":  {"billing", "invoice", "charged", "overcharged", "payment"},
		"login_issue":    {"login", "log in", "password", "locked out", "sign in", "account access", "tech"},
		"shipping_delay": {"shipping", "delivery", "shipped", "tracking", "package"},
	}
	intentOrder = []string{"refund_request", "billing_issue", "login_issue", "shipping_delay"}
)

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// Analyze produces the triage analysis for one email.
func Analyze(subject, body string) triage.Analysis {
	text := strings.ToLower(subject + " " + body)

	intent := "general_inquiry"
	for _, name := range intentOrder {
		if containsAny(text, intentKeywords[name]) {
			intent = name
			break
		}
	}

	sentiment := "neutral"
	switch {
	case containsAny(text, angryWords):
		sentiment = "angry"
	case containsAny(text, negativeWords):
		sentiment = "negative"
	case containsAny(text, positiveWords):
		sentiment = "positive"
	}

	urgency := "low"
	switch {
	case containsAny(text, urgentWords) || sentiment == "angry":
		urgency = "high"
	case sentiment == "negative" || intent == "refund_request" || intent == "billing_issue":
		urgency = "medium"
	}

	a := triage.Analysis{
		Sentiment:         sentiment,
		UrgencyScore:      urgency,
		SummaryText:       summarize(body),
		ExtractedEntities: map[string]string{"intent": intent},
	}

	if containsAny(text, legalThreatWords) {
		a.ComplianceFlag = true
		a.ComplianceReason = "Legal Threat"
	}

	if m := orderIDPattern.FindStringSubmatch(body); m != nil {
		a.ExtractedEntities["order_id"] = m[1]
	}
	if m := amountPattern.FindString(body); m != "" {
		a.ExtractedEntities["amount"] = m
	}

	a.RecommendedAction, a.ActionReason = recommendAction(intent, sentiment, urgency)
	return a
}

// recommendAction applies the routing rules in priority order.
func recommendAction(intent, sentiment, urgency string) (action, reason string) {
	switch {
	case sentiment == "angry" || urgency == "high":
		return "Escalate to Senior Agent", "High risk detected. Requires experienced handling."
	case strings.Contains(intent, "refund"):
		return "Route to Finance_Dept", "Customer is requesting a refund."
	case strings.Contains(intent, "login") || strings.Contains(intent, "tech") || strings.Contains(intent, "account"):
		return "Route to Tech_Support", "Technical issue identified."
	case strings.Contains(intent, "billing"):
		return "Route to Finance_Dept", "Billing discrepancy reported."
	default:
		return "Standard Reply", "Routine inquiry."
	}
}

// summarize returns the first sentence of the body, clipped to a readable
// length.
func summarize(body string) string {
	s := strings.TrimSpace(strings.ReplaceAll(body, "\n", " "))
	if idx := strings.IndexAny(s, ".!?"); idx > 0 && idx < len(s)-1 {
		s = s[:idx+1]
	}
	const maxLen = 180
	if len(s) > maxLen {
		s = s[:maxLen-3] + "..."
	}
	return s
}
