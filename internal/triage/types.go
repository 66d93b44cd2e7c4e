// Package triage defines the domain types shared by the mailtriage client,
// TUI, and demo backend: emails, their AI-generated analysis, operator roles,
// and the inbox filter set.
package triage

import "time"

// Email is one inbox item as served by the backend. The client never mutates
// an Email locally; after any backend-side change it re-fetches the
// authoritative copy.
type Email struct {
	ID          int64     `json:"id"`
	SenderEmail string    `json:"sender_email"`
	SubjectLine string    `json:"subject_line"`
	BodyContent string    `json:"body_content"`
	IsRead      bool      `json:"is_read"`
	ReceivedAt  time.Time `json:"received_at"`
	EscalatedTo *int64    `json:"escalated_to,omitempty"`
	Analysis    *Analysis `json:"analysis,omitempty"`
}

// Escalated reports whether the email is currently assigned to someone.
func (e Email) Escalated() bool {
	return e.EscalatedTo != nil
}

// Analysis is the backend-authored AI metadata embedded in an Email.
// All fields are optional on the wire; accessors below provide the
// documented display defaults.
type Analysis struct {
	Sentiment           string               `json:"sentiment,omitempty"`
	UrgencyScore        string               `json:"urgency_score,omitempty"`
	ComplianceFlag      bool                 `json:"compliance_flag,omitempty"`
	ComplianceReason    string               `json:"compliance_reason,omitempty"`
	SummaryText         string               `json:"summary_text,omitempty"`
	RecommendedAction   string               `json:"recommended_action,omitempty"`
	ActionReason        string               `json:"action_reason,omitempty"`
	SuggestedResolution *SuggestedResolution `json:"suggested_resolution,omitempty"`
	ExtractedEntities   map[string]string    `json:"extracted_entities,omitempty"`
}

// SuggestedResolution is a previously recorded fix for an email with the
// same classified intent, surfaced as a hint on unresolved emails.
type SuggestedResolution struct {
	Intent     string `json:"intent"`
	Resolution string `json:"resolution"`
	ResolvedAt string `json:"resolved_at"`
}

// intentKey is the reserved key in ExtractedEntities holding the
// backend-classified purpose of the email.
const intentKey = "intent"

// Intent returns the classified intent, or "" when the analysis carries none.
func (a *Analysis) Intent() string {
	if a == nil {
		return ""
	}
	return a.ExtractedEntities[intentKey]
}

// SentimentLabel returns the sentiment for display, defaulting to "neutral"
// when the backend supplied none.
func (a *Analysis) SentimentLabel() string {
	if a == nil || a.Sentiment == "" {
		return "neutral"
	}
	return a.Sentiment
}

// Urgency returns the urgency score, or "" when absent (the priority tag is
// omitted from display in that case).
func (a *Analysis) Urgency() string {
	if a == nil {
		return ""
	}
	return a.UrgencyScore
}

// HasComplianceAlert reports whether the compliance panel should be shown.
func (a *Analysis) HasComplianceAlert() bool {
	return a != nil && a.ComplianceFlag
}

// OtherEntities returns the extracted entities minus the reserved intent key,
// for the "Smart Extraction" panel.
func (a *Analysis) OtherEntities() map[string]string {
	if a == nil || len(a.ExtractedEntities) == 0 {
		return nil
	}
	out := make(map[string]string, len(a.ExtractedEntities))
	for k, v := range a.ExtractedEntities {
		if k == intentKey {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Role is the operator role chosen before login. It gates the framing of the
// escalation action but not the request contract.
type Role string

const (
	RoleAgent      Role = "agent"
	RoleTeamMember Role = "team_member"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleAgent || r == RoleTeamMember
}

// DisplayName returns the human-facing role name.
func (r Role) DisplayName() string {
	switch r {
	case RoleAgent:
		return "Agent"
	case RoleTeamMember:
		return "Admin"
	default:
		return string(r)
	}
}

// ActionLabel returns the label for the escalation button presented to this
// role. The underlying request is identical either way.
func (r Role) ActionLabel() string {
	if r == RoleTeamMember {
		return "Approve & Resolve"
	}
	return "Execute Action"
}

// DemoEmail returns the demonstration login address prefilled for this role.
func (r Role) DemoEmail() string {
	if r == RoleTeamMember {
		return "admin@codebharat.com"
	}
	return "agent@codebharat.com"
}
