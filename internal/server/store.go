package server

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rotisserie/eris"

	"github.com/codebharat/mailtriage/internal/triage"
)

// Store errors surfaced to the HTTP layer.
var (
	ErrEmailNotFound = eris.New("email not found")
	ErrInvalidRole   = eris.New("invalid role")
)

// teamLeadID is who emails get assigned to when an agent escalates.
const teamLeadID int64 = 2

// emailRecord is the store's internal row: the wire email plus the
// resolution bookkeeping that never leaves the backend.
type emailRecord struct {
	email           triage.Email
	analysis        triage.Analysis
	finalResolution string
	resolvedAt      time.Time
}

// cachedResolution is one entry in the per-intent resolution cache, used to
// surface "someone already fixed this" hints on unresolved emails.
type cachedResolution struct {
	resolution string
	resolvedAt time.Time
}

// Store is the demo backend's in-memory email store.
type Store struct {
	mu          sync.RWMutex
	records     map[int64]*emailRecord
	nextID      int64
	resolutions map[string]cachedResolution // keyed by intent
	now         func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		records:     make(map[int64]*emailRecord),
		nextID:      1,
		resolutions: make(map[string]cachedResolution),
		now:         time.Now,
	}
}

// Add analyzes and stores a new email, returning its assigned id.
func (s *Store) Add(sender, subject, body string, receivedAt time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.records[id] = &emailRecord{
		email: triage.Email{
			ID:          id,
			SenderEmail: sender,
			SubjectLine: subject,
			BodyContent: body,
			ReceivedAt:  receivedAt,
		},
		analysis: Analyze(subject, body),
	}
	return id
}

// List returns emails newest-first. A non-empty priority keeps only emails
// with that urgency score; a non-empty sentiment keeps only that sentiment.
// Unresolved emails whose intent has a cached resolution get the suggestion
// attached.
func (s *Store) List(priority, sentiment string) []triage.Email {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]triage.Email, 0, len(s.records))
	for _, rec := range s.records {
		a := rec.analysis
		if priority != "" && a.UrgencyScore != priority {
			continue
		}
		if sentiment != "" && a.Sentiment != sentiment {
			continue
		}

		if rec.resolvedAt.IsZero() {
			intent := a.ExtractedEntities["intent"]
			if cached, ok := s.resolutions[intent]; ok {
				a.SuggestedResolution = &triage.SuggestedResolution{
					Intent:     intent,
					Resolution: cached.resolution,
					ResolvedAt: cached.resolvedAt.Format(time.RFC3339),
				}
			}
		}

		email := rec.email
		email.Analysis = &a
		out = append(out, email)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].ReceivedAt.Equal(out[j].ReceivedAt) {
			return out[i].ReceivedAt.After(out[j].ReceivedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// Escalate applies the role-specific action to an email and returns the
// confirmation message. Agents hand the email to the team lead; team members
// resolve it and cache the resolution under the email's intent.
func (s *Store) Escalate(id int64, role triage.Role) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return "", eris.Wrapf(ErrEmailNotFound, "email %d", id)
	}

	switch role {
	case triage.RoleAgent:
		lead := teamLeadID
		rec.email.EscalatedTo = &lead
		return "Escalated to Team", nil

	case triage.RoleTeamMember:
		rec.email.EscalatedTo = nil
		rec.finalResolution = fmt.Sprintf("Issue resolved via %s review. Standard action taken.", role)
		rec.resolvedAt = s.now()
		if intent := rec.analysis.ExtractedEntities["intent"]; intent != "" {
			s.resolutions[intent] = cachedResolution{
				resolution: rec.finalResolution,
				resolvedAt: rec.resolvedAt,
			}
		}
		return "Resolved and Cached by Team", nil

	default:
		return "", eris.Wrapf(ErrInvalidRole, "role %q", role)
	}
}

// Count returns the number of stored emails.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// seedEmails are the fixtures loaded at startup so the dashboard has
// something to triage before the first sync.
var seedEmails = []struct {
	sender, subject, body string
	ageHours              int
}{
	{
		"priya.sharma@gmail.com",
		"Refund for order #48213 not received",
		"Hi, I returned my order #48213 two weeks ago and I still have not received my refund of $59.99. Please process it immediately, this is urgent.",
		2,
	},
	{
		"mike.ross@outlook.com",
		"Cannot log in to my account",
		"I keep getting an invalid password error when I try to log in. I already reset my password twice and it still is not working.",
		5,
	},
	{
		"dana.white@yahoo.com",
		"This is unacceptable, I want my money back",
		"Your product broke after two days. This is the worst purchase I have ever made. Give me a refund or I will get my lawyer involved and sue your company.",
		8,
	},
	{
		"arjun.mehta@gmail.com",
		"Charged twice on my invoice",
		"My latest invoice shows I was charged twice for the same subscription. Please fix the billing and refund the duplicate payment of ₹999.",
		16,
	},
	{
		"lisa.chen@gmail.com",
		"Where is my package?",
		"The tracking page says my package has been in transit for ten days. Can you check on the shipping delay for order #50992?",
		26,
	},
	{
		"sam.obrien@protonmail.com",
		"Thank you for the quick fix",
		"Just wanted to say thank you, the support agent resolved my issue within minutes. Great service!",
		40,
	},
	{
		"ravi.kumar@gmail.com",
		"Question about plan upgrade",
		"I am currently on the basic plan. What would it cost to upgrade to the pro plan, and does it include priority support?",
		55,
	},
}

// Seed loads the startup fixtures. Returns the number of emails added.
func (s *Store) Seed() int {
	now := s.now()
	for _, e := range seedEmails {
		s.Add(e.sender, e.subject, e.body, now.Add(-time.Duration(e.ageHours)*time.Hour))
	}
	return len(seedEmails)
}

// syntheticEmails rotate through the ingest worker to simulate new mail
// arriving between syncs.
var syntheticEmails = []struct {
	sender, subject, body string
}{
	{
		"new.customer@gmail.com",
		"Refund request for damaged item",
		"The item arrived damaged and I would like a refund. The order number is order #61002 and I paid $24.50.",
	},
	{
		"j.fernandez@outlook.com",
		"Account locked out",
		"My account got locked out after too many login attempts. Can you unlock it? I need access today.",
	},
	{
		"angela.b@yahoo.com",
		"Still waiting on delivery",
		"My package was supposed to arrive last week. The shipping status has not changed. What is going on?",
	},
	{
		"vikram.s@gmail.com",
		"Billing question",
		"I noticed a charge of ₹499 on my invoice that I do not recognize. Could you explain what it is for?",
	},
}

// Ingest appends up to n synthetic emails and returns how many were added.
func (s *Store) Ingest(n int) int {
	if n <= 0 {
		return 0
	}
	added := 0
	now := s.now()
	for i := 0; i < n; i++ {
		e := syntheticEmails[int(s.peekNextID())%len(syntheticEmails)]
		s.Add(e.sender, e.subject, e.body, now.Add(-time.Duration(i)*time.Minute))
		added++
	}
	return added
}

func (s *Store) peekNextID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextID
}
