package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rotisserie/eris"

	"github.com/codebharat/mailtriage/internal/triage"
)

func TestListEmailsSendsFilterParams(t *testing.T) {
	tests := []struct {
		filter triage.Filter
		want   string
	}{
		{triage.FilterAll, ""},
		{triage.FilterHigh, "filter_priority=high"},
		{triage.FilterNegative, "filter_sentiment=negative"},
		{triage.FilterRefund, ""}, // intent filters stay client-side
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			var gotQuery string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.RawQuery
				_, _ = w.Write([]byte(`[]`))
			}))
			defer srv.Close()

			c := New(srv.URL)
			if _, err := c.ListEmails(context.Background(), tt.filter); err != nil {
				t.Fatalf("ListEmails: %v", err)
			}
			if gotQuery != tt.want {
				t.Errorf("query = %q, want %q", gotQuery, tt.want)
			}
		})
	}
}

func TestListEmailsDecodesDirectory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id": 1, "sender_email": "a@x.com", "subject_line": "hello",
			 "analysis": {"sentiment": "angry", "extracted_entities": {"intent": "refund_request"}}},
			{"id": 2, "sender_email": "b@x.com", "subject_line": "hi"}
		]`))
	}))
	defer srv.Close()

	emails, err := New(srv.URL).ListEmails(context.Background(), triage.FilterAll)
	if err != nil {
		t.Fatalf("ListEmails: %v", err)
	}
	if len(emails) != 2 {
		t.Fatalf("got %d emails, want 2", len(emails))
	}
	if emails[0].Analysis.Intent() != "refund_request" {
		t.Errorf("intent = %q", emails[0].Analysis.Intent())
	}
	if emails[1].Analysis != nil {
		t.Error("second email has no analysis on the wire")
	}
}

func TestListEmailsNotFoundMapsToErrNotReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListEmails(context.Background(), triage.FilterAll)
	if !eris.Is(err, ErrNotReady) {
		t.Errorf("err = %v, want ErrNotReady", err)
	}
}

func TestStatusErrorCarriesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail": "GMail auth expired"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).TriggerSync(context.Background())
	var se *StatusError
	if !eris.As(err, &se) {
		t.Fatalf("err = %v, want StatusError", err)
	}
	if se.Status != http.StatusServiceUnavailable || se.Detail != "GMail auth expired" {
		t.Errorf("StatusError = %d/%q", se.Status, se.Detail)
	}
}

func TestStatusErrorFallsBackWithoutDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListEmails(context.Background(), triage.FilterAll)
	var se *StatusError
	if !eris.As(err, &se) {
		t.Fatalf("err = %v, want StatusError", err)
	}
	if se.Detail != "Server error" {
		t.Errorf("Detail = %q, want fallback", se.Detail)
	}
}

func TestConnectionErrorWhenBackendDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	_, err := New(srv.URL).ListEmails(context.Background(), triage.FilterAll)
	if !IsConnectionError(err) {
		t.Errorf("err = %v, want ConnectionError", err)
	}
}

func TestTriggerSyncReturnsMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/sync-gmail" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"message": "Sync started in background. Check dashboard in a moment."}`))
	}))
	defer srv.Close()

	msg, err := New(srv.URL).TriggerSync(context.Background())
	if err != nil {
		t.Fatalf("TriggerSync: %v", err)
	}
	if msg != "Sync started in background. Check dashboard in a moment." {
		t.Errorf("message = %q", msg)
	}
}

func TestEscalatePostsIDAndRole(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"msg": "Escalated to Team"}`))
	}))
	defer srv.Close()

	msg, err := New(srv.URL).Escalate(context.Background(), 7, triage.RoleAgent)
	if err != nil {
		t.Fatalf("Escalate: %v", err)
	}
	if msg != "Escalated to Team" {
		t.Errorf("msg = %q", msg)
	}
	if gotPath != "/escalate/7" {
		t.Errorf("path = %q, want /escalate/7", gotPath)
	}
	if gotBody["email_id"] != float64(7) || gotBody["user_role"] != "agent" {
		t.Errorf("body = %v", gotBody)
	}
}
