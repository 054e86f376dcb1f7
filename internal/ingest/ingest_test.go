package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/occurrence-engine/pkg/types"
)

var baseTime = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// memSink collects events; names containing "bad" are rejected, standing
// in for the store's boundary validation.
type memSink struct {
	entries []types.IdentificationEntry
}

func (m *memSink) AddIdentification(_ context.Context, e types.IdentificationEntry) error {
	if strings.Contains(e.ScientificName, "bad") {
		return fmt.Errorf("invalid identification")
	}
	m.entries = append(m.entries, e)
	return nil
}

func event(identifier, name string) types.IdentificationEntry {
	return types.IdentificationEntry{
		Identifier:     identifier,
		OccurrenceRef:  "occ-1",
		ScientificName: name,
		SubmittedAt:    baseTime,
	}
}

func servePages(t *testing.T, pages []page) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != identificationsPath {
			t.Errorf("path = %q, want %q", r.URL.Path, identificationsPath)
		}
		n := 1
		fmt.Sscanf(r.URL.Query().Get("page"), "%d", &n)
		if n < 1 || n > len(pages) {
			http.Error(w, "no such page", http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(pages[n-1])
	}))
}

func TestPullSinglePage(t *testing.T) {
	ts := servePages(t, []page{
		{Identifications: []types.IdentificationEntry{
			event("ana", "Quercus alba"),
			event("ben", "Quercus rubra"),
		}},
	})
	defer ts.Close()

	sink := &memSink{}
	cfg := types.IngestConfig{SourceURL: ts.URL}

	summary, err := Pull(context.Background(), ts.Client(), cfg, sink, io.Discard)
	if err != nil {
		t.Fatal(err)
	}

	if summary.Ingested != 2 || summary.Failed != 0 || summary.Pages != 1 {
		t.Errorf("summary = %+v, want 2 ingested on 1 page", summary)
	}
	if len(sink.entries) != 2 || sink.entries[0].ScientificName != "Quercus alba" {
		t.Errorf("sink entries = %+v", sink.entries)
	}
}

func TestPullFollowsPagination(t *testing.T) {
	ts := servePages(t, []page{
		{Identifications: []types.IdentificationEntry{event("ana", "Quercus alba")}, NextPage: 2},
		{Identifications: []types.IdentificationEntry{event("ben", "Quercus rubra")}},
	})
	defer ts.Close()

	sink := &memSink{}
	cfg := types.IngestConfig{SourceURL: ts.URL, PageSize: 1}

	summary, err := Pull(context.Background(), ts.Client(), cfg, sink, io.Discard)
	if err != nil {
		t.Fatal(err)
	}

	if summary.Pages != 2 || summary.Ingested != 2 {
		t.Errorf("summary = %+v, want 2 events over 2 pages", summary)
	}
}

func TestPullCountsRejectedEvents(t *testing.T) {
	ts := servePages(t, []page{
		{Identifications: []types.IdentificationEntry{
			event("ana", "Quercus alba"),
			event("ben", "bad name"),
		}},
	})
	defer ts.Close()

	sink := &memSink{}
	cfg := types.IngestConfig{SourceURL: ts.URL}

	var progress strings.Builder
	summary, err := Pull(context.Background(), ts.Client(), cfg, sink, &progress)
	if err != nil {
		t.Fatal(err)
	}

	if summary.Ingested != 1 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want 1 ingested and 1 rejected", summary)
	}
	if !strings.Contains(progress.String(), "rejected occ-1/ben") {
		t.Errorf("progress output missing rejection line: %q", progress.String())
	}
}

func TestPullServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := Pull(context.Background(), ts.Client(), types.IngestConfig{SourceURL: ts.URL}, &memSink{}, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "HTTP 500") {
		t.Errorf("err = %v, want HTTP 500 error", err)
	}
}

func TestPullRequiresSourceURL(t *testing.T) {
	_, err := Pull(context.Background(), http.DefaultClient, types.IngestConfig{}, &memSink{}, io.Discard)
	if err == nil {
		t.Error("expected error for missing source URL")
	}
}

func TestPullSendsAuthAndUserAgent(t *testing.T) {
	var gotAuth, gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		json.NewEncoder(w).Encode(page{})
	}))
	defer ts.Close()

	cfg := types.IngestConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "occurrence-engine/0.1"},
		SourceURL:  ts.URL,
		APIKey:     "sekrit",
	}
	if _, err := Pull(context.Background(), ts.Client(), cfg, &memSink{}, io.Discard); err != nil {
		t.Fatal(err)
	}

	if gotAuth != "Bearer sekrit" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotUA != "occurrence-engine/0.1" {
		t.Errorf("User-Agent = %q", gotUA)
	}
}
