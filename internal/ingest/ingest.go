// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest pulls identification events from a remote occurrence API
// into the local store. The consensus engine never talks to the network;
// this stage is the boundary where remote submissions become store entries.
// Implements: prd003-ingestion (R1-R4);
//
//	docs/ARCHITECTURE § Ingestion.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/occurrence-engine/internal/httputil"
	"github.com/pdiddy/occurrence-engine/pkg/types"
)

// identificationsPath is appended to the configured source URL.
const identificationsPath = "/identifications"

const defaultPageSize = 100

// Sink receives validated identification events. The store implements it;
// its boundary validation is what rejects malformed events (R2.2).
type Sink interface {
	AddIdentification(ctx context.Context, e types.IdentificationEntry) error
}

// page is one page of the remote API's identification feed. NextPage is
// zero on the final page.
type page struct {
	Identifications []types.IdentificationEntry `json:"identifications"`
	NextPage        int                         `json:"next_page"`
}

// Summary holds counts from one ingestion run (R3.1).
type Summary struct {
	Pages    int
	Ingested int
	Failed   int
}

// Total returns the number of events processed.
func (s Summary) Total() int {
	return s.Ingested + s.Failed
}

// Pull fetches the identification feed page by page and records each event
// through sink. Events the sink rejects are counted and reported on w but
// do not abort the run; transport and decode errors do (R2.1-R2.4).
func Pull(ctx context.Context, client *http.Client, cfg types.IngestConfig, sink Sink, w io.Writer) (Summary, error) {
	if strings.TrimSpace(cfg.SourceURL) == "" {
		return Summary{}, fmt.Errorf("ingest source URL is not configured")
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	var summary Summary

	for pageNum := 1; pageNum > 0; {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		p, err := fetchPage(ctx, client, cfg, pageNum, pageSize)
		if err != nil {
			return summary, err
		}
		summary.Pages++

		for _, event := range p.Identifications {
			if err := sink.AddIdentification(ctx, event); err != nil {
				fmt.Fprintf(w, "rejected %s/%s: %v\n", event.OccurrenceRef, event.Identifier, err)
				summary.Failed++
				continue
			}
			summary.Ingested++
		}

		fmt.Fprintf(w, "page %d: %d event(s)\n", pageNum, len(p.Identifications))

		pageNum = p.NextPage
		if pageNum > 0 && cfg.PageDelay > 0 {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			case <-time.After(cfg.PageDelay):
			}
		}
	}

	fmt.Fprintf(w, "\ningested: %d, rejected: %d (%d page(s))\n",
		summary.Ingested, summary.Failed, summary.Pages)

	return summary, nil
}

func fetchPage(ctx context.Context, client *http.Client, cfg types.IngestConfig, pageNum, pageSize int) (*page, error) {
	params := url.Values{
		"page":      {strconv.Itoa(pageNum)},
		"page_size": {strconv.Itoa(pageSize)},
	}
	reqURL := strings.TrimSuffix(cfg.SourceURL, "/") + identificationsPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	if cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("occurrence API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("occurrence API returned HTTP %d for page %d", resp.StatusCode, pageNum)
	}

	var p page
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("parsing page %d: %w", pageNum, err)
	}
	return &p, nil
}
