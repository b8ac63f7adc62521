package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

type openalex struct {
	baseURL    string
	maxResults int
	client     *http.Client
	logger     *slog.Logger
}

// New creates an OpenAlex-backed discovery Service from the given configuration.
func New(cfg *Config, logger *slog.Logger) Service {
	return &openalex{
		baseURL:    cfg.BaseURL,
		maxResults: cfg.MaxResults,
		client:     &http.Client{Timeout: cfg.RequestTimeoutDuration()},
		logger:     logger.With("system", "discovery"),
	}
}

type worksResponse struct {
	Results []struct {
		DisplayName     string `json:"display_name"`
		PublicationYear int    `json:"publication_year"`
		Authorships     []struct {
			Author struct {
				DisplayName string `json:"display_name"`
			} `json:"author"`
		} `json:"authorships"`
		PrimaryLocation struct {
			LandingPageURL string `json:"landing_page_url"`
		} `json:"primary_location"`
		DOI string `json:"doi"`
	} `json:"results"`
}

func (o *openalex) Search(ctx context.Context, query string) ([]Source, error) {
	endpoint := fmt.Sprintf(
		"%s/works?search=%s&per-page=%d",
		o.baseURL,
		url.QueryEscape(query),
		o.maxResults,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search %q: unexpected status %d", query, resp.StatusCode)
	}

	var works worksResponse
	if err := json.NewDecoder(resp.Body).Decode(&works); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	sources := make([]Source, 0, len(works.Results))
	for _, w := range works.Results {
		s := Source{
			Title: w.DisplayName,
			Year:  w.PublicationYear,
			URL:   w.PrimaryLocation.LandingPageURL,
		}
		if s.URL == "" {
			s.URL = w.DOI
		}
		for _, a := range w.Authorships {
			if a.Author.DisplayName != "" {
				s.Authors = append(s.Authors, a.Author.DisplayName)
			}
		}
		sources = append(sources, s)
	}

	o.logger.Info("discovery query",
		"query", query,
		"results", len(sources),
		"duration", time.Since(start),
	)
	return sources, nil
}
