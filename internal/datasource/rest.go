// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/tomtom215/opsboard/internal/config"
	"github.com/tomtom215/opsboard/internal/logging"
	"github.com/tomtom215/opsboard/internal/models"
	"golang.org/x/sync/errgroup"
)

const maxErrorBody = 512

// RESTProvider fetches JSON arrays of fact rows from {base}/{collection}.
// With no base URL configured it serves synthetic data instead.
type RESTProvider struct {
	baseURL     string
	collections []string
	timeout     time.Duration
	client      *http.Client
	breaker     *circuitBreaker
	fallback    Provider
}

// NewRESTProvider creates a REST provider. client may be nil.
func NewRESTProvider(cfg *config.DataConfig, client *http.Client, fallback Provider) *RESTProvider {
	if client == nil {
		client = &http.Client{}
	}
	collections := cfg.APICollections
	if len(collections) == 0 {
		collections = []string{"metrics"}
	}
	return &RESTProvider{
		baseURL:     strings.TrimRight(cfg.APIBaseURL, "/"),
		collections: collections,
		timeout:     cfg.ProviderTimeout,
		client:      client,
		breaker:     newCircuitBreaker("rest-provider"),
		fallback:    fallback,
	}
}

// Name implements Provider.
func (p *RESTProvider) Name() string { return NameREST }

// Load implements Provider. Collections are fetched concurrently and
// concatenated in configured order; the first failure cancels the rest.
func (p *RESTProvider) Load(ctx context.Context) (models.Dataset, error) {
	if p.baseURL == "" {
		logging.Debug().Msg("API_BASE_URL empty, serving synthetic data")
		return p.fallback.Load(ctx)
	}

	parts := make([]models.Dataset, len(p.collections))
	g, gCtx := errgroup.WithContext(ctx)
	for i, collection := range p.collections {
		url := p.baseURL + "/" + strings.TrimLeft(collection, "/")
		g.Go(func() error {
			ds, err := p.breaker.execute(func() (models.Dataset, error) {
				return p.fetch(gCtx, url)
			})
			if err != nil {
				var pe *ProviderError
				if errors.As(err, &pe) {
					return pe
				}
				return &ProviderError{Provider: NameREST, Op: "GET " + url, Err: err}
			}
			parts[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, part := range parts {
		total += len(part)
	}
	out := make(models.Dataset, 0, total)
	for _, part := range parts {
		out = append(out, part...)
	}
	out.RecomputeProfit()
	return out, nil
}

func (p *RESTProvider) fetch(ctx context.Context, url string) (models.Dataset, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	op := "GET " + url

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, &ProviderError{Provider: NameREST, Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: NameREST, Op: op, Err: fmt.Errorf("HTTP request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &ProviderError{
			Provider:   NameREST,
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(body))),
		}
	}

	var ds models.Dataset
	if err := json.NewDecoder(resp.Body).Decode(&ds); err != nil {
		return nil, &ProviderError{Provider: NameREST, Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return ds, nil
}
