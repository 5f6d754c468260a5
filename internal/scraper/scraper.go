package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pfrederiksen/dp-headlines/internal/extract"
	"github.com/pfrederiksen/dp-headlines/internal/fetch"
	"github.com/pfrederiksen/dp-headlines/internal/logger"
)

// Fetcher performs a single HTTP GET
type Fetcher interface {
	Get(ctx context.Context, url string) (*fetch.Response, error)
}

// StatusError is returned when a page answers with a non-2xx status
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// Scraper handles fetching and extracting data points
type Scraper struct {
	fetcher Fetcher
	log     *logger.Logger
	metrics *logger.Metrics
}

// New creates a new Scraper instance
func New(fetcher Fetcher, log *logger.Logger, metrics *logger.Metrics) *Scraper {
	if metrics == nil {
		metrics = logger.NewMetrics()
	}
	return &Scraper{
		fetcher: fetcher,
		log:     log,
		metrics: metrics,
	}
}

// Scrape runs rule and returns the extracted data point.
//
// Fetch failures (transport errors and non-2xx statuses) are returned as
// errors. A page that lacks the featured link or the target element is not an
// error; it yields an empty data point.
func (s *Scraper) Scrape(ctx context.Context, rule Rule) (*Result, error) {
	page, err := s.get(ctx, rule.EntryURL)
	if err != nil {
		return nil, err
	}

	if rule.LinkSelector != "" {
		href, ok := extract.SelectAttr(page.Body, rule.LinkSelector, "href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			s.log.Warn("Featured link not found", logger.Fields{
				"rule":     rule.Name,
				"selector": rule.LinkSelector,
				"url":      page.URL,
			})
			return s.result(rule, page.URL, ""), nil
		}

		link, err := resolve(page.URL, href)
		if err != nil {
			return nil, fmt.Errorf("resolving featured link %q: %w", href, err)
		}
		s.log.Debug("Following featured link", logger.Fields{"rule": rule.Name, "url": link})

		page, err = s.get(ctx, link)
		if err != nil {
			return nil, err
		}
	}

	return s.result(rule, page.URL, extract.SelectText(page.Body, rule.TargetSelector)), nil
}

func (s *Scraper) result(rule Rule, pageURL, text string) *Result {
	s.log.Info("Data point", logger.Fields{
		"rule":       rule.Name,
		"data_point": text,
	})
	return &Result{Rule: rule.Name, URL: pageURL, Text: text}
}

// get fetches url and rejects non-2xx responses
func (s *Scraper) get(ctx context.Context, url string) (*fetch.Response, error) {
	start := time.Now()
	res, err := s.fetcher.Get(ctx, url)
	s.metrics.RecordTiming("fetch", time.Since(start))
	if err != nil {
		s.metrics.IncrCounter("fetch.errors")
		return nil, err
	}

	s.log.Info("Request", logger.Fields{
		"url":         res.URL,
		"status_code": res.StatusCode,
	})

	if !res.OK() {
		s.metrics.IncrCounter("fetch.bad_status")
		return nil, &StatusError{URL: res.URL, StatusCode: res.StatusCode}
	}
	return res, nil
}

// resolve turns a possibly relative href into an absolute URL
func resolve(base, href string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(ref).String(), nil
}
