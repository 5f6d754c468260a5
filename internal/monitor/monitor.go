// Package monitor drives a scrape run: every rule is scraped, its data point
// upserted into the rule's history file for the run date, and the file saved.
//
// Fetch failures are soft: the rule's history is left untouched and the run
// moves on to the next rule. Only a history file that cannot be loaded aborts
// the run, and it does so before any request is made.
package monitor

import (
	"context"
	"time"

	"github.com/pfrederiksen/dp-headlines/internal/history"
	"github.com/pfrederiksen/dp-headlines/internal/logger"
	"github.com/pfrederiksen/dp-headlines/internal/notifier"
	"github.com/pfrederiksen/dp-headlines/internal/scraper"
)

// Source produces the data point for a rule
type Source interface {
	Scrape(ctx context.Context, rule scraper.Rule) (*scraper.Result, error)
}

// Outcome describes what happened to one rule
type Outcome string

const (
	OutcomeSaved      Outcome = "saved"
	OutcomeScrapeFail Outcome = "scrape_failed"
	OutcomeSaveFail   Outcome = "save_failed"
)

// RuleResult reports the outcome of one rule
type RuleResult struct {
	Rule        string  `json:"rule"`
	HistoryFile string  `json:"history_file"`
	Outcome     Outcome `json:"outcome"`
	Text        string  `json:"text,omitempty"`
	Changed     bool    `json:"changed"` // today's entry differs from what was stored before
	Error       string  `json:"error,omitempty"`
}

// Summary reports the outcome of a run
type Summary struct {
	Date    string       `json:"date"`
	Results []RuleResult `json:"results"`
}

// Saved returns the number of rules whose data point was stored
func (s *Summary) Saved() int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == OutcomeSaved {
			n++
		}
	}
	return n
}

// Monitor runs rules against a history store
type Monitor struct {
	store    *history.Store
	source   Source
	notifier notifier.Notifier
	log      *logger.Logger
	metrics  *logger.Metrics
	now      func() time.Time
}

// Option configures a Monitor
type Option func(*Monitor)

// WithNotifier announces newly captured data points through n
func WithNotifier(n notifier.Notifier) Option {
	return func(m *Monitor) { m.notifier = n }
}

// WithMetrics records run metrics in metrics
func WithMetrics(metrics *logger.Metrics) Option {
	return func(m *Monitor) { m.metrics = metrics }
}

// WithClock overrides the clock used to pick the run date
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// New creates a new Monitor
func New(store *history.Store, source Source, log *logger.Logger, opts ...Option) *Monitor {
	m := &Monitor{
		store:   store,
		source:  source,
		log:     log,
		metrics: logger.NewMetrics(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run executes every rule once. It returns an error only when a history
// file cannot be loaded; all other failures are reported in the Summary.
func (m *Monitor) Run(ctx context.Context, rules []scraper.Rule) (*Summary, error) {
	today := m.now()
	summary := &Summary{Date: today.Format(history.DateLayout)}

	m.log.Info("Loading daily event monitor", logger.Fields{"rules": len(rules)})
	records := make([]history.Record, len(rules))
	for i, rule := range rules {
		record, err := m.store.Load(rule.HistoryFile)
		if err != nil {
			m.log.Error("Failed to load history", logger.Fields{
				"rule": rule.Name,
				"path": m.store.Path(rule.HistoryFile),
			}, err)
			return nil, err
		}
		records[i] = record
	}

	var announcements []notifier.Announcement
	for i, rule := range rules {
		result := m.runRule(ctx, rule, records[i], today)
		summary.Results = append(summary.Results, result.RuleResult)
		if result.announce != nil {
			announcements = append(announcements, *result.announce)
		}
	}

	if m.notifier != nil && len(announcements) > 0 {
		if err := m.notifier.Notify(announcements); err != nil {
			m.metrics.IncrCounter("notify.errors")
			m.log.Error("Failed to send notifications", logger.Fields{"count": len(announcements)}, err)
		} else {
			m.log.Info("Sent notifications", logger.Fields{"count": len(announcements)})
		}
	}

	m.log.Info("Run metrics", m.metrics.Snapshot())
	return summary, nil
}

type ruleRun struct {
	RuleResult
	announce *notifier.Announcement
}

func (m *Monitor) runRule(ctx context.Context, rule scraper.Rule, record history.Record, today time.Time) ruleRun {
	run := ruleRun{RuleResult: RuleResult{Rule: rule.Name, HistoryFile: rule.HistoryFile}}
	fields := logger.Fields{"rule": rule.Name}

	m.log.Info("Starting scrape", fields)
	res, err := m.source.Scrape(ctx, rule)
	if err != nil {
		m.metrics.IncrCounter("rules.scrape_failed")
		m.log.Error("Failed to scrape data point", fields, err)
		run.Outcome = OutcomeScrapeFail
		run.Error = err.Error()
		return run
	}

	previous, existed := record.Get(today)
	record.UpsertToday(today, res.Text)
	run.Text = res.Text
	run.Changed = !existed || previous != res.Text

	if err := m.store.Save(rule.HistoryFile, record); err != nil {
		m.metrics.IncrCounter("rules.save_failed")
		m.log.Error("Failed to save daily event monitor", logger.Fields{
			"rule": rule.Name,
			"path": m.store.Path(rule.HistoryFile),
		}, err)
		run.Outcome = OutcomeSaveFail
		run.Error = err.Error()
		return run
	}

	m.metrics.IncrCounter("rules.saved")
	m.metrics.SetGauge("history."+rule.Name+".entries", float64(len(record)))
	m.log.Info("Saved daily event monitor", logger.Fields{
		"rule":    rule.Name,
		"path":    m.store.Path(rule.HistoryFile),
		"changed": run.Changed,
	})
	run.Outcome = OutcomeSaved

	if run.Changed && res.Text != "" {
		run.announce = &notifier.Announcement{
			Rule: rule.Name,
			Date: today.Format(history.DateLayout),
			Text: res.Text,
			URL:  res.URL,
		}
	}
	return run
}
