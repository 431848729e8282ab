// Package service runs the dashboard refresh cycle and implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/painel/internal/adapters/repository"
	"github.com/okian/painel/internal/adapters/sheets"
	"github.com/okian/painel/internal/domain/kpi"
	"github.com/okian/painel/internal/domain/model"
	"github.com/okian/painel/internal/render"
	"github.com/okian/painel/pkg/logger"
	"github.com/okian/painel/pkg/metrics"
)

const displayTime = "02/01/2006 15:04:05"

// RevenueSeries names the history series holding signed and paid revenue.
const RevenueSeries = "revenue"

// Fetcher returns the sheet payload for an endpoint and token.
type Fetcher interface {
	Fetch(ctx context.Context, url, token string) (model.Payload, error)
}

// Cycle is the outcome of one successful refresh.
type Cycle struct {
	ID         string    `json:"cycle_id"`
	Board      kpi.Board `json:"board"`
	Message    string    `json:"message"`
	Sheet      string    `json:"sheet,omitempty"`
	UpdatedAt  string    `json:"updated_at"`
	Rows       int       `json:"rows"`
	LatestRows int       `json:"latest_rows"`
	NullValues int       `json:"null_values"`
}

// Service fetches, normalizes, computes and renders the board.
type Service struct {
	mu sync.RWMutex

	// Core components
	fetcher  Fetcher
	renderer *render.Renderer
	history  repository.Store

	// Configuration
	url            string
	token          string
	board          kpi.BoardOptions
	refreshSeconds int
	frameHeight    int
	historySize    int
	now            func() time.Time

	// State
	started     bool
	cycles      int
	failures    int
	lastCycleID string
	lastError   string
	lastSuccess time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithFetcher sets the payload source.
func WithFetcher(f Fetcher) Option {
	return func(s *Service) {
		s.fetcher = f
	}
}

// WithEndpoint sets the sheet endpoint and its token.
func WithEndpoint(url, token string) Option {
	return func(s *Service) {
		s.url, s.token = url, token
	}
}

// WithRenderer sets the card renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithHistory sets the store that keeps revenue totals over time.
func WithHistory(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.history = store
		}
	}
}

// WithHistorySize sets how many samples feed the revenue sparkline.
func WithHistorySize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historySize = n
		}
	}
}

// WithBoardOptions sets the ratio policy and ranking limits.
func WithBoardOptions(o kpi.BoardOptions) Option {
	return func(s *Service) {
		s.board = o
	}
}

// WithRefreshSeconds sets the page auto-refresh interval.
func WithRefreshSeconds(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.refreshSeconds = n
		}
	}
}

// WithFrameHeight sets the page height in pixels.
func WithFrameHeight(px int) Option {
	return func(s *Service) {
		if px > 0 {
			s.frameHeight = px
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		board:          kpi.DefaultBoardOptions(),
		refreshSeconds: 5,
		frameHeight:    1080,
		historySize:    30,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start checks the wiring and fills in defaults for optional components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	if s.fetcher == nil {
		return ErrNoFetcher
	}
	if s.renderer == nil {
		r, err := render.New()
		if err != nil {
			return err
		}
		s.renderer = r
	}
	if s.history == nil {
		s.history = repository.NewMemoryStore(repository.WithCapacity(s.historySize))
	}

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.Int("refresh_seconds", s.refreshSeconds),
		logger.Int("frame_height", s.frameHeight),
		logger.Float64("ratio_ceiling", s.board.Policy.RatioCeiling),
		logger.Int("top_people", s.board.TopPeople),
	)
	return nil
}

// Stop closes the history store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.history != nil {
		if err := s.history.Close(); err != nil {
			s.logger.Warn(context.Background(), "closing history store", logger.Error(err))
		}
	}
	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

// Refresh runs one fetch-normalize-compute cycle. A failed cycle returns a
// *CycleError whose message is meant for the screen.
func (s *Service) Refresh(ctx context.Context) (Cycle, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return Cycle{}, ErrNotStarted
	}

	id := uuid.NewString()
	log := s.logger.With(logger.String("cycle_id", id))
	metrics.RecordCycle()

	p, err := s.fetcher.Fetch(ctx, s.url, s.token)
	if err != nil {
		return Cycle{}, s.fail(ctx, log, id, fetchFailure(err))
	}

	msg, err := model.Validate(p)
	if err != nil {
		if p.HasError() && p.StatusCode != 0 {
			msg = fmt.Sprintf("%s (status %d)", msg, p.StatusCode)
		}
		return Cycle{}, s.fail(ctx, log, id, &CycleError{Kind: KindPayload, Message: msg, Err: err})
	}

	table := model.ToTable(p)
	latest := model.Latest(table)
	nulls := latest.NullValues()
	metrics.UpdateRows(len(table), len(latest), nulls)

	board := kpi.BuildBoard(latest, s.board)
	board.SignedSeries, board.PaidSeries = s.track(ctx, log, board)

	c := Cycle{
		ID:         id,
		Board:      board,
		Message:    msg,
		Sheet:      p.Sheet,
		UpdatedAt:  s.updatedAt(p.UpdatedAt),
		Rows:       len(table),
		LatestRows: len(latest),
		NullValues: nulls,
	}

	now := s.now()
	s.mu.Lock()
	s.cycles++
	s.lastCycleID = id
	s.lastError = ""
	s.lastSuccess = now
	s.mu.Unlock()
	metrics.UpdateLastSuccess(now)

	log.Info(ctx, "cycle finished",
		logger.String("validation", msg),
		logger.Int("rows", c.Rows),
		logger.Int("latest_rows", c.LatestRows),
		logger.Int("null_values", c.NullValues),
	)
	return c, nil
}

// Page renders the dashboard for a fresh cycle. When the cycle fails the
// returned page is the error screen and err is the *CycleError.
func (s *Service) Page(ctx context.Context) ([]byte, error) {
	start := time.Now()
	c, err := s.Refresh(ctx)
	opts := s.pageOptions(c)
	if err != nil {
		var ce *CycleError
		if !errors.As(err, &ce) {
			return nil, err
		}
		page, rerr := s.renderer.ErrorPage(ce.Message, opts)
		if rerr != nil {
			return nil, errors.Join(err, rerr)
		}
		return page, err
	}

	page, err := s.renderer.Dashboard(c.Board, opts)
	if err != nil {
		metrics.RecordCycleFailure(KindRender)
		s.logger.Error(ctx, "render failed", logger.String("cycle_id", c.ID), logger.Error(err))
		return nil, &CycleError{Kind: KindRender, Message: "Erro ao montar o painel.", Err: err}
	}
	metrics.RecordRenderLatency(float64(time.Since(start).Microseconds()) / 1000)
	return page, nil
}

// History returns the recorded revenue samples, oldest first.
func (s *Service) History(ctx context.Context) ([]repository.Sample, error) {
	s.mu.RLock()
	store, size := s.history, s.historySize
	s.mu.RUnlock()
	if store == nil {
		return nil, ErrNotStarted
	}
	return store.Series(ctx, RevenueSeries, size)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":         s.started,
		"cycles":          s.cycles,
		"failures":        s.failures,
		"refresh_seconds": s.refreshSeconds,
		"last_cycle_id":   s.lastCycleID,
		"last_error":      s.lastError,
	}
	if !s.lastSuccess.IsZero() {
		stats["last_success"] = s.lastSuccess.Format(time.RFC3339)
	}
	if s.started && s.history != nil {
		n := s.history.Count(context.Background())
		stats["history_samples"] = n
		metrics.UpdateHistorySamples(n)
	}
	return stats
}

func (s *Service) fail(ctx context.Context, log logger.Logger, id string, ce *CycleError) error {
	s.mu.Lock()
	s.failures++
	s.lastCycleID = id
	s.lastError = ce.Message
	s.mu.Unlock()

	metrics.RecordCycleFailure(ce.Kind)
	log.Error(ctx, "cycle failed", logger.String("kind", ce.Kind), logger.Error(ce.Err))
	return ce
}

// track records signed and paid revenue as one sample, so both series
// advance together, and reads the series back. A cycle missing either total
// records nothing.
func (s *Service) track(ctx context.Context, log logger.Logger, b kpi.Board) (signed, paid []float64) {
	sv, sok := b.RevenueSigned.Get()
	pv, pok := b.RevenuePaid.Get()
	if sok && pok {
		vals := map[string]float64{kpi.RevenueSigned: sv, kpi.RevenuePaid: pv}
		if _, err := s.history.Append(ctx, RevenueSeries, vals, s.now()); err != nil {
			log.Warn(ctx, "history append failed", logger.String("series", RevenueSeries), logger.Error(err))
		}
	}
	samples, err := s.history.Series(ctx, RevenueSeries, s.historySize)
	if err != nil {
		log.Warn(ctx, "history read failed", logger.String("series", RevenueSeries), logger.Error(err))
		return nil, nil
	}
	return repository.Values(samples, kpi.RevenueSigned), repository.Values(samples, kpi.RevenuePaid)
}

func (s *Service) updatedAt(raw string) string {
	if raw == "" {
		return s.now().Format(displayTime)
	}
	if t := model.ParseTime(raw); !t.IsZero() {
		return t.In(time.Local).Format(displayTime)
	}
	return raw
}

func (s *Service) pageOptions(c Cycle) render.PageOptions {
	o := render.PageOptions{
		RefreshSeconds: s.refreshSeconds,
		FrameHeight:    s.frameHeight,
		UpdatedAt:      c.UpdatedAt,
		Sheet:          c.Sheet,
	}
	if o.UpdatedAt == "" {
		o.UpdatedAt = s.now().Format(displayTime)
	}
	return o
}

func fetchFailure(err error) *CycleError {
	var he *sheets.HTTPError
	if errors.As(err, &he) {
		return &CycleError{Kind: KindHTTP, Message: "Erro HTTP ao buscar dados: " + he.Status, Err: err}
	}
	return &CycleError{Kind: KindTransport, Message: "Erro ao buscar dados: " + err.Error(), Err: err}
}
