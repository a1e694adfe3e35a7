// ABOUTME: Calculator store for side-by-side sizing sessions
// ABOUTME: Keeps caller-owned calculators in the cache and re-plans them on input changes

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/markalston/node-capacity-planner/backend/cache"
	"github.com/markalston/node-capacity-planner/backend/catalog"
	"github.com/markalston/node-capacity-planner/backend/metrics"
	"github.com/markalston/node-capacity-planner/backend/models"
)

// DefaultCalculatorTitle is the title of a calculator created without one
const DefaultCalculatorTitle = "Application"

// MaxTitleLength bounds calculator titles
const MaxTitleLength = 100

const calculatorKeyPrefix = "calculator:"

// calculatorPalette assigns colors to calculators in creation order
var calculatorPalette = []string{
	"#007bff",
	"#28a745",
	"#dc3545",
	"#ffc107",
	"#6f42c1",
	"#fd7e14",
	"#20c997",
	"#6610f2",
}

// ErrCalculatorNotFound is returned for unknown or expired calculator IDs
var ErrCalculatorNotFound = errors.New("calculator not found")

// CalculatorColor returns the palette color for the seq-th calculator (1-based)
func CalculatorColor(seq int) string {
	if seq < 1 {
		seq = 1
	}
	return calculatorPalette[(seq-1)%len(calculatorPalette)]
}

// CalculatorService manages calculators. Each one is independent of the others and of
// the planner: deleting one never renumbers or recolors the rest.
type CalculatorService struct {
	cache   *cache.Cache
	catalog *catalog.Catalog
	planner *Planner
	ttl     time.Duration

	mu  sync.Mutex
	seq int
}

// NewCalculatorService creates a calculator service storing entries for ttl after each write
func NewCalculatorService(c *cache.Cache, cat *catalog.Catalog, planner *Planner, ttl time.Duration) *CalculatorService {
	return &CalculatorService{
		cache:   c,
		catalog: cat,
		planner: planner,
		ttl:     ttl,
	}
}

// Create stores a new calculator planned from req, or from the defaults when req is nil
func (s *CalculatorService) Create(title string, req *models.PlanRequest) (models.Calculator, error) {
	request := models.DefaultPlanRequest()
	if req != nil {
		request = *req
	}

	title, err := normalizeTitle(title)
	if err != nil {
		return models.Calculator{}, err
	}

	plan, request, err := s.plan(request)
	if err != nil {
		return models.Calculator{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	now := time.Now().UTC()
	calc := models.Calculator{
		ID:        uuid.NewString(),
		Title:     title,
		Color:     CalculatorColor(s.seq),
		Request:   request,
		Plan:      plan,
		CreatedAt: now,
		UpdatedAt: now,
		Seq:       s.seq,
	}
	s.store(calc)

	slog.Info("Calculator created", "id", calc.ID, "seq", calc.Seq, "instance_type", request.InstanceType)
	return calc, nil
}

// Get retrieves a calculator by ID
func (s *CalculatorService) Get(id string) (models.Calculator, error) {
	val, ok := s.cache.Get(calculatorKey(id))
	if !ok {
		return models.Calculator{}, ErrCalculatorNotFound
	}

	calc, ok := val.(models.Calculator)
	if !ok {
		return models.Calculator{}, errors.New("invalid calculator data")
	}
	return calc, nil
}

// List returns all live calculators in creation order
func (s *CalculatorService) List() []models.Calculator {
	keys := s.cache.Keys(calculatorKeyPrefix)
	calcs := make([]models.Calculator, 0, len(keys))
	for _, key := range keys {
		calc, err := s.Get(strings.TrimPrefix(key, calculatorKeyPrefix))
		if err != nil {
			continue
		}
		calcs = append(calcs, calc)
	}

	sort.Slice(calcs, func(i, j int) bool {
		return calcs[i].Seq < calcs[j].Seq
	})
	return calcs
}

// Count returns the number of live calculators
func (s *CalculatorService) Count() int {
	return s.cache.Count(calculatorKeyPrefix)
}

// Rename applies a patch to the calculator's view fields
func (s *CalculatorService) Rename(id string, patch models.CalculatorPatch) (models.Calculator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	calc, err := s.Get(id)
	if err != nil {
		return models.Calculator{}, err
	}

	if patch.Title != nil {
		title, err := normalizeTitle(*patch.Title)
		if err != nil {
			return models.Calculator{}, err
		}
		calc.Title = title
	}

	calc.UpdatedAt = time.Now().UTC()
	s.store(calc)
	return calc, nil
}

// UpdateInput replaces the calculator's request and recomputes its plan from scratch
func (s *CalculatorService) UpdateInput(id string, req models.PlanRequest) (models.Calculator, error) {
	plan, req, err := s.plan(req)
	if err != nil {
		return models.Calculator{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	calc, err := s.Get(id)
	if err != nil {
		return models.Calculator{}, err
	}

	calc.Request = req
	calc.Plan = plan
	calc.UpdatedAt = time.Now().UTC()
	s.store(calc)

	slog.Debug("Calculator replanned", "id", id, "required_nodes", plan.RequiredNodeCount)
	return calc, nil
}

// Delete removes a calculator
func (s *CalculatorService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.Get(id); err != nil {
		return err
	}
	s.cache.Clear(calculatorKey(id))

	slog.Info("Calculator deleted", "id", id)
	return nil
}

// PlanAll re-plans every calculator concurrently and returns them in creation order.
// Stored calculators are not modified.
func (s *CalculatorService) PlanAll(ctx context.Context, concurrency int) ([]models.Calculator, error) {
	calcs := s.List()

	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for i := range calcs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			plan, _, err := s.plan(calcs[i].Request)
			if err != nil {
				return fmt.Errorf("planning calculator %s: %w", calcs[i].ID, err)
			}
			calcs[i].Plan = plan
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return calcs, nil
}

// plan converts req and runs the planner, returning the request as normalized
func (s *CalculatorService) plan(req models.PlanRequest) (models.PlanResult, models.PlanRequest, error) {
	if req.InstanceType == "" {
		req.InstanceType = models.DefaultPlanRequest().InstanceType
	}
	req.InstanceTypes = nil

	in, err := BuildInput(s.catalog, req)
	if err != nil {
		return models.PlanResult{}, req, err
	}

	result := s.planner.Plan(in)
	result.InstanceType = req.InstanceType
	metrics.ObservePlan(result.RequiredNodeCount)
	return result, req, nil
}

func (s *CalculatorService) store(calc models.Calculator) {
	s.cache.SetWithTTL(calculatorKey(calc.ID), calc, s.ttl)
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return DefaultCalculatorTitle, nil
	}
	if len(title) > MaxTitleLength {
		return "", fmt.Errorf("title must be at most %d characters", MaxTitleLength)
	}
	return sanitizeForLog(title), nil
}

// calculatorKey returns the cache key for a calculator ID
func calculatorKey(id string) string {
	return calculatorKeyPrefix + id
}
