package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	engine "github.com/csd4487/vedema/internal/analytics"
	"github.com/csd4487/vedema/internal/config"
	"github.com/csd4487/vedema/internal/domain/models"
	"github.com/csd4487/vedema/internal/season"
)

// CurrentSeason is the configuration value that makes default analytics
// follow the clock instead of a fixed season.
const CurrentSeason = config.CurrentSeason

const loadTimeout = 10 * time.Second

// SnapshotSource loads the read snapshot of one user's records.
type SnapshotSource interface {
	LoadUser(ctx context.Context, email string) (models.User, error)
}

// Querier describes the analytics operations exposed to the HTTP layer.
type Querier interface {
	DefaultAnalytics(ctx context.Context, email string) (*engine.Result, error)
	FilteredAnalytics(ctx context.Context, req models.FilteredAnalyticsRequest) (*engine.Result, error)
	AvailableSeasons(ctx context.Context, email string) ([]string, error)
}

// Service loads snapshots and runs them through the aggregation engine.
type Service struct {
	source        SnapshotSource
	engine        *engine.Engine
	defaultSeason string
	logger        *zap.Logger
	now           func() time.Time
}

// NewService wires a new analytics service. defaultSeason is either a season
// identifier or CurrentSeason.
func NewService(source SnapshotSource, defaultSeason string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultSeason == "" {
		defaultSeason = engine.DefaultSeason
	}
	return &Service{
		source:        source,
		engine:        engine.NewEngine(logger.Named("engine")),
		defaultSeason: defaultSeason,
		logger:        logger,
		now:           time.Now,
	}
}

// DefaultSeasonID resolves the season used by default analytics.
func (s *Service) DefaultSeasonID() string {
	if strings.EqualFold(s.defaultSeason, CurrentSeason) {
		return season.Current(s.now().UTC()).String()
	}
	return s.defaultSeason
}

// DefaultAnalytics reports both sides over every field for the default season.
func (s *Service) DefaultAnalytics(ctx context.Context, email string) (*engine.Result, error) {
	return s.run(ctx, email, engine.DefaultQuery(s.DefaultSeasonID()))
}

// FilteredAnalytics reports a chosen season with view and field selection applied.
func (s *Service) FilteredAnalytics(ctx context.Context, req models.FilteredAnalyticsRequest) (*engine.Result, error) {
	view, err := engine.ParseViewType(req.ViewType)
	if err != nil {
		return nil, err
	}

	return s.run(ctx, req.Email, engine.Query{
		Season:         req.Season,
		ViewType:       view,
		SelectedFields: req.SelectedFields,
		SelectedTasks:  req.SelectedTasks,
	})
}

// AvailableSeasons lists the seasons the user has dated records in, newest first.
func (s *Service) AvailableSeasons(ctx context.Context, email string) ([]string, error) {
	user, err := s.load(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.engine.Seasons(&user)
}

func (s *Service) run(ctx context.Context, email string, q engine.Query) (*engine.Result, error) {
	user, err := s.load(ctx, email)
	if err != nil {
		return nil, err
	}

	res, err := s.engine.Summarize(&user, q)
	if err != nil {
		return nil, fmt.Errorf("summarize %s for season %s: %w", email, q.Season, err)
	}

	s.logger.Debug("analytics computed",
		zap.String("email", email),
		zap.String("season", res.Season),
		zap.String("view", string(res.ViewType)),
		zap.Strings("fields", q.SelectedFields),
		zap.Strings("tasks", q.SelectedTasks))

	return res, nil
}

func (s *Service) load(ctx context.Context, email string) (models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return models.User{}, fmt.Errorf("empty email: %w", models.ErrUserNotFound)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	user, err := s.source.LoadUser(ctxWithTimeout, email)
	if err != nil {
		return models.User{}, fmt.Errorf("load records for %s: %w", email, err)
	}
	return user, nil
}
