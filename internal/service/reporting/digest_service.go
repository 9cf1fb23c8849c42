package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/csd4487/vedema/internal/analytics"
	"github.com/csd4487/vedema/internal/domain/models"
	"github.com/csd4487/vedema/internal/season"
)

const userTimeout = 30 * time.Second

// UserLister enumerates the owners that receive a digest.
type UserLister interface {
	ListUserEmails(ctx context.Context) ([]string, error)
}

// Summarizer computes season analytics for one owner.
type Summarizer interface {
	FilteredAnalytics(ctx context.Context, req models.FilteredAnalyticsRequest) (*analytics.Result, error)
}

// ReportStore persists season digests.
type ReportStore interface {
	SaveSeasonReport(ctx context.Context, report models.SeasonReport) error
}

// ReportExporter publishes a digest to a secondary destination.
type ReportExporter interface {
	ExportSeasonReport(ctx context.Context, report models.SeasonReport) error
}

// DigestService builds a per-user summary of the running season.
type DigestService struct {
	users       UserLister
	analytics   Summarizer
	store       ReportStore
	exporter    ReportExporter
	concurrency int
	logger      *zap.Logger
	now         func() time.Time
	newID       func() string
}

// NewDigestService wires a digest service. exporter may be nil.
func NewDigestService(users UserLister, summarizer Summarizer, store ReportStore, exporter ReportExporter, concurrency int, logger *zap.Logger) *DigestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &DigestService{
		users:       users,
		analytics:   summarizer,
		store:       store,
		exporter:    exporter,
		concurrency: concurrency,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// RunDigest stores one report per user for the current season. A failing
// user does not stop the others; the first failure is returned.
func (s *DigestService) RunDigest(ctx context.Context) error {
	emails, err := s.users.ListUserEmails(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	now := s.now()
	seasonID := season.Current(now).String()
	s.logger.Info("season digest started", zap.String("season", seasonID), zap.Int("users", len(emails)))

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for _, email := range emails {
		g.Go(func() error {
			if err := s.digestUser(ctx, email, seasonID, now); err != nil {
				s.logger.Error("season digest failed for user", zap.String("email", email), zap.Error(err))
				return err
			}
			return nil
		})
	}

	err = g.Wait()
	s.logger.Info("season digest finished", zap.String("season", seasonID), zap.Bool("ok", err == nil))
	return err
}

func (s *DigestService) digestUser(ctx context.Context, email, seasonID string, now time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, userTimeout)
	defer cancel()

	res, err := s.analytics.FilteredAnalytics(ctx, models.FilteredAnalyticsRequest{
		Email:    email,
		Season:   seasonID,
		ViewType: string(analytics.ViewBoth),
	})
	if err != nil {
		return fmt.Errorf("summarize %s: %w", email, err)
	}

	report, err := newSeasonReport(s.newID(), email, res, now)
	if err != nil {
		return err
	}

	if err := s.store.SaveSeasonReport(ctx, report); err != nil {
		return fmt.Errorf("save report for %s: %w", email, err)
	}

	if s.exporter != nil {
		if err := s.exporter.ExportSeasonReport(ctx, report); err != nil {
			return fmt.Errorf("export report for %s: %w", email, err)
		}
	}

	s.logger.Debug("season digest stored", zap.String("email", email), zap.String("summary", analytics.Describe(res)))
	return nil
}

func newSeasonReport(id, email string, res *analytics.Result, now time.Time) (models.SeasonReport, error) {
	if res == nil || res.TotalExpenses == nil || res.TotalProfits == nil || res.NetProfit == nil {
		return models.SeasonReport{}, errors.New("digest needs a result covering both expenses and profits")
	}

	report := models.SeasonReport{
		ID:            id,
		Email:         email,
		Season:        res.Season,
		TotalExpenses: models.NumericOf(*res.TotalExpenses),
		TotalProfits:  models.NumericOf(*res.TotalProfits),
		NetProfit:     models.NumericOf(*res.NetProfit),
		CreatedAt:     now.UTC(),
	}
	if res.FieldWithMostExpenses != nil {
		report.FieldWithMostExpenses = *res.FieldWithMostExpenses
	}
	if res.FieldWithMostProfits != nil {
		report.FieldWithMostProfits = *res.FieldWithMostProfits
	}
	return report, nil
}
