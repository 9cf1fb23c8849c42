package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/csd4487/vedema/internal/config"
)

// ErrRangeNotFound is returned when a ledger tab does not exist in the spreadsheet.
var ErrRangeNotFound = errors.New("sheet range not found")

// Repository is the range-level access the ledger source and exporter need.
type Repository interface {
	WriteRow(ctx context.Context, sheetRange string, values []interface{}) error
	ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error)
}

// Spreadsheet reads ledger tabs from, and appends digests to, one spreadsheet.
type Spreadsheet struct {
	values        *sheetsapi.SpreadsheetsValuesService
	spreadsheetID string
	logger        *zap.Logger
}

// NewSpreadsheet authenticates with a service account credentials file.
func NewSpreadsheet(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger, opts ...option.ClientOption) (*Spreadsheet, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled() {
		return nil, errors.New("sheets credentials path and spreadsheet id are required")
	}

	opts = append([]option.ClientOption{
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	}, opts...)

	service, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &Spreadsheet{
		values:        service.Spreadsheets.Values,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// WriteRow appends values verbatim below the last row of sheetRange.
func (s *Spreadsheet) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return errors.New("sheet range must not be empty")
	}

	payload := &sheetsapi.ValueRange{MajorDimension: "ROWS", Values: [][]interface{}{values}}

	_, err := s.values.Append(s.spreadsheetID, sheetRange, payload).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return classify(sheetRange, fmt.Errorf("append row into %s: %w", sheetRange, err))
	}

	s.logger.Debug("row appended", zap.String("range", sheetRange), zap.Int("cells", len(values)))
	return nil
}

// ReadRange returns the raw cell values of sheetRange row by row. Numbers come
// back as float64 whatever their display format, and date cells as serial day
// numbers.
func (s *Spreadsheet) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	if sheetRange == "" {
		return nil, errors.New("sheet range must not be empty")
	}

	resp, err := s.values.Get(s.spreadsheetID, sheetRange).
		MajorDimension("ROWS").
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(sheetRange, fmt.Errorf("read %s: %w", sheetRange, err))
	}

	s.logger.Debug("range read", zap.String("range", sheetRange), zap.Int("rows", len(resp.Values)))
	return resp.Values, nil
}

// classify tags the API's "Unable to parse range" answer, which is what a
// missing tab produces, with ErrRangeNotFound.
func classify(sheetRange string, err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	if apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "Unable to parse range") {
		return fmt.Errorf("%w: %s", ErrRangeNotFound, sheetRange)
	}
	return err
}
