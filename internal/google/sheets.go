// Package google stores timesheet rows in a Google Sheets worksheet.
package google

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	gauth "golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"arbeitszeit/internal/metrics"
	"arbeitszeit/internal/models"
	"arbeitszeit/internal/repository"
)

const backendName = "sheets"

var _ repository.Table = (*SheetsTable)(nil)

// SheetsTable implements repository.Table on one worksheet. Row 1 holds the
// column headers; data rows follow.
type SheetsTable struct {
	srv           *sheets.Service
	spreadsheetID string
	worksheet     string
	limiter       *rate.Limiter
	logger        *zerolog.Logger

	mu      sync.Mutex
	sheetID *int64
	header  []string
}

// NewSheetsTable authenticates with a service account key file and checks
// that the worksheet has a header row, writing one when it is empty.
func NewSheetsTable(ctx context.Context, credentialsFile, spreadsheetID, worksheet string, requestsPerMinute int, logger *zerolog.Logger) (*SheetsTable, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	jwt, err := gauth.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}

	s := newSheetsTable(srv, spreadsheetID, worksheet, requestsPerMinute, logger)
	if err := s.ensureHeader(ctx); err != nil {
		return nil, err
	}
	s.logger.Info().Str("spreadsheet", spreadsheetID).Str("worksheet", worksheet).Msg("Google Sheets store ready")
	return s, nil
}

func newSheetsTable(srv *sheets.Service, spreadsheetID, worksheet string, requestsPerMinute int, logger *zerolog.Logger) *SheetsTable {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &SheetsTable{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		worksheet:     worksheet,
		limiter:       rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 5),
		logger:        logger,
	}
}

// ReadAll returns every data row, positionally aligned with the sheet.
func (s *SheetsTable) ReadAll(ctx context.Context) ([]models.Record, error) {
	defer metrics.ObserveStore(backendName, "read_all", time.Now())
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, a1Range(s.worksheet, "")).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("get values: %w", err)
	}

	grid := toGrid(resp.Values)
	if len(grid) > 0 {
		s.mu.Lock()
		s.header = grid[0]
		s.mu.Unlock()
	}
	return models.RecordsFromGrid(grid), nil
}

// AppendRow adds rec below the last data row.
func (s *SheetsTable) AppendRow(ctx context.Context, rec models.Record) error {
	defer metrics.ObserveStore(backendName, "append", time.Now())
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{rowValuesFor(s.currentHeader(), &rec)}}
	_, err := s.srv.Spreadsheets.Values.Append(s.spreadsheetID, a1Range(s.worksheet, "A1"), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append values: %w", err)
	}
	return nil
}

// UpdateRow overwrites data row index with rec.
func (s *SheetsTable) UpdateRow(ctx context.Context, index int, rec models.Record) error {
	defer metrics.ObserveStore(backendName, "update", time.Now())
	if index < 0 {
		return repository.ErrRowOutOfRange
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	header := s.currentHeader()
	row := sheetRow(index)
	rng := fmt.Sprintf("A%d:%s%d", row, columnLetter(len(header)), row)
	vr := &sheets.ValueRange{Values: [][]interface{}{rowValuesFor(header, &rec)}}
	_, err := s.srv.Spreadsheets.Values.Update(s.spreadsheetID, a1Range(s.worksheet, rng), vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update row %d: %w", row, err)
	}
	return nil
}

// DeleteRow removes data row index; following rows shift up.
func (s *SheetsTable) DeleteRow(ctx context.Context, index int) error {
	defer metrics.ObserveStore(backendName, "delete", time.Now())
	if index < 0 {
		return repository.ErrRowOutOfRange
	}
	sheetID, err := s.resolveSheetID(ctx)
	if err != nil {
		return err
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	start := int64(sheetRow(index) - 1)
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:         sheetID,
					Dimension:       "ROWS",
					StartIndex:      start,
					EndIndex:        start + 1,
					// sheet id 0 is valid and must not be dropped as empty
					ForceSendFields: []string{"SheetId"},
				},
			},
		}},
	}
	if _, err := s.srv.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d: %w", start+1, err)
	}
	return nil
}

func (s *SheetsTable) ensureHeader(ctx context.Context) error {
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, a1Range(s.worksheet, "1:1")).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	grid := toGrid(resp.Values)
	if len(grid) > 0 && !blankRow(grid[0]) {
		s.mu.Lock()
		s.header = grid[0]
		s.mu.Unlock()
		return nil
	}

	header := make([]interface{}, len(models.Columns))
	for i, c := range models.Columns {
		header[i] = c
	}
	rng := fmt.Sprintf("A1:%s1", columnLetter(len(models.Columns)))
	_, err = s.srv.Spreadsheets.Values.Update(s.spreadsheetID, a1Range(s.worksheet, rng), &sheets.ValueRange{Values: [][]interface{}{header}}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	s.logger.Info().Str("worksheet", s.worksheet).Msg("Wrote header row")
	return nil
}

func (s *SheetsTable) resolveSheetID(ctx context.Context) (int64, error) {
	s.mu.Lock()
	if s.sheetID != nil {
		id := *s.sheetID
		s.mu.Unlock()
		return id, nil
	}
	s.mu.Unlock()

	if err := s.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	ss, err := s.srv.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet: %w", err)
	}
	id, ok := sheetIDByTitle(ss, s.worksheet)
	if !ok {
		return 0, fmt.Errorf("worksheet %q not found", s.worksheet)
	}

	s.mu.Lock()
	s.sheetID = &id
	s.mu.Unlock()
	return id, nil
}

func (s *SheetsTable) currentHeader() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.header) == 0 {
		return models.Columns
	}
	return s.header
}

// sheetRow converts a data-row index into a 1-based sheet row number.
func sheetRow(index int) int {
	return index + 2
}

// a1Range qualifies rng with the quoted worksheet title.
func a1Range(worksheet, rng string) string {
	title := "'" + strings.ReplaceAll(worksheet, "'", "''") + "'"
	if rng == "" {
		return title
	}
	return title + "!" + rng
}

// columnLetter returns the A1 column name of the 1-based column n.
func columnLetter(n int) string {
	if n <= 0 {
		n = 1
	}
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

// rowValuesFor orders rec's cells to match header. Unknown header columns
// get an empty cell.
func rowValuesFor(header []string, rec *models.Record) []interface{} {
	values := rec.RowValues()
	byName := make(map[string]interface{}, len(models.Columns))
	for i, c := range models.Columns {
		byName[c] = values[i]
	}
	out := make([]interface{}, len(header))
	for i, h := range header {
		if v, ok := byName[strings.TrimSpace(h)]; ok {
			out[i] = v
		} else {
			out[i] = ""
		}
	}
	return out
}

func toGrid(values [][]interface{}) [][]string {
	grid := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprint(v)
		}
		grid[i] = cells
	}
	return grid
}

func sheetIDByTitle(ss *sheets.Spreadsheet, title string) (int64, bool) {
	if ss == nil {
		return 0, false
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return sh.Properties.SheetId, true
		}
	}
	return 0, false
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
