// Package service ties sessions, validation and the record store together.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"arbeitszeit/internal/balance"
	"arbeitszeit/internal/entry"
	"arbeitszeit/internal/events"
	"arbeitszeit/internal/export"
	"arbeitszeit/internal/metrics"
	"arbeitszeit/internal/models"
	"arbeitszeit/internal/repository"
	"arbeitszeit/internal/session"
)

// RecordRepository is the part of repository.Records the service needs.
type RecordRepository interface {
	All(ctx context.Context) ([]models.Record, error)
	Upsert(ctx context.Context, rec models.Record) (bool, error)
	Delete(ctx context.Context, login, date string) error
}

// EventPublisher receives entry events.
type EventPublisher interface {
	Publish(event events.Event)
}

// Overview is what a user sees after logging in.
type Overview struct {
	Login   string          `json:"login"`
	Records []models.Record `json:"records"`
	Summary balance.Summary `json:"summary"`
}

// SaveResult is the outcome of a successful save.
type SaveResult struct {
	Record  models.Record   `json:"record"`
	Created bool            `json:"created"`
	Summary balance.Summary `json:"summary"`
}

type TimesheetService struct {
	records  RecordRepository
	sessions session.Store
	events   EventPublisher
	logger   *zerolog.Logger
}

func NewTimesheetService(records RecordRepository, sessions session.Store, publisher EventPublisher, logger *zerolog.Logger) *TimesheetService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &TimesheetService{
		records:  records,
		sessions: sessions,
		events:   publisher,
		logger:   logger,
	}
}

func (s *TimesheetService) Login(ctx context.Context, login string) (*models.Session, error) {
	sess, err := s.sessions.Create(ctx, login)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("login", sess.Login).Msg("User logged in")
	return sess, nil
}

func (s *TimesheetService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

func (s *TimesheetService) Session(ctx context.Context, token string) (*models.Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, session.ErrNotFound
	}
	return s.sessions.Get(ctx, token)
}

// Overview loads the user's records, newest first, and their balances.
func (s *TimesheetService) Overview(ctx context.Context, sess *models.Session) (*Overview, error) {
	mine, err := s.userRecords(ctx, sess.Login)
	if err != nil {
		return nil, err
	}
	if mine == nil {
		mine = []models.Record{}
	}
	return &Overview{
		Login:   sess.Login,
		Records: mine,
		Summary: balance.Summarize(mine),
	}, nil
}

// Save validates form and writes the resulting record, replacing the
// user's row for that date if there is one.
func (s *TimesheetService) Save(ctx context.Context, sess *models.Session, form entry.Form) (*SaveResult, error) {
	mine, err := s.userRecords(ctx, sess.Login)
	if err != nil {
		return nil, err
	}

	previous := findDate(mine, strings.TrimSpace(form.Date))
	rec, err := entry.Build(sess.Login, form, mine, previous)
	if err != nil {
		var verr *entry.ValidationError
		if errors.As(err, &verr) {
			metrics.IncValidationRejected(verr.Reason)
		}
		return nil, err
	}

	created, err := s.records.Upsert(ctx, rec)
	if err != nil {
		metrics.IncEntrySaved(string(rec.DayType), "error")
		return nil, err
	}
	metrics.IncEntrySaved(string(rec.DayType), "ok")

	s.publish(events.EntrySaved, rec.Login, rec.Date, events.EntryPayload{DayType: string(rec.DayType), Created: created})
	s.logger.Info().
		Str("login", rec.Login).
		Str("date", rec.Date).
		Str("day_type", string(rec.DayType)).
		Bool("created", created).
		Msg("Entry saved")

	return &SaveResult{
		Record:  rec,
		Created: created,
		Summary: balance.Summarize(replaceDate(mine, rec)),
	}, nil
}

// Delete removes the user's row for date.
func (s *TimesheetService) Delete(ctx context.Context, sess *models.Session, date string) error {
	date = strings.TrimSpace(date)
	if err := s.records.Delete(ctx, sess.Login, date); err != nil {
		return err
	}
	metrics.IncEntryDeleted()
	s.publish(events.EntryDeleted, sess.Login, date, nil)
	s.logger.Info().Str("login", sess.Login).Str("date", date).Msg("Entry deleted")
	return nil
}

// Export writes the user's records and summary as an xlsx workbook to w.
func (s *TimesheetService) Export(ctx context.Context, sess *models.Session, w io.Writer) error {
	mine, err := s.userRecords(ctx, sess.Login)
	if err != nil {
		return err
	}

	xw := export.NewExcelizeWriter()
	defer xw.Close()

	if err := export.WriteTimesheet(xw, mine, balance.Summarize(mine)); err != nil {
		return fmt.Errorf("render export: %w", err)
	}
	return xw.Save(w)
}

func (s *TimesheetService) userRecords(ctx context.Context, login string) ([]models.Record, error) {
	all, err := s.records.All(ctx)
	if err != nil {
		return nil, err
	}
	return repository.FilterByLogin(all, login), nil
}

func (s *TimesheetService) publish(eventType, login, date string, payload any) {
	if s.events == nil {
		return
	}
	ev, err := events.NewEvent(eventType, login, date, payload)
	if err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("build event")
		return
	}
	s.events.Publish(ev)
}

func findDate(records []models.Record, date string) *models.Record {
	for i := range records {
		if strings.TrimSpace(records[i].Date) == date {
			rec := records[i]
			return &rec
		}
	}
	return nil
}

func replaceDate(records []models.Record, rec models.Record) []models.Record {
	out := make([]models.Record, 0, len(records)+1)
	replaced := false
	for _, r := range records {
		if strings.TrimSpace(r.Date) == rec.Date {
			out = append(out, rec)
			replaced = true
			continue
		}
		out = append(out, r)
	}
	if !replaced {
		out = append(out, rec)
	}
	return out
}
