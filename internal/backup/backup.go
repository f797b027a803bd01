// Package backup periodically snapshots every record into an xlsx file.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"arbeitszeit/internal/config"
	"arbeitszeit/internal/export"
	"arbeitszeit/internal/models"
)

const (
	filePrefix = "backup_"
	fileExt    = ".xlsx"
)

// Source lists every stored record.
type Source interface {
	All(ctx context.Context) ([]models.Record, error)
}

type Service struct {
	source Source
	config config.BackupConfig
	logger *zerolog.Logger
	now    func() time.Time
}

func NewService(source Source, cfg config.BackupConfig, logger *zerolog.Logger) *Service {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Service{
		source: source,
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Start runs a backup immediately and then every configured interval until
// ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	if !s.config.Enabled {
		s.logger.Info().Msg("Backup service is disabled")
		return
	}

	interval := s.config.Interval()
	s.logger.Info().Dur("interval", interval).Str("path", s.config.Path).Msg("Backup service started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if _, err := s.PerformBackup(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Initial backup failed")
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.PerformBackup(ctx); err != nil {
				s.logger.Error().Err(err).Msg("Scheduled backup failed")
			}
			s.CleanupOldBackups()
		}
	}
}

// PerformBackup writes all records to a new timestamped workbook and returns its path.
func (s *Service) PerformBackup(ctx context.Context) (string, error) {
	if err := os.MkdirAll(s.config.Path, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	records, err := s.source.All(ctx)
	if err != nil {
		return "", fmt.Errorf("read records: %w", err)
	}

	name := filePrefix + s.now().Format("20060102_150405") + fileExt
	backupPath := filepath.Join(s.config.Path, name)

	s.logger.Info().Str("path", backupPath).Int("records", len(records)).Msg("Performing backup")

	w := export.NewExcelizeWriter()
	defer w.Close()

	if err := export.WriteRecords(w, "Backup", records); err != nil {
		return "", fmt.Errorf("render backup: %w", err)
	}
	if err := w.SaveToFile(backupPath); err != nil {
		return "", fmt.Errorf("save backup: %w", err)
	}

	s.logger.Info().Msg("Backup completed successfully")
	return backupPath, nil
}

// CleanupOldBackups removes backup files older than the retention window.
func (s *Service) CleanupOldBackups() {
	if s.config.RetentionDays <= 0 {
		return
	}

	files, err := os.ReadDir(s.config.Path)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read backup directory for cleanup")
		return
	}

	cutoff := s.now().AddDate(0, 0, -s.config.RetentionDays)

	for _, file := range files {
		if file.IsDir() || !strings.HasPrefix(file.Name(), filePrefix) || !strings.HasSuffix(file.Name(), fileExt) {
			continue
		}

		info, err := file.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			s.logger.Info().Str("file", file.Name()).Msg("Deleting old backup")
			if err := os.Remove(filepath.Join(s.config.Path, file.Name())); err != nil {
				s.logger.Warn().Err(err).Str("file", file.Name()).Msg("Failed to delete old backup")
			}
		}
	}
}
