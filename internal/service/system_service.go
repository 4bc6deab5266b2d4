package service

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/database"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/version"
)

// StatusSource reports the current refresh status. Implemented by RefreshService.
type StatusSource interface {
	Status() model.RefreshStatus
}

// SystemService handles system-related operations
type SystemService struct {
	db       *sql.DB
	status   StatusSource
	features map[string]bool
}

// NewSystemService creates a new SystemService. features lists the optional
// capabilities reported by CheckVersion.
func NewSystemService(db *sql.DB, status StatusSource, features map[string]bool) *SystemService {
	if features == nil {
		features = map[string]bool{}
	}
	return &SystemService{
		db:       db,
		status:   status,
		features: features,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// RefreshStatus returns the status of the dashboard refresh loop.
func (s *SystemService) RefreshStatus() model.RefreshStatus {
	if s.status == nil {
		return model.StatusIdle
	}
	return s.status.Status()
}

// CheckVersion reports the application and schema versions and whether
// the schema lags behind the embedded migrations.
func (s *SystemService) CheckVersion() (model.VersionInfo, error) {
	current, err := database.Version(s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetVersionInfo, err)
	}
	latest, err := database.LatestVersion()
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetVersionInfo, err)
	}

	features := make(map[string]bool, len(s.features))
	for k, v := range s.features {
		features[k] = v
	}

	info := model.VersionInfo{
		AppVersion:      version.Version,
		DbVersion:       strconv.FormatInt(current, 10),
		Features:        features,
		MigrationNeeded: current < latest,
	}
	if info.MigrationNeeded {
		msg := fmt.Sprintf("database schema at version %d, %d available", current, latest)
		info.MigrationMessage = &msg
	}
	return info, nil
}
