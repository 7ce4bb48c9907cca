package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
	"github.com/mohammadpnp/field-productivity/internal/infrastructure/db/models"
)

type InstallerRepository struct {
	db *gorm.DB
}

func NewInstallerRepository(db *gorm.DB) *InstallerRepository {
	return &InstallerRepository{db: db}
}

func (r *InstallerRepository) Create(ctx context.Context, installer *domain.Installer) error {
	row := models.Installer{
		ID:        installer.ID,
		UserID:    installer.UserID,
		FullName:  installer.FullName,
		Branch:    installer.Branch,
		Phone:     installer.Phone,
		CreatedAt: installer.CreatedAt,
	}
	if err := conn(ctx, r.db).Create(&row).Error; err != nil {
		return fmt.Errorf("create installer: %w", err)
	}
	return nil
}

func (r *InstallerRepository) GetByID(ctx context.Context, id string) (*domain.Installer, error) {
	var row models.Installer
	if err := conn(ctx, r.db).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInstallerNotFound
		}
		return nil, fmt.Errorf("get installer by id: %w", err)
	}
	installer := installerFromModel(row)
	return &installer, nil
}

func (r *InstallerRepository) GetByIDs(ctx context.Context, ids []string) (map[string]domain.Installer, error) {
	out := make(map[string]domain.Installer, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Installer
	if err := conn(ctx, r.db).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("get installers by ids: %w", err)
	}
	for _, row := range rows {
		out[row.ID] = installerFromModel(row)
	}
	return out, nil
}

func (r *InstallerRepository) List(ctx context.Context) ([]domain.Installer, error) {
	var rows []models.Installer
	if err := conn(ctx, r.db).Order("full_name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list installers: %w", err)
	}
	out := make([]domain.Installer, 0, len(rows))
	for _, row := range rows {
		out = append(out, installerFromModel(row))
	}
	return out, nil
}

func (r *InstallerRepository) Update(ctx context.Context, installer *domain.Installer) error {
	res := conn(ctx, r.db).Model(&models.Installer{}).
		Where("id = ?", installer.ID).
		Updates(map[string]any{
			"full_name": installer.FullName,
			"branch":    installer.Branch,
			"phone":     installer.Phone,
		})
	if res.Error != nil {
		return fmt.Errorf("update installer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrInstallerNotFound
	}
	return nil
}

func installerFromModel(row models.Installer) domain.Installer {
	return domain.Installer{
		ID:        row.ID,
		UserID:    row.UserID,
		FullName:  row.FullName,
		Branch:    row.Branch,
		Phone:     row.Phone,
		CreatedAt: row.CreatedAt,
	}
}
