package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
	"github.com/mohammadpnp/field-productivity/internal/infrastructure/db/models"
)

type FamilyRepository struct {
	db *gorm.DB
}

func NewFamilyRepository(db *gorm.DB) *FamilyRepository {
	return &FamilyRepository{db: db}
}

func (r *FamilyRepository) Create(ctx context.Context, family *domain.ProductFamily) error {
	row := models.ProductFamily{
		ID:          family.ID,
		Name:        family.Name,
		Description: family.Description,
		Color:       family.Color,
		CreatedAt:   family.CreatedAt,
	}
	if err := conn(ctx, r.db).Create(&row).Error; err != nil {
		if isDuplicate(err) {
			return domain.ErrFamilyExists
		}
		return fmt.Errorf("create family: %w", err)
	}
	return nil
}

func (r *FamilyRepository) List(ctx context.Context) ([]domain.ProductFamily, error) {
	var rows []models.ProductFamily
	if err := conn(ctx, r.db).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list families: %w", err)
	}
	out := make([]domain.ProductFamily, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.ProductFamily{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			Color:       row.Color,
			CreatedAt:   row.CreatedAt,
		})
	}
	return out, nil
}
