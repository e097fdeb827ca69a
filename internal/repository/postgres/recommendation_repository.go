package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopRadar/business/recommendation"
	"shopRadar/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RecommendationRepository struct {
	DB *gorm.DB
}

func NewRecommendationRepository(db *gorm.DB) *RecommendationRepository {
	return &RecommendationRepository{
		DB: db,
	}
}

// subjectScope narrows a query to one subject: a specific product, or the
// whole site when productID is nil.
func subjectScope(tx *gorm.DB, ownerID uint64, productID *uint64) *gorm.DB {
	tx = tx.Where("owner_id = ?", ownerID)
	if productID == nil {
		return tx.Where("product_id IS NULL")
	}
	return tx.Where("product_id = ?", *productID)
}

// ReconcileActive settles a subject's recommendations against the rule
// outcome in one transaction. The winning reason's row is updated in place
// (or created), every other non-AI row is deactivated, and a nil match
// deactivates them all. AI rows are never touched here. Returns whether
// anything actually changed, so a repeated pass over unchanged data is a
// no-op.
func (r *RecommendationRepository) ReconcileActive(ctx context.Context, ownerID uint64, productID *uint64, match *recommendation.RuleMatch, details map[string]interface{}) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	changed := false

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if match == nil {
			result := subjectScope(tx.Model(&domain.Recommendation{}), ownerID, productID).
				Where("is_active = ? AND reason <> ?", true, domain.ReasonAIGenerated).
				Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()})
			if result.Error != nil {
				return fmt.Errorf("failed to deactivate recommendations: %w", result.Error)
			}
			changed = result.RowsAffected > 0
			return nil
		}

		var existing domain.Recommendation
		err := subjectScope(tx, ownerID, productID).
			Where("reason = ?", match.Reason).
			Order("id DESC").
			First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row := domain.Recommendation{
				OwnerID:         ownerID,
				ProductID:       productID,
				Reason:          match.Reason,
				Text:            match.Text,
				IsActive:        true,
				ConfidenceScore: match.Confidence,
				Details:         datatypes.JSONMap(details),
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to create recommendation: %w", err)
			}
			changed = true
		case err != nil:
			return fmt.Errorf("failed to find recommendation: %w", err)
		default:
			if !existing.IsActive || existing.Text != match.Text || existing.ConfidenceScore != match.Confidence {
				updates := map[string]interface{}{
					"is_active":        true,
					"text":             match.Text,
					"confidence_score": match.Confidence,
					"details":          datatypes.JSONMap(details),
					"updated_at":       time.Now(),
				}
				if err := tx.Model(&domain.Recommendation{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
					return fmt.Errorf("failed to update recommendation: %w", err)
				}
				changed = true
			}
		}

		result := subjectScope(tx.Model(&domain.Recommendation{}), ownerID, productID).
			Where("is_active = ? AND reason <> ? AND reason <> ?", true, match.Reason, domain.ReasonAIGenerated).
			Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()})
		if result.Error != nil {
			return fmt.Errorf("failed to deactivate losing recommendations: %w", result.Error)
		}
		if result.RowsAffected > 0 {
			changed = true
		}

		return nil
	})
	if err != nil {
		return false, err
	}

	return changed, nil
}

// UpsertAISuggestion stores an advisor suggestion for a subject. AI rows
// live outside the rule exclusivity, so an existing AI row is refreshed
// rather than multiplied, and no rule row is deactivated.
func (r *RecommendationRepository) UpsertAISuggestion(ctx context.Context, ownerID uint64, productID *uint64, text string, confidence float64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Recommendation
		err := subjectScope(tx, ownerID, productID).
			Where("reason = ?", domain.ReasonAIGenerated).
			Order("id DESC").
			First(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			row := domain.Recommendation{
				OwnerID:         ownerID,
				ProductID:       productID,
				Reason:          domain.ReasonAIGenerated,
				Text:            text,
				IsActive:        true,
				ConfidenceScore: confidence,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to create ai recommendation: %w", err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to find ai recommendation: %w", err)
		}

		updates := map[string]interface{}{
			"is_active":        true,
			"text":             text,
			"confidence_score": confidence,
			"updated_at":       time.Now(),
		}
		if err := tx.Model(&domain.Recommendation{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update ai recommendation: %w", err)
		}

		return nil
	})
}

func (r *RecommendationRepository) FindActiveByOwner(ctx context.Context, ownerID uint64) ([]domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var recommendations []domain.Recommendation
	err := r.DB.WithContext(ctx).
		Where("owner_id = ? AND is_active = ?", ownerID, true).
		Order("confidence_score DESC, id ASC").
		Find(&recommendations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find recommendations: %w", err)
	}

	return recommendations, nil
}
