package db

import (
	"errors"

	"delishub/internal/apperr" // Error kinds
	"delishub/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Cascading deletes are expressed here as explicit transactional multi-table
// deletes instead of ORM association callbacks, so the no-dangling-reference
// invariant holds even on stores that do not enforce foreign keys, and each
// cascade can be tested on its own.

// DeleteUser removes a user together with every recipe the user owns, every
// comment the user wrote, and every comment attached to the removed recipes
// regardless of who wrote it. The whole cascade is one transaction: either it
// all commits or nothing changes.
func DeleteUser(gdb *gorm.DB, userID string) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		var recipeIDs []string // Ids of the recipes owned by the user
		if err := tx.Model(&domain.Recipe{}).Where("user_id = ?", userID).Pluck("id", &recipeIDs).Error; err != nil {
			return apperr.Wrap(apperr.ErrIntegrity, err)
		}
		// Comments on the user's recipes go first, including other authors' comments
		if len(recipeIDs) > 0 {
			if err := tx.Where("recipe_id IN ?", recipeIDs).Delete(&domain.Comment{}).Error; err != nil {
				return apperr.Wrap(apperr.ErrIntegrity, err)
			}
		}
		// Then comments the user wrote on anyone's recipes
		if err := tx.Where("user_id = ?", userID).Delete(&domain.Comment{}).Error; err != nil {
			return apperr.Wrap(apperr.ErrIntegrity, err)
		}
		// Then the user's recipes
		if err := tx.Where("user_id = ?", userID).Delete(&domain.Recipe{}).Error; err != nil {
			return apperr.Wrap(apperr.ErrIntegrity, err)
		}
		// Finally the user record itself
		res := tx.Delete(&domain.User{}, "id = ?", userID)
		if res.Error != nil {
			return apperr.Wrap(apperr.ErrIntegrity, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.ErrNotFound // User was already gone, roll back
		}
		return nil
	})
}

// DeleteRecipe removes a recipe and every comment attached to it, regardless
// of comment authorship, as one transaction.
func DeleteRecipe(gdb *gorm.DB, recipeID string) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&domain.Comment{}).Error; err != nil {
			return apperr.Wrap(apperr.ErrIntegrity, err)
		}
		res := tx.Delete(&domain.Recipe{}, "id = ?", recipeID)
		if res.Error != nil {
			return apperr.Wrap(apperr.ErrIntegrity, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.ErrNotFound // Recipe was already gone, roll back
		}
		return nil
	})
}

// CreateComment durably creates a comment only if the referenced recipe exists
// at that instant. The existence check and the insert share one transaction so
// a concurrent recipe deletion cannot orphan the new comment.
func CreateComment(gdb *gorm.DB, comment *domain.Comment) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		var recipe domain.Recipe // Existence check for the parent recipe
		if err := tx.Select("id").First(&recipe, "id = ?", comment.RecipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return apperr.Wrap(apperr.ErrUnavailable, err)
		}
		if err := tx.Create(comment).Error; err != nil {
			return apperr.Wrap(apperr.ErrIntegrity, err)
		}
		return nil
	})
}
