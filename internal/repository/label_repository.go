package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

type LabelRepository struct {
	db *gorm.DB
}

func NewLabelRepository(db *gorm.DB) *LabelRepository {
	return &LabelRepository{db: db}
}

// Create adds a new label to the board. A second label with the same name on
// the same board fails with ErrLabelExists.
func (r *LabelRepository) Create(ctx context.Context, label *model.Label) error {
	if err := label.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureLabelNameFree(tx, label); err != nil {
			return err
		}
		return translateLabelError(tx.Create(label).Error)
	})
}

// GetByID retrieves a label by its ID
func (r *LabelRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Label, error) {
	var label model.Label
	if err := r.db.WithContext(ctx).First(&label, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrLabelNotFound)
	}
	return &label, nil
}

// GetByBoardID retrieves all labels for a specific board
func (r *LabelRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Label, error) {
	var labels []model.Label
	result := r.db.WithContext(ctx).Where("board_id = ?", boardID).Order("name").Find(&labels)
	if result.Error != nil {
		return nil, result.Error
	}
	return labels, nil
}

// Update changes the name and color of a label
func (r *LabelRepository) Update(ctx context.Context, label *model.Label) error {
	if err := label.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureLabelNameFree(tx, label); err != nil {
			return err
		}
		result := tx.Model(label).Updates(map[string]interface{}{
			"name":  label.Name,
			"color": label.Color,
		})
		if result.Error != nil {
			return translateLabelError(result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrLabelNotFound
		}
		return nil
	})
}

// Delete removes a label; it disappears from every task and project using it.
func (r *LabelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Label{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLabelNotFound
	}
	return nil
}

// GetTasksWithLabel retrieves all tasks that have a specific label
func (r *LabelRepository) GetTasksWithLabel(ctx context.Context, labelID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	result := withTaskLinks(r.db.WithContext(ctx)).
		Joins("JOIN task_labels ON task_labels.task_id = tasks.id").
		Where("task_labels.label_id = ?", labelID).
		Order("tasks.column_id").Order("tasks.position").
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// ensureLabelNameFree reports ErrLabelExists when another label of the board
// already uses the name. The unique index still guards concurrent inserts.
func ensureLabelNameFree(tx *gorm.DB, label *model.Label) error {
	var count int64
	err := tx.Model(&model.Label{}).
		Where("board_id = ? AND name = ? AND id <> ?", label.BoardID, label.Name, label.ID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrLabelExists
	}
	return nil
}

func translateLabelError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrLabelExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrBoardNotFound
	}
	return err
}
