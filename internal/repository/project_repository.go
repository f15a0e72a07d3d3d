package repository

import (
	"bytes"
	"context"
	"slices"

	"taskboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create appends the project to its board and attaches the labels, which must
// belong to the same board.
func (r *ProjectRepository) Create(ctx context.Context, project *model.Project, labelIDs []uuid.UUID) error {
	if err := project.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockBoard(tx, project.BoardID); err != nil {
			return err
		}
		if err := checkBoardLabels(tx, project.BoardID, labelIDs); err != nil {
			return err
		}
		position, err := boardProjects(project.BoardID).next(tx)
		if err != nil {
			return err
		}
		project.Position = position
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return err
		}
		return projectLabels.replace(tx, project.ID, labelIDs)
	})
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Preload("Labels", func(db *gorm.DB) *gorm.DB { return db.Order("name") }).
		Where("id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, notFound(err, ErrProjectNotFound)
	}
	return &project, nil
}

func (r *ProjectRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Preload("Labels", func(db *gorm.DB) *gorm.DB { return db.Order("name") }).
		Where("board_id = ?", boardID).
		Order("position").
		Find(&projects).Error
	return projects, err
}

// Update saves the editable fields. Board and position are not editable here.
func (r *ProjectRepository) Update(ctx context.Context, project *model.Project) error {
	if project.Priority == "" {
		project.Priority = model.PriorityMedium
	}
	if err := project.Validate(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(project).
		Select("title", "description", "priority", "due_date", "closed", "updated_at").
		Omit(clause.Associations).
		Updates(project)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// SetLabels replaces the project's labels.
func (r *ProjectRepository) SetLabels(ctx context.Context, projectID uuid.UUID, labelIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project model.Project
		if err := tx.Select("id", "board_id").Where("id = ?", projectID).First(&project).Error; err != nil {
			return notFound(err, ErrProjectNotFound)
		}
		if err := checkBoardLabels(tx, project.BoardID, labelIDs); err != nil {
			return err
		}
		return projectLabels.replace(tx, projectID, labelIDs)
	})
}

// Delete removes the project and its tasks, then compacts the project order
// of the board and the task order of every column that lost tasks.
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project model.Project
		if err := tx.Where("id = ?", id).First(&project).Error; err != nil {
			return notFound(err, ErrProjectNotFound)
		}

		projects := boardProjects(project.BoardID)
		if _, err := projects.siblings(tx); err != nil {
			return err
		}

		var columnIDs []uuid.UUID
		if err := tx.Model(&model.Task{}).Where("project_id = ?", id).Distinct().Pluck("column_id", &columnIDs).Error; err != nil {
			return err
		}
		slices.SortFunc(columnIDs, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
		for _, columnID := range columnIDs {
			if _, err := columnTasks(columnID).siblings(tx); err != nil {
				return err
			}
		}

		if err := tx.Delete(&model.Project{}, "id = ?", id).Error; err != nil {
			return err
		}

		for _, columnID := range columnIDs {
			if err := columnTasks(columnID).compact(tx); err != nil {
				return err
			}
		}
		return projects.compact(tx)
	})
}

// Move places the project at the zero-based index within its board.
func (r *ProjectRepository) Move(ctx context.Context, id uuid.UUID, index int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project model.Project
		if err := tx.Select("id", "board_id").Where("id = ?", id).First(&project).Error; err != nil {
			return notFound(err, ErrProjectNotFound)
		}
		return boardProjects(project.BoardID).move(tx, id, index)
	})
}
