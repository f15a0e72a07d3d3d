package repository

import (
	"context"
	"errors"

	"taskboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// taskRef is the slice of a task needed to check references across boards.
type taskRef struct {
	ID           uuid.UUID
	ColumnID     uuid.UUID
	ParentTaskID *uuid.UUID
	BoardID      uuid.UUID
}

func loadTaskRef(tx *gorm.DB, id uuid.UUID) (*taskRef, error) {
	var ref taskRef
	err := tx.Table("tasks").
		Select("tasks.id, tasks.column_id, tasks.parent_task_id, columns.board_id").
		Joins("JOIN columns ON columns.id = tasks.column_id").
		Where("tasks.id = ?", id).
		Take(&ref).Error
	if err != nil {
		return nil, notFound(err, ErrTaskNotFound)
	}
	return &ref, nil
}

func columnBoard(tx *gorm.DB, columnID uuid.UUID) (uuid.UUID, error) {
	var column model.Column
	if err := tx.Select("id", "board_id").Where("id = ?", columnID).First(&column).Error; err != nil {
		return uuid.Nil, notFound(err, ErrColumnNotFound)
	}
	return column.BoardID, nil
}

// lockColumn is columnBoard with a row lock on the column, so appends to an
// empty column serialize.
func lockColumn(tx *gorm.DB, columnID uuid.UUID) (uuid.UUID, error) {
	return columnBoard(tx.Clauses(clause.Locking{Strength: "UPDATE"}), columnID)
}

// checkTaskRefs verifies that the project and parent of task live on boardID
// and that the parent chain does not lead back to the task.
func checkTaskRefs(tx *gorm.DB, boardID uuid.UUID, task *model.Task) error {
	if task.ProjectID != nil {
		var project model.Project
		if err := tx.Select("id", "board_id").Where("id = ?", *task.ProjectID).First(&project).Error; err != nil {
			return notFound(err, ErrProjectNotFound)
		}
		if project.BoardID != boardID {
			return ErrCrossBoard
		}
	}

	if task.ParentTaskID == nil {
		return nil
	}
	if *task.ParentTaskID == task.ID {
		return ErrInvalidParent
	}
	parent, err := loadTaskRef(tx, *task.ParentTaskID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return ErrInvalidParent
		}
		return err
	}
	if parent.BoardID != boardID {
		return ErrCrossBoard
	}

	seen := map[uuid.UUID]struct{}{parent.ID: {}}
	for next := parent.ParentTaskID; next != nil; {
		if *next == task.ID {
			return ErrInvalidParent
		}
		if _, ok := seen[*next]; ok {
			break
		}
		seen[*next] = struct{}{}
		var ancestor model.Task
		if err := tx.Select("id", "parent_task_id").Where("id = ?", *next).First(&ancestor).Error; err != nil {
			return notFound(err, ErrInvalidParent)
		}
		next = ancestor.ParentTaskID
	}
	return nil
}

// Create appends the task to its column. Labels must belong to the board and
// assignees must be board members.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task, labelIDs, assigneeIDs []uuid.UUID) error {
	if err := task.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		boardID, err := lockColumn(tx, task.ColumnID)
		if err != nil {
			return err
		}
		if err := checkTaskRefs(tx, boardID, task); err != nil {
			return err
		}
		if err := checkBoardLabels(tx, boardID, labelIDs); err != nil {
			return err
		}
		if err := checkBoardMembers(tx, boardID, assigneeIDs); err != nil {
			return err
		}

		position, err := columnTasks(task.ColumnID).next(tx)
		if err != nil {
			return err
		}
		task.Position = position
		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return err
		}
		if err := taskLabels.replace(tx, task.ID, labelIDs); err != nil {
			return err
		}
		return taskAssignees.replace(tx, task.ID, assigneeIDs)
	})
}

// withTaskLinks preloads the labels and assignees every task listing returns.
func withTaskLinks(db *gorm.DB) *gorm.DB {
	byName := func(db *gorm.DB) *gorm.DB { return db.Order("name") }
	return db.Preload("Labels", byName).Preload("Assignees", byName)
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := withTaskLinks(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&task).Error
	if err != nil {
		return nil, notFound(err, ErrTaskNotFound)
	}
	return &task, nil
}

func (r *TaskRepository) GetByColumnID(ctx context.Context, columnID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	err := withTaskLinks(r.db.WithContext(ctx)).
		Where("column_id = ?", columnID).
		Order("position").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) GetByProjectID(ctx context.Context, projectID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	err := withTaskLinks(r.db.WithContext(ctx)).
		Where("project_id = ?", projectID).
		Order("column_id").Order("position").
		Find(&tasks).Error
	return tasks, err
}

// GetChildren returns the direct subtasks of parentID.
func (r *TaskRepository) GetChildren(ctx context.Context, parentID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	err := withTaskLinks(r.db.WithContext(ctx)).
		Where("parent_task_id = ?", parentID).
		Order("created_at").Order("id").
		Find(&tasks).Error
	return tasks, err
}

// GetBoardID resolves the board a task belongs to through its column.
func (r *TaskRepository) GetBoardID(ctx context.Context, taskID uuid.UUID) (uuid.UUID, error) {
	ref, err := loadTaskRef(r.db.WithContext(ctx), taskID)
	if err != nil {
		return uuid.Nil, err
	}
	return ref.BoardID, nil
}

// Update saves the editable fields. Column and position change only through
// MoveTask.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if err := task.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := loadTaskRef(tx, task.ID)
		if err != nil {
			return err
		}
		if err := checkTaskRefs(tx, current.BoardID, task); err != nil {
			return err
		}
		return tx.Model(task).
			Select("title", "description", "priority", "due_date", "closed", "project_id", "parent_task_id", "updated_at").
			Omit(clause.Associations).
			Updates(task).Error
	})
}

// Delete removes the task and closes the gap in its column. Subtasks keep
// existing with their parent cleared.
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ref, err := loadTaskRef(tx, id)
		if err != nil {
			return err
		}
		scope := columnTasks(ref.ColumnID)
		if _, err := scope.siblings(tx); err != nil {
			return err
		}
		if err := tx.Delete(&model.Task{}, "id = ?", id).Error; err != nil {
			return err
		}
		return scope.compact(tx)
	})
}

// MoveTask places the task at the zero-based index of columnID, which must be
// a column of the same board.
func (r *TaskRepository) MoveTask(ctx context.Context, id, columnID uuid.UUID, index int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ref, err := loadTaskRef(tx, id)
		if err != nil {
			return err
		}
		if columnID != ref.ColumnID {
			boardID, err := columnBoard(tx, columnID)
			if err != nil {
				return err
			}
			if boardID != ref.BoardID {
				return ErrCrossBoard
			}
		}
		return columnTasks(ref.ColumnID).moveTo(tx, columnTasks(columnID), id, index)
	})
}

// SetLabels replaces the task's labels.
func (r *TaskRepository) SetLabels(ctx context.Context, taskID uuid.UUID, labelIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ref, err := loadTaskRef(tx, taskID)
		if err != nil {
			return err
		}
		if err := checkBoardLabels(tx, ref.BoardID, labelIDs); err != nil {
			return err
		}
		return taskLabels.replace(tx, taskID, labelIDs)
	})
}

func (r *TaskRepository) AddLabel(ctx context.Context, taskID, labelID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ref, err := loadTaskRef(tx, taskID)
		if err != nil {
			return err
		}
		if err := checkBoardLabels(tx, ref.BoardID, []uuid.UUID{labelID}); err != nil {
			return err
		}
		return taskLabels.add(tx, taskID, labelID)
	})
}

func (r *TaskRepository) RemoveLabel(ctx context.Context, taskID, labelID uuid.UUID) error {
	affected, err := taskLabels.remove(r.db.WithContext(ctx), taskID, labelID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrLabelNotFound
	}
	return nil
}

// SetAssignees replaces the task's assignees; all must be board members.
func (r *TaskRepository) SetAssignees(ctx context.Context, taskID uuid.UUID, userIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ref, err := loadTaskRef(tx, taskID)
		if err != nil {
			return err
		}
		if err := checkBoardMembers(tx, ref.BoardID, userIDs); err != nil {
			return err
		}
		return taskAssignees.replace(tx, taskID, userIDs)
	})
}

func (r *TaskRepository) AssignUser(ctx context.Context, taskID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ref, err := loadTaskRef(tx, taskID)
		if err != nil {
			return err
		}
		if err := checkBoardMembers(tx, ref.BoardID, []uuid.UUID{userID}); err != nil {
			return err
		}
		return taskAssignees.add(tx, taskID, userID)
	})
}

func (r *TaskRepository) UnassignUser(ctx context.Context, taskID, userID uuid.UUID) error {
	affected, err := taskAssignees.remove(r.db.WithContext(ctx), taskID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotAssigned
	}
	return nil
}
