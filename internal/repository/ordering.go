package repository

import (
	"bytes"
	"slices"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderScope is a set of sibling rows sharing one position sequence, e.g. the
// columns of a board or the tasks of a column. Positions inside a scope are
// kept dense: 1..n with no gaps.
//
// All methods expect to run inside a transaction. Reading the siblings first
// locks the parent row (the board or column), the same lock an insert into
// the scope takes, and then the sibling rows with SELECT ... FOR UPDATE. A
// row cannot join the scope between the read and the rewrite. Rewrites go through a parking phase (negative positions)
// so the unique (scope, position) index never sees a transient duplicate.
type orderScope struct {
	table  string
	column string
	parent string
	id     uuid.UUID
}

func boardColumns(boardID uuid.UUID) orderScope {
	return orderScope{table: "columns", column: "board_id", parent: "boards", id: boardID}
}

func boardProjects(boardID uuid.UUID) orderScope {
	return orderScope{table: "projects", column: "board_id", parent: "boards", id: boardID}
}

func columnTasks(columnID uuid.UUID) orderScope {
	return orderScope{table: "tasks", column: "column_id", parent: "columns", id: columnID}
}

func (s orderScope) query(tx *gorm.DB) *gorm.DB {
	return tx.Table(s.table).Where(s.column+" = ?", s.id)
}

// lockParent takes the row lock on the row owning the scope. A missing
// parent is not an error here; callers have already resolved it.
func (s orderScope) lockParent(tx *gorm.DB) error {
	var ids []uuid.UUID
	return tx.Table(s.parent).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", s.id).
		Pluck("id", &ids).Error
}

// siblings locks the parent and the rows of the scope and returns their ids
// in order.
func (s orderScope) siblings(tx *gorm.DB) ([]uuid.UUID, error) {
	if err := s.lockParent(tx); err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	err := s.query(tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("position").Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

// next returns the position for a row appended to the scope.
func (s orderScope) next(tx *gorm.DB) (int, error) {
	var positions []int
	err := s.query(tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("position").
		Pluck("position", &positions).Error
	if err != nil {
		return 0, err
	}
	if len(positions) == 0 {
		return 1, nil
	}
	return positions[len(positions)-1] + 1, nil
}

// move places id at the zero-based index among its siblings. An index past
// the end moves the row to the end.
func (s orderScope) move(tx *gorm.DB, id uuid.UUID, index int) error {
	if index < 0 {
		return ErrInvalidPosition
	}
	ids, err := s.siblings(tx)
	if err != nil {
		return err
	}
	from := slices.Index(ids, id)
	if from < 0 {
		return ErrInvalidPosition
	}
	ids = slices.Delete(ids, from, from+1)
	ids = slices.Insert(ids, min(index, len(ids)), id)
	return s.renumber(tx, ids)
}

// moveTo moves id from s into dst at the zero-based index and compacts s.
func (s orderScope) moveTo(tx *gorm.DB, dst orderScope, id uuid.UUID, index int) error {
	if s == dst {
		return s.move(tx, id, index)
	}
	if index < 0 {
		return ErrInvalidPosition
	}

	// Lock both scopes, parents included, in id order so opposite moves cannot
	// deadlock.
	var src, target []uuid.UUID
	var err error
	if bytes.Compare(s.id[:], dst.id[:]) <= 0 {
		if src, err = s.siblings(tx); err == nil {
			target, err = dst.siblings(tx)
		}
	} else {
		if target, err = dst.siblings(tx); err == nil {
			src, err = s.siblings(tx)
		}
	}
	if err != nil {
		return err
	}

	from := slices.Index(src, id)
	if from < 0 {
		return ErrInvalidPosition
	}
	src = slices.Delete(src, from, from+1)
	target = slices.Insert(target, min(index, len(target)), id)

	if err := s.park(tx); err != nil {
		return err
	}
	if err := dst.park(tx); err != nil {
		return err
	}
	if err := s.assign(tx, src); err != nil {
		return err
	}
	return dst.assign(tx, target)
}

// reorder applies a complete ordering supplied by the caller. ids must be a
// permutation of the current siblings.
func (s orderScope) reorder(tx *gorm.DB, ids []uuid.UUID) error {
	current, err := s.siblings(tx)
	if err != nil {
		return err
	}
	if len(current) != len(ids) {
		return ErrInvalidPosition
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || !slices.Contains(current, id) {
			return ErrInvalidPosition
		}
		seen[id] = struct{}{}
	}
	return s.renumber(tx, ids)
}

// compact closes the gaps left by deleted rows.
func (s orderScope) compact(tx *gorm.DB) error {
	ids, err := s.siblings(tx)
	if err != nil {
		return err
	}
	return s.renumber(tx, ids)
}

func (s orderScope) renumber(tx *gorm.DB, ids []uuid.UUID) error {
	if err := s.park(tx); err != nil {
		return err
	}
	return s.assign(tx, ids)
}

func (s orderScope) park(tx *gorm.DB) error {
	return s.query(tx).UpdateColumn("position", gorm.Expr("-1 - position")).Error
}

func (s orderScope) assign(tx *gorm.DB, ids []uuid.UUID) error {
	for i, id := range ids {
		err := tx.Table(s.table).Where("id = ?", id).UpdateColumns(map[string]interface{}{
			s.column:   s.id,
			"position": i + 1,
		}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
