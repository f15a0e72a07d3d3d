package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// checkBoardLabels fails with ErrLabelBoardMismatch unless every id names a
// label of the board.
func checkBoardLabels(tx *gorm.DB, boardID uuid.UUID, labelIDs []uuid.UUID) error {
	labelIDs = uniqueIDs(labelIDs)
	if len(labelIDs) == 0 {
		return nil
	}
	var count int64
	err := tx.Table("labels").Where("board_id = ? AND id IN ?", boardID, labelIDs).Count(&count).Error
	if err != nil {
		return err
	}
	if int(count) != len(labelIDs) {
		return ErrLabelBoardMismatch
	}
	return nil
}

// checkBoardMembers fails with ErrNotMember unless every id names a member
// of the board.
func checkBoardMembers(tx *gorm.DB, boardID uuid.UUID, userIDs []uuid.UUID) error {
	userIDs = uniqueIDs(userIDs)
	if len(userIDs) == 0 {
		return nil
	}
	var count int64
	err := tx.Table("board_members").Where("board_id = ? AND user_id IN ?", boardID, userIDs).Count(&count).Error
	if err != nil {
		return err
	}
	if int(count) != len(userIDs) {
		return ErrNotMember
	}
	return nil
}

// link describes one side of a join table, e.g. task_labels seen from tasks.
type link struct {
	table    string
	ownerCol string
	otherCol string
}

var (
	taskLabels    = link{table: "task_labels", ownerCol: "task_id", otherCol: "label_id"}
	taskAssignees = link{table: "task_assignees", ownerCol: "task_id", otherCol: "user_id"}
	projectLabels = link{table: "project_labels", ownerCol: "project_id", otherCol: "label_id"}
)

func (l link) add(tx *gorm.DB, ownerID, otherID uuid.UUID) error {
	return tx.Exec(
		"INSERT INTO "+l.table+" ("+l.ownerCol+", "+l.otherCol+") VALUES (?, ?) ON CONFLICT DO NOTHING",
		ownerID, otherID,
	).Error
}

func (l link) remove(tx *gorm.DB, ownerID, otherID uuid.UUID) (int64, error) {
	result := tx.Exec(
		"DELETE FROM "+l.table+" WHERE "+l.ownerCol+" = ? AND "+l.otherCol+" = ?",
		ownerID, otherID,
	)
	return result.RowsAffected, result.Error
}

// replace makes ids the complete set linked to ownerID.
func (l link) replace(tx *gorm.DB, ownerID uuid.UUID, ids []uuid.UUID) error {
	if err := tx.Exec("DELETE FROM "+l.table+" WHERE "+l.ownerCol+" = ?", ownerID).Error; err != nil {
		return err
	}
	for _, id := range uniqueIDs(ids) {
		if err := l.add(tx, ownerID, id); err != nil {
			return err
		}
	}
	return nil
}
