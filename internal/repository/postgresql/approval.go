package postgresql

import (
	"context"
	"fmt"

	"github.com/kintai-hq/kintai-backend-go/internal/domain/leave"
	"github.com/kintai-hq/kintai-backend-go/internal/pkg/database"
)

type approvalRepository struct {
	db *database.DB
}

func NewApprovalRepository(db *database.DB) leave.ApprovalRepository {
	return &approvalRepository{db: db}
}

// Create implements leave.ApprovalRepository.
func (a *approvalRepository) Create(ctx context.Context, approval leave.Approval) (leave.Approval, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO approvals (id, subject_type, subject_id, status, actor_id, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		approval.ID, approval.SubjectType, approval.SubjectID,
		approval.Status, approval.ActorID, approval.Comment,
	).Scan(&approval.CreatedAt)
	if err != nil {
		return leave.Approval{}, fmt.Errorf("failed to create approval entry: %w", err)
	}
	return approval, nil
}

// ListBySubject implements leave.ApprovalRepository.
func (a *approvalRepository) ListBySubject(ctx context.Context, subjectType, subjectID string) ([]leave.Approval, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, subject_type, subject_id, status, actor_id, comment, created_at
		FROM approvals
		WHERE subject_type = $1 AND subject_id = $2
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, subjectType, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approval entries: %w", err)
	}
	defer rows.Close()

	var approvals []leave.Approval
	for rows.Next() {
		var entry leave.Approval
		if err := rows.Scan(
			&entry.ID, &entry.SubjectType, &entry.SubjectID,
			&entry.Status, &entry.ActorID, &entry.Comment, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan approval entry: %w", err)
		}
		approvals = append(approvals, entry)
	}
	return approvals, rows.Err()
}
