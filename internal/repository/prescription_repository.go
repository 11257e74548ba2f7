package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pharmakart/backend/internal/db"
	"github.com/pharmakart/backend/internal/domain"
	"github.com/pharmakart/backend/internal/port"
)

type prescriptionRepository struct {
	dbtx db.DBTX
}

func NewPrescription(pool *pgxpool.Pool) port.PrescriptionRepository {
	return &prescriptionRepository{dbtx: pool}
}

const prescriptionColumns = `id, owner_id, product_id, status, doctor_name, notes, created_at, updated_at`

func (r *prescriptionRepository) GetPrescription(ctx context.Context, prescriptionID uuid.UUID) (domain.Prescription, error) {
	row := r.dbtx.QueryRow(ctx,
		`SELECT `+prescriptionColumns+` FROM prescriptions WHERE id = $1`, prescriptionID)

	prescription, err := scanPrescription(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return prescription, domain.ErrPrescriptionNotFound
		}
		return prescription, fmt.Errorf("scanPrescription: %w", err)
	}

	return prescription, nil
}

func (r *prescriptionRepository) ListPrescriptions(ctx context.Context, filter domain.PrescriptionFilter) ([]domain.Prescription, error) {
	rows, err := r.dbtx.Query(ctx,
		`SELECT `+prescriptionColumns+` FROM prescriptions
		 WHERE ($1 = '' OR owner_id = $1)
		   AND ($2 = '' OR status = $2)
		 ORDER BY created_at DESC`,
		filter.OwnerID, string(filter.Status))
	if err != nil {
		return nil, fmt.Errorf("dbtx.Query: %w", err)
	}
	defer rows.Close()

	var prescriptions []domain.Prescription
	for rows.Next() {
		prescription, err := scanPrescription(rows)
		if err != nil {
			return nil, fmt.Errorf("scanPrescription: %w", err)
		}
		prescriptions = append(prescriptions, prescription)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return prescriptions, nil
}

func (r *prescriptionRepository) HasApproved(ctx context.Context, ownerID string, productID uuid.UUID) (bool, error) {
	var approved bool

	err := r.dbtx.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM prescriptions
			WHERE owner_id = $1 AND product_id = $2 AND status = $3
		 )`,
		ownerID, productID, string(domain.PrescriptionStatusApproved)).Scan(&approved)
	if err != nil {
		return false, fmt.Errorf("dbtx.QueryRow: %w", err)
	}

	return approved, nil
}

func (r *prescriptionRepository) InsertPrescription(ctx context.Context, prescription domain.Prescription) (uuid.UUID, error) {
	if prescription.OwnerID == "" {
		return uuid.Nil, fmt.Errorf("ownerID is empty")
	}

	var prescriptionID uuid.UUID

	err := r.dbtx.QueryRow(ctx,
		`INSERT INTO prescriptions (owner_id, product_id, status, doctor_name, notes)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		prescription.OwnerID, prescription.ProductID,
		string(domain.PrescriptionStatusPending),
		prescription.DoctorName, prescription.Notes,
	).Scan(&prescriptionID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("dbtx.QueryRow: %w", err)
	}

	return prescriptionID, nil
}

func (r *prescriptionRepository) UpdatePrescriptionStatus(ctx context.Context, prescriptionID uuid.UUID, status domain.PrescriptionStatus) error {
	if prescriptionID == uuid.Nil {
		return fmt.Errorf("prescriptionID is empty")
	}

	cmdTag, err := r.dbtx.Exec(ctx,
		`UPDATE prescriptions SET status = $2, updated_at = now() WHERE id = $1`,
		prescriptionID, string(status))
	if err != nil {
		return fmt.Errorf("dbtx.Exec: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return domain.ErrPrescriptionNotFound
	}

	return nil
}

func scanPrescription(row pgx.Row) (domain.Prescription, error) {
	var (
		p         domain.Prescription
		statusStr string
	)

	err := row.Scan(&p.ID, &p.OwnerID, &p.ProductID, &statusStr,
		&p.DoctorName, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}

	p.Status, err = domain.ToPrescriptionStatus(statusStr)
	if err != nil {
		return p, fmt.Errorf("domain.ToPrescriptionStatus[%s]: %w", statusStr, err)
	}

	return p, nil
}
