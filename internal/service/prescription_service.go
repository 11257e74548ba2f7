package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pharmakart/backend/internal/domain"
	"github.com/pharmakart/backend/internal/port"
)

type PrescriptionService struct {
	prescriptions port.PrescriptionRepository
	products      port.ProductRepository
}

func NewPrescription(prescriptions port.PrescriptionRepository, products port.ProductRepository) *PrescriptionService {
	return &PrescriptionService{
		prescriptions: prescriptions,
		products:      products,
	}
}

func (s *PrescriptionService) GetPrescription(ctx context.Context, prescriptionID uuid.UUID) (domain.Prescription, error) {
	prescription, err := s.prescriptions.GetPrescription(ctx, prescriptionID)
	if err != nil {
		return domain.Prescription{}, fmt.Errorf("prescriptions.GetPrescription: %w", err)
	}

	return prescription, nil
}

func (s *PrescriptionService) ListPrescriptions(ctx context.Context, filter domain.PrescriptionFilter) ([]domain.Prescription, error) {
	prescriptions, err := s.prescriptions.ListPrescriptions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("prescriptions.ListPrescriptions: %w", err)
	}

	return prescriptions, nil
}

// Submit files a prescription for review. It starts PENDING, only review
// moves it on.
func (s *PrescriptionService) Submit(ctx context.Context, prescription domain.Prescription) (domain.Prescription, error) {
	var p domain.Prescription

	if _, err := s.products.GetProduct(ctx, prescription.ProductID); err != nil {
		return p, fmt.Errorf("products.GetProduct: %w", err)
	}

	prescriptionID, err := s.prescriptions.InsertPrescription(ctx, prescription)
	if err != nil {
		return p, fmt.Errorf("prescriptions.InsertPrescription: %w", err)
	}

	return s.GetPrescription(ctx, prescriptionID)
}

// Review approves or rejects a pending prescription.
func (s *PrescriptionService) Review(ctx context.Context, prescriptionID uuid.UUID, status domain.PrescriptionStatus) (domain.Prescription, error) {
	var p domain.Prescription

	if status != domain.PrescriptionStatusApproved && status != domain.PrescriptionStatusRejected {
		return p, fmt.Errorf("review status must be APPROVED or REJECTED: %s", status)
	}

	prescription, err := s.prescriptions.GetPrescription(ctx, prescriptionID)
	if err != nil {
		return p, fmt.Errorf("prescriptions.GetPrescription: %w", err)
	}

	if prescription.Status != domain.PrescriptionStatusPending {
		return p, fmt.Errorf("%s -> %s: %w", prescription.Status, status, domain.ErrInvalidTransition)
	}

	if err := s.prescriptions.UpdatePrescriptionStatus(ctx, prescriptionID, status); err != nil {
		return p, fmt.Errorf("prescriptions.UpdatePrescriptionStatus: %w", err)
	}

	prescription.Status = status

	return prescription, nil
}
