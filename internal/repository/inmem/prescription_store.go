package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pharmakart/backend/internal/domain"
)

type PrescriptionStore struct {
	mu            sync.RWMutex
	prescriptions map[uuid.UUID]domain.Prescription
}

func NewPrescriptionStore() *PrescriptionStore {
	return &PrescriptionStore{
		prescriptions: make(map[uuid.UUID]domain.Prescription),
	}
}

func (s *PrescriptionStore) GetPrescription(_ context.Context, prescriptionID uuid.UUID) (domain.Prescription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prescription, ok := s.prescriptions[prescriptionID]
	if !ok {
		return domain.Prescription{}, domain.ErrPrescriptionNotFound
	}

	return prescription, nil
}

func (s *PrescriptionStore) ListPrescriptions(_ context.Context, filter domain.PrescriptionFilter) ([]domain.Prescription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var prescriptions []domain.Prescription
	for _, prescription := range s.prescriptions {
		if filter.OwnerID != "" && prescription.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Status != "" && prescription.Status != filter.Status {
			continue
		}
		prescriptions = append(prescriptions, prescription)
	}

	return prescriptions, nil
}

func (s *PrescriptionStore) HasApproved(_ context.Context, ownerID string, productID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, prescription := range s.prescriptions {
		if prescription.OwnerID == ownerID &&
			prescription.ProductID == productID &&
			prescription.Status == domain.PrescriptionStatusApproved {
			return true, nil
		}
	}

	return false, nil
}

func (s *PrescriptionStore) InsertPrescription(_ context.Context, prescription domain.Prescription) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prescription.ID = uuid.New()
	prescription.Status = domain.PrescriptionStatusPending
	now := time.Now()
	prescription.CreatedAt = now
	prescription.UpdatedAt = now

	s.prescriptions[prescription.ID] = prescription

	return prescription.ID, nil
}

func (s *PrescriptionStore) UpdatePrescriptionStatus(_ context.Context, prescriptionID uuid.UUID, status domain.PrescriptionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prescription, ok := s.prescriptions[prescriptionID]
	if !ok {
		return domain.ErrPrescriptionNotFound
	}

	prescription.Status = status
	prescription.UpdatedAt = time.Now()
	s.prescriptions[prescriptionID] = prescription

	return nil
}
