package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type PrescriptionStatus string

const (
	PrescriptionStatusPending  PrescriptionStatus = "PENDING"
	PrescriptionStatusApproved PrescriptionStatus = "APPROVED"
	PrescriptionStatusRejected PrescriptionStatus = "REJECTED"
)

var validPrescriptionStatuses = map[PrescriptionStatus]struct{}{
	PrescriptionStatusPending:  {},
	PrescriptionStatusApproved: {},
	PrescriptionStatusRejected: {},
}

func ToPrescriptionStatus(s string) (PrescriptionStatus, error) {
	status := PrescriptionStatus(s)
	if _, ok := validPrescriptionStatuses[status]; ok {
		return status, nil
	}

	return "", errors.New("invalid prescription status")
}

// PrescriptionFilter narrows a listing, empty fields match everything.
// Status PENDING is the review queue.
type PrescriptionFilter struct {
	OwnerID string
	Status  PrescriptionStatus
}

// Prescription gates purchase of prescription-only products. Only an
// APPROVED prescription for the same (owner, product) pair lifts the gate.
type Prescription struct {
	ID         uuid.UUID
	OwnerID    string
	ProductID  uuid.UUID
	Status     PrescriptionStatus
	DoctorName string
	Notes      string

	CreatedAt time.Time
	UpdatedAt time.Time
}
