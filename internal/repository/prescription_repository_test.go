package repository_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"

	"github.com/pharmakart/backend/internal/domain"
	"github.com/pharmakart/backend/internal/port"
	"github.com/pharmakart/backend/internal/repository"
)

type prescriptionRepositorySuite struct {
	suite.Suite

	pool      *pgxpool.Pool
	repo      port.PrescriptionRepository
	products  port.ProductRepository
	container testcontainers.Container
}

// entry point to run the tests in the suite
func TestPrescriptionRepositorySuite(t *testing.T) {
	suite.Run(t, new(prescriptionRepositorySuite))
}

// before all tests in the suite
func (suite *prescriptionRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	var (
		connStr string
		err     error
	)

	suite.container, connStr, err = startPostgres(ctx)
	suite.NoError(err)

	suite.pool, err = connectPool(ctx, connStr)
	suite.NoError(err)

	suite.repo = repository.NewPrescription(suite.pool)
	suite.products = repository.NewProduct(suite.pool)
}

// after all tests in the suite
func (suite *prescriptionRepositorySuite) TearDownSuite() {
	ctx := suite.T().Context()

	if suite.pool != nil {
		suite.pool.Close()
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(ctx))
	}
}

func (suite *prescriptionRepositorySuite) TestInsertPrescription() {
	t := suite.T()
	ctx := t.Context()

	prescription := suite.randomPrescription()

	prescriptionID, err := suite.repo.InsertPrescription(ctx, prescription)
	require.NoError(t, err)

	actual, err := suite.repo.GetPrescription(ctx, prescriptionID)
	require.NoError(t, err)

	// Every prescription starts PENDING regardless of the submitted status.
	assert.Equal(t, domain.PrescriptionStatusPending, actual.Status)
	assert.Equal(t, prescription.OwnerID, actual.OwnerID)
	assert.Equal(t, prescription.ProductID, actual.ProductID)
	assert.Equal(t, prescription.DoctorName, actual.DoctorName)

	_, err = suite.repo.InsertPrescription(ctx, domain.Prescription{ProductID: prescription.ProductID})
	require.EqualError(t, err, "ownerID is empty")
}

func (suite *prescriptionRepositorySuite) TestListPrescriptions() {
	t := suite.T()
	ctx := t.Context()

	prescription := suite.randomPrescription()

	_, err := suite.repo.InsertPrescription(ctx, prescription)
	require.NoError(t, err)

	listed, err := suite.repo.ListPrescriptions(ctx, domain.PrescriptionFilter{OwnerID: prescription.OwnerID})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, prescription.ProductID, listed[0].ProductID)

	listed, err = suite.repo.ListPrescriptions(ctx, domain.PrescriptionFilter{OwnerID: "unknown-owner"})
	require.NoError(t, err)
	assert.Empty(t, listed)
}

// TestListPrescriptionsByStatus exercises the review queue: a reviewer pulls
// PENDING prescriptions across all owners, reviewed ones drop out.
func (suite *prescriptionRepositorySuite) TestListPrescriptionsByStatus() {
	t := suite.T()
	ctx := t.Context()

	pending := suite.randomPrescription()
	reviewed := suite.randomPrescription()

	_, err := suite.repo.InsertPrescription(ctx, pending)
	require.NoError(t, err)

	reviewedID, err := suite.repo.InsertPrescription(ctx, reviewed)
	require.NoError(t, err)
	require.NoError(t, suite.repo.UpdatePrescriptionStatus(ctx, reviewedID, domain.PrescriptionStatusApproved))

	queue, err := suite.repo.ListPrescriptions(ctx, domain.PrescriptionFilter{Status: domain.PrescriptionStatusPending})
	require.NoError(t, err)
	for _, p := range queue {
		assert.Equal(t, domain.PrescriptionStatusPending, p.Status)
	}
	require.Contains(t, ownerIDs(queue), pending.OwnerID)
	assert.NotContains(t, ownerIDs(queue), reviewed.OwnerID)

	// Both fields combine.
	listed, err := suite.repo.ListPrescriptions(ctx, domain.PrescriptionFilter{
		OwnerID: reviewed.OwnerID,
		Status:  domain.PrescriptionStatusApproved,
	})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, reviewedID, listed[0].ID)

	listed, err = suite.repo.ListPrescriptions(ctx, domain.PrescriptionFilter{
		OwnerID: reviewed.OwnerID,
		Status:  domain.PrescriptionStatusRejected,
	})
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func ownerIDs(prescriptions []domain.Prescription) []string {
	ids := make([]string, 0, len(prescriptions))
	for _, p := range prescriptions {
		ids = append(ids, p.OwnerID)
	}
	return ids
}

// TestHasApproved walks a prescription through review and watches the gate
// open only on approval.
func (suite *prescriptionRepositorySuite) TestHasApproved() {
	t := suite.T()
	ctx := t.Context()

	prescription := suite.randomPrescription()

	prescriptionID, err := suite.repo.InsertPrescription(ctx, prescription)
	require.NoError(t, err)

	approved, err := suite.repo.HasApproved(ctx, prescription.OwnerID, prescription.ProductID)
	require.NoError(t, err)
	assert.False(t, approved)

	require.NoError(t, suite.repo.UpdatePrescriptionStatus(ctx, prescriptionID, domain.PrescriptionStatusApproved))

	approved, err = suite.repo.HasApproved(ctx, prescription.OwnerID, prescription.ProductID)
	require.NoError(t, err)
	assert.True(t, approved)

	// A different owner is not covered by someone else's prescription.
	approved, err = suite.repo.HasApproved(ctx, gofakeit.UUID(), prescription.ProductID)
	require.NoError(t, err)
	assert.False(t, approved)
}

func (suite *prescriptionRepositorySuite) TestUpdatePrescriptionStatus() {
	t := suite.T()
	ctx := t.Context()

	err := suite.repo.UpdatePrescriptionStatus(ctx, uuid.New(), domain.PrescriptionStatusRejected)
	require.ErrorIs(t, err, domain.ErrPrescriptionNotFound)
}

func (suite *prescriptionRepositorySuite) randomPrescription() domain.Prescription {
	ctx := suite.T().Context()

	productID, err := suite.products.InsertProduct(ctx, randomProduct())
	suite.NoError(err)

	return domain.Prescription{
		OwnerID:    gofakeit.UUID(),
		ProductID:  productID,
		DoctorName: gofakeit.Name(),
		Notes:      gofakeit.Sentence(5),
	}
}
