package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/pharmakart/backend/internal/domain"
	"github.com/pharmakart/backend/internal/port"
	"github.com/pharmakart/backend/internal/service"
)

type PrescriptionHandler struct {
	prescriptions *service.PrescriptionService
	guard         port.AccessGuard
}

func NewPrescriptionHandler(prescriptions *service.PrescriptionService, guard port.AccessGuard) *PrescriptionHandler {
	return &PrescriptionHandler{prescriptions: prescriptions, guard: guard}
}

type submitPrescriptionRequest struct {
	ProductID  string `json:"product_id" binding:"required"`
	DoctorName string `json:"doctor_name" binding:"required"`
	Notes      string `json:"notes"`
}

type reviewPrescriptionRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *PrescriptionHandler) Submit(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req submitPrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	prescription, err := h.prescriptions.Submit(c.Request.Context(), domain.Prescription{
		OwnerID:    user.ID,
		ProductID:  productID,
		DoctorName: req.DoctorName,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toPrescriptionResponse(prescription))
}

func (h *PrescriptionHandler) List(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	filter := domain.PrescriptionFilter{OwnerID: user.ID}
	if user.IsAdmin() {
		// An admin sees every owner unless one is named; combined with
		// status=PENDING this is the review queue.
		filter.OwnerID = c.Query("owner_id")
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status, err := domain.ToPrescriptionStatus(statusStr)
		if err != nil {
			respondBadRequest(c, err)
			return
		}
		filter.Status = status
	}

	prescriptions, err := h.prescriptions.ListPrescriptions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, lo.Map(prescriptions, func(p domain.Prescription, _ int) prescriptionResponse {
		return toPrescriptionResponse(p)
	}))
}

func (h *PrescriptionHandler) Get(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	prescriptionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	prescription, err := h.prescriptions.GetPrescription(c.Request.Context(), prescriptionID)
	if err != nil {
		respondError(c, err)
		return
	}

	if !h.guard.IsOwner(user, prescription.OwnerID) {
		respondForbidden(c)
		return
	}

	c.JSON(http.StatusOK, toPrescriptionResponse(prescription))
}

// Review is admin-only and settles a PENDING prescription either way.
func (h *PrescriptionHandler) Review(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	if !user.IsAdmin() {
		respondForbidden(c)
		return
	}

	prescriptionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	var req reviewPrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	status, err := domain.ToPrescriptionStatus(req.Status)
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	prescription, err := h.prescriptions.Review(c.Request.Context(), prescriptionID, status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPrescriptionResponse(prescription))
}

func (h *PrescriptionHandler) currentUser(c *gin.Context) (domain.UserRef, bool) {
	user, err := h.guard.CurrentUser(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return domain.UserRef{}, false
	}
	return user, true
}
