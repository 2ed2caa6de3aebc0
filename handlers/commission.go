package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	commissionRepo "santai/database/repository/commission"
	"santai/services/commission"
	"santai/services/storage"
	"santai/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CommissionHandler serves the commission lifecycle endpoints.
type CommissionHandler struct {
	Lifecycle commission.LifecycleService
	Storage   storage.StorageService
	Logger    *zap.Logger
}

func NewCommissionHandler(lifecycle commission.LifecycleService, storageSvc storage.StorageService, logger *zap.Logger) *CommissionHandler {
	return &CommissionHandler{
		Lifecycle: lifecycle,
		Storage:   storageSvc,
		Logger:    logger,
	}
}

// SubmitProofHandler accepts a multipart proof image, uploads it to the blob
// store and runs the guarded submit transition. The caller must own the
// commission record (or be an admin).
func (h *CommissionHandler) SubmitProofHandler(c *gin.Context) {
	commissionID := c.Param("id")

	rec, err := h.Lifecycle.GetByID(c.Request.Context(), commissionID)
	if err != nil {
		if errors.Is(err, commissionRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Commission record not found", commissionID)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load commission record", err.Error())
		return
	}
	if callerID := c.GetString("providerID"); !c.GetBool("isAdmin") && callerID != rec.ProviderID {
		utils.JSONError(c, http.StatusForbidden, "Not your commission record", "")
		return
	}

	file, err := c.FormFile("proof")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Missing proof image", err.Error())
		return
	}
	method := c.PostForm("paymentMethod")
	if method == "" {
		method = "bank_transfer"
	}

	// Spool the upload to disk for the blob client, then clean up.
	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("proof-%s%s", uuid.New().String(), filepath.Ext(file.Filename)))
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to receive proof image", err.Error())
		return
	}
	defer os.Remove(tmpPath)

	proofRef, err := h.Storage.UploadFile(c.Request.Context(), tmpPath, "payment_proofs")
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Failed to store proof image", err.Error())
		return
	}

	updated, err := h.Lifecycle.SubmitProof(c.Request.Context(), commissionID, proofRef, method)
	if err != nil {
		switch {
		case errors.Is(err, commission.ErrAlreadySubmitted):
			c.JSON(http.StatusConflict, gin.H{
				"error":  "already_submitted",
				"detail": "Payment proof already submitted and awaiting admin verification. Please wait for approval.",
			})
		case errors.Is(err, commission.ErrAlreadyVerified):
			c.JSON(http.StatusConflict, gin.H{
				"error":  "already_verified",
				"detail": "This commission has already been verified. No further uploads are allowed.",
			})
		default:
			utils.JSONError(c, http.StatusInternalServerError, "Failed to submit payment proof", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"commission": updated})
}

// VerifyHandler records the admin decision on a submitted proof.
func (h *CommissionHandler) VerifyHandler(c *gin.Context) {
	commissionID := c.Param("id")
	adminID := c.GetString("adminID")

	var input struct {
		Approved bool   `json:"approved"`
		Reason   string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid verification payload", err.Error())
		return
	}
	if !input.Approved && input.Reason == "" {
		utils.JSONError(c, http.StatusBadRequest, "Rejection requires a reason", "")
		return
	}

	updated, err := h.Lifecycle.Verify(c.Request.Context(), commissionID, adminID, input.Approved, input.Reason)
	if err != nil {
		switch {
		case errors.Is(err, commissionRepo.ErrNotFound):
			utils.JSONError(c, http.StatusNotFound, "Commission record not found", commissionID)
		case errors.Is(err, commission.ErrInvalidTransition):
			utils.JSONError(c, http.StatusConflict, "Record is not awaiting verification", err.Error())
		case errors.Is(err, commissionRepo.ErrConcurrentModification):
			utils.JSONError(c, http.StatusConflict, "Record was modified concurrently, re-check its state", err.Error())
		default:
			utils.JSONError(c, http.StatusInternalServerError, "Failed to verify payment", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"commission": updated})
}

// ProofURLHandler returns a short-lived signed URL for a proof image shown
// in the admin verification view.
func (h *CommissionHandler) ProofURLHandler(c *gin.Context) {
	commissionID := c.Param("id")

	rec, err := h.Lifecycle.GetByID(c.Request.Context(), commissionID)
	if err != nil {
		if errors.Is(err, commissionRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Commission record not found", commissionID)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load commission record", err.Error())
		return
	}
	if rec.ProofRef == "" {
		utils.JSONError(c, http.StatusNotFound, "No proof uploaded for this record", "")
		return
	}

	url, err := h.Storage.GetSecureDownloadURL(c.Request.Context(), rec.ProofRef, 15*time.Minute)
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Failed to sign proof URL", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// ListByProviderHandler returns a provider's commission history.
func (h *CommissionHandler) ListByProviderHandler(c *gin.Context) {
	providerID := c.Param("providerId")
	recs, err := h.Lifecycle.ListByProvider(c.Request.Context(), providerID, 50)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list commissions", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"commissions": recs})
}

// AwaitingVerificationHandler returns the admin verification queue.
func (h *CommissionHandler) AwaitingVerificationHandler(c *gin.Context) {
	recs, err := h.Lifecycle.ListAwaitingVerification(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list verification queue", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"commissions": recs})
}
