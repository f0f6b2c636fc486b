package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/partner-portal/internal/apperr"
	"github.com/example/partner-portal/internal/models"
)

// PaymentHandler manages payout records for partner stores.
type PaymentHandler struct {
	db *gorm.DB
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(db *gorm.DB) *PaymentHandler {
	return &PaymentHandler{db: db}
}

type createPaymentRequest struct {
	PartnerID  string  `json:"partner_id"`
	StoreID    string  `json:"store_id"`
	Amount     float64 `json:"amount"`
	Commission float64 `json:"commission"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Status     string  `json:"status"`
}

// CreatePayment records a payout period. The referenced store must exist and
// belong to the referenced partner.
func (h *PaymentHandler) CreatePayment(c *fiber.Ctx) error {
	var req createPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.PartnerID == "" || req.StoreID == "" || req.Amount <= 0 || req.StartDate == "" || req.EndDate == "" {
		return apperr.New(apperr.CodeValidation, "partner_id, store_id, amount, start_date, and end_date are required")
	}

	partnerID, err := uuid.Parse(req.PartnerID)
	if err != nil {
		return apperr.New(apperr.CodeValidation, "partner_id must be a valid uuid")
	}
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return apperr.New(apperr.CodeValidation, "store_id must be a valid uuid")
	}

	var store models.Store
	if err := h.db.First(&store, "id = ?", storeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.CodeNotFound, "store not found")
		}
		return err
	}
	if store.PartnerID != partnerID {
		return apperr.New(apperr.CodeValidation, "store does not belong to the given partner")
	}

	status := req.Status
	if status == "" {
		status = models.PaymentPaid
	}

	payment := models.StorePayment{
		PartnerID:  partnerID,
		StoreID:    storeID,
		Amount:     req.Amount,
		Commission: req.Commission,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Status:     status,
	}
	if err := h.db.Create(&payment).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":   true,
		"message":   "Payment recorded successfully",
		"paymentId": payment.ID,
	})
}

// ListPayments returns payments, optionally filtered by partner_id or
// store_id query params.
func (h *PaymentHandler) ListPayments(c *fiber.Ctx) error {
	query := h.db.Model(&models.StorePayment{}).Order("created_at desc")

	if partnerID := c.Query("partner_id"); partnerID != "" {
		id, err := uuid.Parse(partnerID)
		if err != nil {
			return apperr.New(apperr.CodeValidation, "partner_id must be a valid uuid")
		}
		query = query.Where("partner_id = ?", id)
	}
	if storeID := c.Query("store_id"); storeID != "" {
		id, err := uuid.Parse(storeID)
		if err != nil {
			return apperr.New(apperr.CodeValidation, "store_id must be a valid uuid")
		}
		query = query.Where("store_id = ?", id)
	}

	var payments []models.StorePayment
	if err := query.Find(&payments).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Payments fetched successfully",
		"data":    payments,
	})
}

// GetPayment returns a single payment record.
func (h *PaymentHandler) GetPayment(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var payment models.StorePayment
	if err := h.db.First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.CodeNotFound, "payment not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": payment})
}

type paymentPatch struct {
	Amount     *float64 `json:"amount"`
	Commission *float64 `json:"commission"`
	StartDate  *string  `json:"start_date"`
	EndDate    *string  `json:"end_date"`
	Status     *string  `json:"status"`
}

func (p paymentPatch) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Amount != nil {
		cols["amount"] = *p.Amount
	}
	if p.Commission != nil {
		cols["commission"] = *p.Commission
	}
	if p.StartDate != nil {
		cols["start_date"] = *p.StartDate
	}
	if p.EndDate != nil {
		cols["end_date"] = *p.EndDate
	}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	return cols
}

// UpdatePayment applies an allow-listed patch. Partner and store references
// are immutable once recorded.
func (h *PaymentHandler) UpdatePayment(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var patch paymentPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	cols := patch.columns()
	if len(cols) == 0 {
		return apperr.New(apperr.CodeValidation, "at least one field is required")
	}

	res := h.db.Model(&models.StorePayment{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.CodeNotFound, "payment not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Payment updated successfully"})
}

// DeletePayment removes a payment record.
func (h *PaymentHandler) DeletePayment(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	res := h.db.Delete(&models.StorePayment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.CodeNotFound, "payment not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Payment deleted successfully"})
}
