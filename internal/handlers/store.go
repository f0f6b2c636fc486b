package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/partner-portal/internal/apperr"
	"github.com/example/partner-portal/internal/models"
)

// StoreHandler manages stores attached to approved partners.
type StoreHandler struct {
	db *gorm.DB
}

// NewStoreHandler constructs a StoreHandler.
func NewStoreHandler(db *gorm.DB) *StoreHandler {
	return &StoreHandler{db: db}
}

// storeRow is a store joined with its owning partner's identity.
type storeRow struct {
	models.Store
	PartnerName  string `json:"partner_name"`
	PartnerEmail string `json:"partner_email"`
}

type createStoreRequest struct {
	PartnerID      string  `json:"partner_id"`
	StoreName      string  `json:"store_name"`
	StoreOwner     string  `json:"store_owner"`
	Platform       string  `json:"platform"`
	Earning        float64 `json:"earning"`
	TotalValue     float64 `json:"total_value"`
	Status         string  `json:"status"`
	InactiveReason string  `json:"inactive_reason"`
}

// CreateStore attaches a store to an approved partner.
func (h *StoreHandler) CreateStore(c *fiber.Ctx) error {
	var req createStoreRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.PartnerID == "" || req.StoreName == "" || req.StoreOwner == "" || req.Platform == "" {
		return apperr.New(apperr.CodeValidation, "partner_id, store_name, store_owner, and platform are required")
	}

	partnerID, err := uuid.Parse(req.PartnerID)
	if err != nil {
		return apperr.New(apperr.CodeValidation, "partner_id must be a valid uuid")
	}

	var partner models.Partner
	if err := h.db.First(&partner, "id = ?", partnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.CodeNotFound, "partner not found")
		}
		return err
	}
	if partner.Status != models.PartnerApproved {
		return apperr.New(apperr.CodeValidation,
			fmt.Sprintf("partner is not approved (current status: %s)", partner.Status))
	}

	status := req.Status
	if status == "" {
		status = models.StoreActive
	}

	store := models.Store{
		PartnerID:      partnerID,
		StoreName:      req.StoreName,
		StoreOwner:     req.StoreOwner,
		Platform:       req.Platform,
		Earning:        req.Earning,
		TotalValue:     req.TotalValue,
		Status:         status,
		InactiveReason: req.InactiveReason,
	}
	if err := h.db.Create(&store).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Store created successfully",
		"storeId": store.ID,
	})
}

// ListStores returns all stores with their partner's name and email.
func (h *StoreHandler) ListStores(c *fiber.Ctx) error {
	var rows []storeRow
	err := h.db.Model(&models.Store{}).
		Select("stores.*, partners.name AS partner_name, partners.email AS partner_email").
		Joins("JOIN partners ON partners.id = stores.partner_id").
		Order("stores.created_at desc").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Stores fetched successfully",
		"data":    rows,
	})
}

// GetStore returns a single store with partner identity.
func (h *StoreHandler) GetStore(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var row storeRow
	res := h.db.Model(&models.Store{}).
		Select("stores.*, partners.name AS partner_name, partners.email AS partner_email").
		Joins("JOIN partners ON partners.id = stores.partner_id").
		Where("stores.id = ?", id).
		Scan(&row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.CodeNotFound, "store not found")
	}

	return c.JSON(fiber.Map{"success": true, "data": row})
}

// GetStoresByPartner returns all stores belonging to one partner.
func (h *StoreHandler) GetStoresByPartner(c *fiber.Ctx) error {
	partnerID, err := uuid.Parse(c.Params("partnerId"))
	if err != nil {
		return apperr.New(apperr.CodeValidation, "partnerId must be a valid uuid")
	}

	var stores []models.Store
	if err := h.db.Where("partner_id = ?", partnerID).Order("created_at desc").Find(&stores).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Stores fetched successfully",
		"data":    stores,
	})
}

type storePatch struct {
	StoreName      *string  `json:"store_name"`
	StoreOwner     *string  `json:"store_owner"`
	Platform       *string  `json:"platform"`
	Earning        *float64 `json:"earning"`
	TotalValue     *float64 `json:"total_value"`
	Status         *string  `json:"status"`
	InactiveReason *string  `json:"inactive_reason"`
}

func (p storePatch) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.StoreName != nil {
		cols["store_name"] = *p.StoreName
	}
	if p.StoreOwner != nil {
		cols["store_owner"] = *p.StoreOwner
	}
	if p.Platform != nil {
		cols["platform"] = *p.Platform
	}
	if p.Earning != nil {
		cols["earning"] = *p.Earning
	}
	if p.TotalValue != nil {
		cols["total_value"] = *p.TotalValue
	}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	if p.InactiveReason != nil {
		cols["inactive_reason"] = *p.InactiveReason
	}
	return cols
}

// UpdateStore applies an allow-listed patch. The owning partner cannot be
// reassigned.
func (h *StoreHandler) UpdateStore(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var patch storePatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	cols := patch.columns()
	if len(cols) == 0 {
		return apperr.New(apperr.CodeValidation, "at least one field is required")
	}

	res := h.db.Model(&models.Store{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.CodeNotFound, "store not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Store updated successfully"})
}

// DeleteStore removes a store.
func (h *StoreHandler) DeleteStore(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	res := h.db.Delete(&models.Store{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.CodeNotFound, "store not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Store deleted successfully"})
}
