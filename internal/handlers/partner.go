package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/partner-portal/internal/apperr"
	"github.com/example/partner-portal/internal/models"
	"github.com/example/partner-portal/internal/services"
	"github.com/example/partner-portal/internal/utils"
)

// PartnerHandler exposes the partner application lifecycle plus plain reads.
type PartnerHandler struct {
	db       *gorm.DB
	partners *services.PartnerService
}

// NewPartnerHandler constructs a PartnerHandler.
func NewPartnerHandler(db *gorm.DB, partners *services.PartnerService) *PartnerHandler {
	return &PartnerHandler{db: db, partners: partners}
}

type applyRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Description     string `json:"description"`
	Website         string `json:"website"`
	Platform        string `json:"platform"`
	AffiliateHandle string `json:"affiliate_handle"`
	MobilePhone     string `json:"mobile_phone"`
	Organization    string `json:"organization"`
	Country         string `json:"country"`
	City            string `json:"city"`
	AdditionalInfo  string `json:"additional_info"`
}

// Register accepts a self-service partner application.
func (h *PartnerHandler) Register(c *fiber.Ctx) error {
	var req applyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	partner, err := h.partners.Apply(c.Context(), services.ApplyInput{
		Name:            req.Name,
		Email:           req.Email,
		Description:     req.Description,
		Website:         req.Website,
		Platform:        req.Platform,
		AffiliateHandle: req.AffiliateHandle,
		MobilePhone:     req.MobilePhone,
		Organization:    req.Organization,
		Country:         req.Country,
		City:            req.City,
		AdditionalInfo:  req.AdditionalInfo,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":   true,
		"message":   "Partner application submitted successfully",
		"partnerId": partner.ID,
	})
}

// GetAllPartners lists partners with pagination and optional status filter.
func (h *PartnerHandler) GetAllPartners(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Partner{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ? OR email LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var partners []models.Partner
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&partners).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    partners,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetPartner returns a single partner by id.
func (h *PartnerHandler) GetPartner(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var partner models.Partner
	if err := h.db.First(&partner, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.CodeNotFound, "partner not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": partner})
}

type partnerPatch struct {
	Name           *string `json:"name"`
	Organization   *string `json:"organization"`
	Email          *string `json:"email"`
	Description    *string `json:"description"`
	Website        *string `json:"website"`
	Platform       *string `json:"platform"`
	Country        *string `json:"country"`
	City           *string `json:"city"`
	AdditionalInfo *string `json:"additional_info"`
	MobilePhone    *string `json:"mobile_phone"`
	ProfileImage   *string `json:"profile_image"`
}

func (p *partnerPatch) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	set := func(name string, value *string) {
		if value != nil {
			cols[name] = *value
		}
	}
	set("name", p.Name)
	set("organization", p.Organization)
	set("email", p.Email)
	set("description", p.Description)
	set("website", p.Website)
	set("platform", p.Platform)
	set("country", p.Country)
	set("city", p.City)
	set("additional_info", p.AdditionalInfo)
	set("mobile_phone", p.MobilePhone)
	set("profile_image", p.ProfileImage)
	return cols
}

// UpdatePartner applies an allow-listed profile patch. Status, password, and
// reference code are owned by the lifecycle operations and cannot be patched.
func (h *PartnerHandler) UpdatePartner(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req partnerPatch
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	cols := req.columns()
	if len(cols) == 0 {
		return apperr.New(apperr.CodeValidation, "at least one field is required")
	}

	if req.Email != nil {
		if err := h.checkEmailAvailable(*req.Email, id); err != nil {
			return err
		}
	}

	res := h.db.Model(&models.Partner{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return apperr.New(apperr.CodeDuplicateEmail, "email already registered")
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.CodeNotFound, "partner not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Partner updated successfully"})
}

// DeletePartner removes a partner and, through the cascade, its stores and
// payments.
func (h *PartnerHandler) DeletePartner(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	res := h.db.Delete(&models.Partner{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.CodeNotFound, "partner not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Partner deleted successfully"})
}

type partnerIDRequest struct {
	PartnerID string `json:"partnerId"`
}

// ApprovePartner transitions a pending application to approved and returns
// the one-time credentials.
func (h *PartnerHandler) ApprovePartner(c *fiber.Ctx) error {
	var req partnerIDRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.PartnerID == "" {
		return apperr.New(apperr.CodeValidation, "partner ID is required")
	}

	partnerID, err := uuid.Parse(req.PartnerID)
	if err != nil {
		return apperr.New(apperr.CodeValidation, "invalid partner ID")
	}

	res, err := h.partners.Approve(c.Context(), partnerID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"message":       "Partner approved successfully",
		"password":      res.Password,
		"referenceLink": res.ReferenceCode,
	})
}

// RejectPartner transitions a pending application to rejected.
func (h *PartnerHandler) RejectPartner(c *fiber.Ctx) error {
	var req partnerIDRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.PartnerID == "" {
		return apperr.New(apperr.CodeValidation, "partner ID is required")
	}

	partnerID, err := uuid.Parse(req.PartnerID)
	if err != nil {
		return apperr.New(apperr.CodeValidation, "invalid partner ID")
	}

	if err := h.partners.Reject(c.Context(), partnerID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Partner rejected successfully",
	})
}

func (h *PartnerHandler) checkEmailAvailable(email string, selfID uuid.UUID) error {
	var adminCount int64
	if err := h.db.Model(&models.Admin{}).Where("email = ?", email).Count(&adminCount).Error; err != nil {
		return err
	}
	if adminCount > 0 {
		return apperr.New(apperr.CodeDuplicateEmail, "this email is already registered as an admin")
	}

	var partnerCount int64
	if err := h.db.Model(&models.Partner{}).Where("email = ? AND id != ?", email, selfID).Count(&partnerCount).Error; err != nil {
		return err
	}
	if partnerCount > 0 {
		return apperr.New(apperr.CodeDuplicateEmail, "this email is already registered as a partner")
	}

	return nil
}
