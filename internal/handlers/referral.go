package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/partner-portal/internal/apperr"
	"github.com/example/partner-portal/internal/models"
	"github.com/example/partner-portal/internal/services"
)

// ReferralHandler exposes the referral linker. Creation and updates go
// through the service; reads join the attributed partner in.
type ReferralHandler struct {
	db        *gorm.DB
	referrals *services.ReferralService
}

// NewReferralHandler constructs a ReferralHandler.
func NewReferralHandler(db *gorm.DB, referrals *services.ReferralService) *ReferralHandler {
	return &ReferralHandler{db: db, referrals: referrals}
}

type createReferralRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	StoreName    string `json:"store_name"`
	Website      string `json:"website"`
	Phone        string `json:"phone"`
	Country      string `json:"country"`
	City         string `json:"city"`
	Platform     string `json:"platform"`
	Status       string `json:"status"`
	ReferralCode string `json:"referral_code"`
}

// CreateReferral submits a referral, optionally attributed via a partner's
// reference code.
func (h *ReferralHandler) CreateReferral(c *fiber.Ctx) error {
	var req createReferralRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	referral, err := h.referrals.Create(c.Context(), services.ReferralInput{
		Name:         req.Name,
		Email:        req.Email,
		StoreName:    req.StoreName,
		Website:      req.Website,
		Phone:        req.Phone,
		Country:      req.Country,
		City:         req.City,
		Platform:     req.Platform,
		Status:       req.Status,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"message":    "Referral created successfully",
		"referralId": referral.ID,
	})
}

// referralRow is a referral joined with the attributed partner, when the
// reference code still resolves.
type referralRow struct {
	models.Referral
	PartnerName  *string `json:"partner_name,omitempty"`
	PartnerEmail *string `json:"partner_email,omitempty"`
}

// ListReferrals returns all referrals with partner attribution resolved at
// read time.
func (h *ReferralHandler) ListReferrals(c *fiber.Ctx) error {
	var rows []referralRow
	err := h.db.Model(&models.Referral{}).
		Select("referrals.*, partners.name AS partner_name, partners.email AS partner_email").
		Joins("LEFT JOIN partners ON partners.reference_code = referrals.referral_code").
		Order("referrals.created_at desc").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Referrals fetched successfully",
		"data":    rows,
	})
}

// GetReferral returns a single referral with partner attribution.
func (h *ReferralHandler) GetReferral(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var row referralRow
	res := h.db.Model(&models.Referral{}).
		Select("referrals.*, partners.name AS partner_name, partners.email AS partner_email").
		Joins("LEFT JOIN partners ON partners.reference_code = referrals.referral_code").
		Where("referrals.id = ?", id).
		Scan(&row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.CodeNotFound, "referral not found")
	}

	return c.JSON(fiber.Map{"success": true, "data": row})
}

// UpdateReferral applies an allow-listed patch and reports whether the
// status changed, which drives notification fan-out in the service.
func (h *ReferralHandler) UpdateReferral(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var patch services.ReferralPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.referrals.Update(c.Context(), id, patch)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"message":       "Referral updated successfully",
		"statusChanged": result.StatusChanged,
	})
}

// DeleteReferral removes a referral.
func (h *ReferralHandler) DeleteReferral(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	res := h.db.Delete(&models.Referral{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.CodeNotFound, "referral not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Referral deleted successfully"})
}
