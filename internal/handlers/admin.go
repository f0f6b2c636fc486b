package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/partner-portal/internal/apperr"
	"github.com/example/partner-portal/internal/models"
	"github.com/example/partner-portal/internal/utils"
)

// AdminHandler manages back-office accounts.
type AdminHandler struct {
	db *gorm.DB
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// ListAdmins returns all admin accounts.
func (h *AdminHandler) ListAdmins(c *fiber.Ctx) error {
	var admins []models.Admin
	if err := h.db.Order("created_at desc").Find(&admins).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Admins fetched successfully",
		"data":    admins,
	})
}

// GetAdmin returns a single admin by id.
func (h *AdminHandler) GetAdmin(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var admin models.Admin
	if err := h.db.First(&admin, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.CodeNotFound, "admin not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": admin})
}

type createAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Profile  string `json:"profile"`
	Role     string `json:"role"`
}

// CreateAdmin inserts a new admin account. Reachable by super_admin only; the
// email must be unused across both principal tables.
func (h *AdminHandler) CreateAdmin(c *fiber.Ctx) error {
	var req createAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperr.New(apperr.CodeValidation, "name, email, and password are required")
	}

	role := req.Role
	if role == "" {
		role = models.RoleAdmin
	}
	if role != models.RoleAdmin && role != models.RoleSuperAdmin {
		return apperr.New(apperr.CodeValidation, "role must be admin or super_admin")
	}

	if err := h.checkEmailAvailable(req.Email, uuid.Nil); err != nil {
		return err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return apperr.Wrap(apperr.CodeServer, "failed to hash password", err)
	}

	admin := models.Admin{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Profile:      req.Profile,
		Role:         role,
	}
	if err := h.db.Create(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.New(apperr.CodeDuplicateEmail, "email already registered")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Admin created successfully",
		"adminId": admin.ID,
	})
}

type adminPatch struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Profile  *string `json:"profile"`
	Role     *string `json:"role"`
}

// UpdateAdmin applies an allow-listed patch; a password in the patch is
// re-hashed before storage.
func (h *AdminHandler) UpdateAdmin(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req adminPatch
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	cols := map[string]interface{}{}
	if req.Name != nil {
		cols["name"] = *req.Name
	}
	if req.Email != nil {
		if err := h.checkEmailAvailable(*req.Email, id); err != nil {
			return err
		}
		cols["email"] = *req.Email
	}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return apperr.Wrap(apperr.CodeServer, "failed to hash password", err)
		}
		cols["password"] = hash
	}
	if req.Profile != nil {
		cols["profile"] = *req.Profile
	}
	if req.Role != nil {
		if *req.Role != models.RoleAdmin && *req.Role != models.RoleSuperAdmin {
			return apperr.New(apperr.CodeValidation, "role must be admin or super_admin")
		}
		cols["role"] = *req.Role
	}

	if len(cols) == 0 {
		return apperr.New(apperr.CodeValidation, "at least one field is required")
	}

	res := h.db.Model(&models.Admin{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return apperr.New(apperr.CodeDuplicateEmail, "email already registered")
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.CodeNotFound, "admin not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Admin updated successfully"})
}

// DeleteAdmin removes an admin account.
func (h *AdminHandler) DeleteAdmin(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	res := h.db.Delete(&models.Admin{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.CodeNotFound, "admin not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Admin deleted successfully"})
}

func (h *AdminHandler) checkEmailAvailable(email string, selfID uuid.UUID) error {
	var adminCount int64
	if err := h.db.Model(&models.Admin{}).Where("email = ? AND id != ?", email, selfID).Count(&adminCount).Error; err != nil {
		return err
	}
	if adminCount > 0 {
		return apperr.New(apperr.CodeDuplicateEmail, "email already registered")
	}

	var partnerCount int64
	if err := h.db.Model(&models.Partner{}).Where("email = ?", email).Count(&partnerCount).Error; err != nil {
		return err
	}
	if partnerCount > 0 {
		return apperr.New(apperr.CodeDuplicateEmail, "this email is already registered as a partner")
	}

	return nil
}
