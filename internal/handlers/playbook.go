package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/partner-portal/internal/apperr"
	"github.com/example/partner-portal/internal/models"
)

// PlaybookHandler manages training resources shared with partners.
type PlaybookHandler struct {
	db *gorm.DB
}

// NewPlaybookHandler constructs a PlaybookHandler.
func NewPlaybookHandler(db *gorm.DB) *PlaybookHandler {
	return &PlaybookHandler{db: db}
}

type createPlaybookRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// CreatePlaybook publishes a new resource.
func (h *PlaybookHandler) CreatePlaybook(c *fiber.Ctx) error {
	var req createPlaybookRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Title == "" || req.URL == "" {
		return apperr.New(apperr.CodeValidation, "title and url are required")
	}

	playbook := models.Playbook{
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
	}
	if err := h.db.Create(&playbook).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"message":    "Playbook created successfully",
		"playbookId": playbook.ID,
	})
}

// ListPlaybooks returns all resources, newest first.
func (h *PlaybookHandler) ListPlaybooks(c *fiber.Ctx) error {
	var playbooks []models.Playbook
	if err := h.db.Order("created_at desc").Find(&playbooks).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Playbooks fetched successfully",
		"data":    playbooks,
	})
}

// GetPlaybook returns a single resource.
func (h *PlaybookHandler) GetPlaybook(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var playbook models.Playbook
	if err := h.db.First(&playbook, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.CodeNotFound, "playbook not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": playbook})
}

type playbookPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
}

// UpdatePlaybook applies an allow-listed patch.
func (h *PlaybookHandler) UpdatePlaybook(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var patch playbookPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	cols := map[string]interface{}{}
	if patch.Title != nil {
		cols["title"] = *patch.Title
	}
	if patch.Description != nil {
		cols["description"] = *patch.Description
	}
	if patch.URL != nil {
		cols["url"] = *patch.URL
	}
	if len(cols) == 0 {
		return apperr.New(apperr.CodeValidation, "at least one field is required")
	}

	res := h.db.Model(&models.Playbook{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.CodeNotFound, "playbook not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Playbook updated successfully"})
}

// DeletePlaybook removes a resource.
func (h *PlaybookHandler) DeletePlaybook(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	res := h.db.Delete(&models.Playbook{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.CodeNotFound, "playbook not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Playbook deleted successfully"})
}
