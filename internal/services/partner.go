package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/partner-portal/internal/apperr"
	"github.com/example/partner-portal/internal/models"
	"github.com/example/partner-portal/internal/utils"
)

// referenceCodeAttempts bounds the retry loop against the unique index on
// reference_code.
const referenceCodeAttempts = 5

// PartnerService owns the partner status field and its transitions. Status
// preconditions and transitions are one conditional UPDATE, so two racing
// calls cannot both pass the check.
type PartnerService struct {
	db                  *gorm.DB
	notifier            *Notifier
	log                 *zap.Logger
	adminEmail          string
	passwordLength      int
	referenceCodeLength int
}

// NewPartnerService constructs a PartnerService.
func NewPartnerService(db *gorm.DB, notifier *Notifier, log *zap.Logger, adminEmail string, passwordLength, referenceCodeLength int) *PartnerService {
	return &PartnerService{
		db:                  db,
		notifier:            notifier,
		log:                 log,
		adminEmail:          adminEmail,
		passwordLength:      passwordLength,
		referenceCodeLength: referenceCodeLength,
	}
}

// ApplyInput is a partner application. The first seven fields are required.
type ApplyInput struct {
	Name            string
	Email           string
	Description     string
	Website         string
	Platform        string
	AffiliateHandle string
	MobilePhone     string
	Organization    string
	Country         string
	City            string
	AdditionalInfo  string
}

// Apply inserts a pending application. An email already held by an admin, or
// by a pending/approved partner, is rejected; a rejected partner row is
// deleted first so the email can re-apply.
func (s *PartnerService) Apply(ctx context.Context, in ApplyInput) (*models.Partner, error) {
	if in.Name == "" || in.Email == "" || in.Description == "" || in.Website == "" ||
		in.Platform == "" || in.AffiliateHandle == "" || in.MobilePhone == "" {
		return nil, apperr.New(apperr.CodeValidation, "all required fields must be filled")
	}

	var adminCount int64
	if err := s.db.WithContext(ctx).Model(&models.Admin{}).Where("email = ?", in.Email).Count(&adminCount).Error; err != nil {
		return nil, apperr.Wrap(apperr.CodeServer, "admin lookup failed", err)
	}
	if adminCount > 0 {
		return nil, apperr.New(apperr.CodeDuplicateEmail, "this email is already registered as an admin")
	}

	var existing models.Partner
	err := s.db.WithContext(ctx).Where("email = ?", in.Email).First(&existing).Error
	switch {
	case err == nil:
		if existing.Status != models.PartnerRejected {
			return nil, apperr.New(apperr.CodeDuplicateEmail, "this email is already registered as a partner")
		}
		if err := s.db.WithContext(ctx).Delete(&existing).Error; err != nil {
			return nil, apperr.Wrap(apperr.CodeServer, "failed to remove rejected application", err)
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperr.Wrap(apperr.CodeServer, "partner lookup failed", err)
	}

	partner := models.Partner{
		Name:            in.Name,
		Email:           in.Email,
		Description:     in.Description,
		Website:         in.Website,
		Platform:        in.Platform,
		AffiliateHandle: in.AffiliateHandle,
		MobilePhone:     in.MobilePhone,
		Organization:    in.Organization,
		Country:         in.Country,
		City:            in.City,
		AdditionalInfo:  in.AdditionalInfo,
		Status:          models.PartnerPending,
		Role:            models.RolePartner,
	}
	if err := s.db.WithContext(ctx).Create(&partner).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.New(apperr.CodeDuplicateEmail, "this email is already registered as a partner")
		}
		return nil, apperr.Wrap(apperr.CodeServer, "failed to create partner", err)
	}

	subject, body := applicationReceivedMail(partner.Name, partner.Website)
	s.notifier.Dispatch(partner.Email, subject, body)
	if s.adminEmail != "" {
		subject, body = adminApplicationMail(&partner)
		s.notifier.Dispatch(s.adminEmail, subject, body)
	}

	return &partner, nil
}

// ApprovalResult carries the one-time plaintext password back to the caller
// for manual relay alongside the approval email.
type ApprovalResult struct {
	Password      string
	ReferenceCode string
}

// Approve transitions a pending partner to approved, assigning a generated
// password and a unique reference code. A reference-code collision is retried
// with a fresh code.
func (s *PartnerService) Approve(ctx context.Context, partnerID uuid.UUID) (*ApprovalResult, error) {
	plain, err := utils.GeneratePassword(s.passwordLength)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeServer, "failed to generate password", err)
	}
	hash, err := utils.HashPassword(plain)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeServer, "failed to hash password", err)
	}

	for attempt := 0; attempt < referenceCodeAttempts; attempt++ {
		code, err := utils.GenerateReferenceCode(s.referenceCodeLength)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeServer, "failed to generate reference code", err)
		}

		res := s.db.WithContext(ctx).Model(&models.Partner{}).
			Where("id = ? AND status = ?", partnerID, models.PartnerPending).
			Updates(map[string]interface{}{
				"password":       hash,
				"is_registered":  true,
				"reference_code": code,
				"status":         models.PartnerApproved,
			})
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				continue
			}
			return nil, apperr.Wrap(apperr.CodeServer, "failed to approve partner", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, s.classifyTransitionFailure(ctx, partnerID, true)
		}

		var partner models.Partner
		if err := s.db.WithContext(ctx).First(&partner, "id = ?", partnerID).Error; err != nil {
			s.log.Warn("approved partner reload failed", zap.String("partner_id", partnerID.String()), zap.Error(err))
		} else {
			subject, body := partnerApprovedMail(partner.Name, partner.Email, plain, code)
			s.notifier.Dispatch(partner.Email, subject, body)
		}

		return &ApprovalResult{Password: plain, ReferenceCode: code}, nil
	}

	return nil, apperr.New(apperr.CodeServer, "could not allocate a unique reference code")
}

// Reject transitions a pending partner to rejected. Approved is terminal.
func (s *PartnerService) Reject(ctx context.Context, partnerID uuid.UUID) error {
	res := s.db.WithContext(ctx).Model(&models.Partner{}).
		Where("id = ? AND status = ?", partnerID, models.PartnerPending).
		Update("status", models.PartnerRejected)
	if res.Error != nil {
		return apperr.Wrap(apperr.CodeServer, "failed to reject partner", res.Error)
	}
	if res.RowsAffected == 0 {
		return s.classifyTransitionFailure(ctx, partnerID, false)
	}

	var partner models.Partner
	if err := s.db.WithContext(ctx).First(&partner, "id = ?", partnerID).Error; err != nil {
		s.log.Warn("rejected partner reload failed", zap.String("partner_id", partnerID.String()), zap.Error(err))
	} else {
		subject, body := partnerRejectedMail(partner.Name)
		s.notifier.Dispatch(partner.Email, subject, body)
	}

	return nil
}

// classifyTransitionFailure explains a conditional update that matched no
// rows: the partner is either absent or already in a terminal status.
func (s *PartnerService) classifyTransitionFailure(ctx context.Context, partnerID uuid.UUID, approving bool) error {
	var partner models.Partner
	err := s.db.WithContext(ctx).First(&partner, "id = ?", partnerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.CodeNotFound, "partner not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.CodeServer, "partner lookup failed", err)
	}

	switch partner.Status {
	case models.PartnerApproved:
		if approving {
			return apperr.New(apperr.CodeAlreadyApproved, "partner is already approved")
		}
		return apperr.New(apperr.CodeCannotReject, "approved partner cannot be rejected")
	case models.PartnerRejected:
		return apperr.New(apperr.CodeAlreadyRejected, "partner is already rejected")
	default:
		return apperr.New(apperr.CodeServer, "partner status changed concurrently")
	}
}
