package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/partner-portal/internal/apperr"
	"github.com/example/partner-portal/internal/models"
)

// ReferralService creates referrals attributed to partners via reference
// codes and fans out status-change notifications.
type ReferralService struct {
	db       *gorm.DB
	notifier *Notifier
	log      *zap.Logger
}

// NewReferralService constructs a ReferralService.
func NewReferralService(db *gorm.DB, notifier *Notifier, log *zap.Logger) *ReferralService {
	return &ReferralService{db: db, notifier: notifier, log: log}
}

// ReferralInput is a referral submission.
type ReferralInput struct {
	Name         string
	Email        string
	StoreName    string
	Website      string
	Phone        string
	Country      string
	City         string
	Platform     string
	Status       string
	ReferralCode string
}

// Create inserts a referral. A supplied reference code must match a live
// partner at creation time; it is not re-validated later.
func (s *ReferralService) Create(ctx context.Context, in ReferralInput) (*models.Referral, error) {
	if in.Name == "" || in.Email == "" || in.StoreName == "" || in.Phone == "" ||
		in.Website == "" || in.Country == "" || in.City == "" {
		return nil, apperr.New(apperr.CodeValidation, "name, email, store_name, phone, website, country, and city are required")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Referral{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, apperr.Wrap(apperr.CodeServer, "referral lookup failed", err)
	}
	if count > 0 {
		return nil, apperr.New(apperr.CodeDuplicateEmail, "email already exists in referrals")
	}

	var referralCode *string
	if in.ReferralCode != "" {
		var partners int64
		if err := s.db.WithContext(ctx).Model(&models.Partner{}).Where("reference_code = ?", in.ReferralCode).Count(&partners).Error; err != nil {
			return nil, apperr.Wrap(apperr.CodeServer, "partner lookup failed", err)
		}
		if partners == 0 {
			return nil, apperr.New(apperr.CodeInvalidReferenceCode, "invalid referral code, no matching partner found")
		}
		referralCode = &in.ReferralCode
	}

	platform := in.Platform
	if platform == "" {
		platform = models.DefaultReferralPlatform
	}
	status := in.Status
	if status == "" {
		status = models.ReferralNew
	}

	referral := models.Referral{
		Name:         in.Name,
		Email:        in.Email,
		StoreName:    in.StoreName,
		Website:      in.Website,
		Phone:        in.Phone,
		Country:      in.Country,
		City:         in.City,
		Platform:     platform,
		Status:       status,
		ReferralCode: referralCode,
	}
	if err := s.db.WithContext(ctx).Create(&referral).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.New(apperr.CodeDuplicateEmail, "email already exists in referrals")
		}
		return nil, apperr.Wrap(apperr.CodeServer, "failed to create referral", err)
	}

	subject, body := referralThanksMail(referral.Name)
	s.notifier.Dispatch(referral.Email, subject, body)

	return &referral, nil
}

// ReferralPatch is the allow-listed update set. Nil fields are untouched.
type ReferralPatch struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	StoreName    *string `json:"store_name"`
	Website      *string `json:"website"`
	Phone        *string `json:"phone"`
	Country      *string `json:"country"`
	City         *string `json:"city"`
	Platform     *string `json:"platform"`
	Status       *string `json:"status"`
	ReferralCode *string `json:"referral_code"`
}

func (p *ReferralPatch) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	set := func(name string, value *string) {
		if value != nil {
			cols[name] = *value
		}
	}
	set("name", p.Name)
	set("email", p.Email)
	set("store_name", p.StoreName)
	set("website", p.Website)
	set("phone", p.Phone)
	set("country", p.Country)
	set("city", p.City)
	set("platform", p.Platform)
	set("status", p.Status)
	if p.ReferralCode != nil {
		if *p.ReferralCode == "" {
			// an empty code detaches the referral from its partner
			cols["referral_code"] = nil
		} else {
			cols["referral_code"] = *p.ReferralCode
		}
	}
	return cols
}

// UpdateResult reports whether the patch changed the referral's status.
type UpdateResult struct {
	StatusChanged bool
}

// Update applies an allow-listed patch. Only an actual status change fans out
// notifications: one to the referral's email, and one to the linked partner's
// email when the reference code resolves at read time.
func (s *ReferralService) Update(ctx context.Context, id uuid.UUID, patch ReferralPatch) (*UpdateResult, error) {
	cols := patch.columns()
	if len(cols) == 0 {
		return nil, apperr.New(apperr.CodeValidation, "at least one field must be provided for update")
	}

	var referral models.Referral
	err := s.db.WithContext(ctx).First(&referral, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.CodeNotFound, "referral not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeServer, "referral lookup failed", err)
	}

	if patch.ReferralCode != nil && *patch.ReferralCode != "" {
		var partners int64
		if err := s.db.WithContext(ctx).Model(&models.Partner{}).Where("reference_code = ?", *patch.ReferralCode).Count(&partners).Error; err != nil {
			return nil, apperr.Wrap(apperr.CodeServer, "partner lookup failed", err)
		}
		if partners == 0 {
			return nil, apperr.New(apperr.CodeInvalidReferenceCode, "invalid referral code, no matching partner found")
		}
	}

	statusChanged := patch.Status != nil && *patch.Status != referral.Status

	if err := s.db.WithContext(ctx).Model(&models.Referral{}).Where("id = ?", id).Updates(cols).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.New(apperr.CodeDuplicateEmail, "email already exists in referrals")
		}
		return nil, apperr.Wrap(apperr.CodeServer, "failed to update referral", err)
	}

	if statusChanged {
		s.notifyStatusChange(ctx, &referral, patch, *patch.Status)
	}

	return &UpdateResult{StatusChanged: statusChanged}, nil
}

func (s *ReferralService) notifyStatusChange(ctx context.Context, referral *models.Referral, patch ReferralPatch, status string) {
	email := referral.Email
	if patch.Email != nil {
		email = *patch.Email
	}
	subject, body := referralStatusMail(referral.Name, status)
	s.notifier.Dispatch(email, subject, body)

	code := referral.ReferralCode
	if patch.ReferralCode != nil {
		code = patch.ReferralCode
	}
	if code == nil || *code == "" {
		return
	}

	var partner models.Partner
	err := s.db.WithContext(ctx).Where("reference_code = ?", *code).First(&partner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// dangling reference left by a removed partner; nothing to notify
		return
	}
	if err != nil {
		s.log.Warn("linked partner lookup failed", zap.String("referral_code", *code), zap.Error(err))
		return
	}

	subject, body = partnerReferralStatusMail(partner.Name, referral.Name, status)
	s.notifier.Dispatch(partner.Email, subject, body)
}
