package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/partner-portal/internal/apperr"
	"github.com/example/partner-portal/internal/models"
	"github.com/example/partner-portal/internal/otp"
	"github.com/example/partner-portal/internal/utils"
)

// AuthService is the single login surface for both principal kinds and owns
// the OTP password-reset protocol. Lookup order is always admin first, then
// partner.
type AuthService struct {
	db       *gorm.DB
	ledger   *otp.Ledger
	notifier *Notifier
	log      *zap.Logger
	secret   string
	tokenTTL time.Duration
	now      func() time.Time
}

// NewAuthService constructs an AuthService with an injected signing secret.
func NewAuthService(db *gorm.DB, ledger *otp.Ledger, notifier *Notifier, log *zap.Logger, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		db:       db,
		ledger:   ledger,
		notifier: notifier,
		log:      log,
		secret:   secret,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// PrincipalSummary is the sanitized identity returned on login; never carries
// the password hash.
type PrincipalSummary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	Type          string    `json:"type"`
	ReferenceCode string    `json:"reference_code,omitempty"`
}

// LoginResult bundles the signed token with the principal summary.
type LoginResult struct {
	Token string
	User  PrincipalSummary
}

// Login verifies credentials against the admin table first, then the partner
// table, and issues a signed token carrying the principal kind.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, apperr.New(apperr.CodeValidation, "email and password are required")
	}

	var admin models.Admin
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error
	switch {
	case err == nil:
		if !utils.CheckPassword(admin.PasswordHash, password) {
			return nil, apperr.New(apperr.CodeInvalidCredentials, "invalid password")
		}
		token, err := utils.GenerateToken(s.secret, utils.Claims{
			UserID: admin.ID.String(),
			Email:  admin.Email,
			Role:   admin.Role,
			Type:   utils.PrincipalAdmin,
		}, s.tokenTTL)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeServer, "failed to generate token", err)
		}
		return &LoginResult{Token: token, User: PrincipalSummary{
			ID:    admin.ID,
			Name:  admin.Name,
			Email: admin.Email,
			Role:  admin.Role,
			Type:  utils.PrincipalAdmin,
		}}, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperr.Wrap(apperr.CodeServer, "admin lookup failed", err)
	}

	var partner models.Partner
	err = s.db.WithContext(ctx).Where("email = ?", email).First(&partner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.CodePrincipalNotFound, "user not registered")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeServer, "partner lookup failed", err)
	}

	if partner.PasswordHash == nil {
		return nil, apperr.New(apperr.CodeNotActivated, "partner not registered yet by admin")
	}
	if !utils.CheckPassword(*partner.PasswordHash, password) {
		return nil, apperr.New(apperr.CodeInvalidCredentials, "invalid password")
	}

	refCode := ""
	if partner.ReferenceCode != nil {
		refCode = *partner.ReferenceCode
	}

	token, err := utils.GenerateToken(s.secret, utils.Claims{
		UserID:        partner.ID.String(),
		Email:         partner.Email,
		Role:          partner.Role,
		Type:          utils.PrincipalPartner,
		ReferenceCode: refCode,
	}, s.tokenTTL)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeServer, "failed to generate token", err)
	}

	return &LoginResult{Token: token, User: PrincipalSummary{
		ID:            partner.ID,
		Name:          partner.Name,
		Email:         partner.Email,
		Role:          partner.Role,
		Type:          utils.PrincipalPartner,
		ReferenceCode: refCode,
	}}, nil
}

// principal is the resolved owner of an email across both principal tables.
type principal struct {
	name      string
	kind      string
	activated bool
}

func (s *AuthService) resolvePrincipal(ctx context.Context, email string) (*principal, error) {
	var admin models.Admin
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error
	switch {
	case err == nil:
		return &principal{name: admin.Name, kind: utils.PrincipalAdmin, activated: true}, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperr.Wrap(apperr.CodeServer, "admin lookup failed", err)
	}

	var partner models.Partner
	err = s.db.WithContext(ctx).Where("email = ?", email).First(&partner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.CodePrincipalNotFound, "user not registered")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeServer, "partner lookup failed", err)
	}

	return &principal{name: partner.Name, kind: utils.PrincipalPartner, activated: partner.PasswordHash != nil}, nil
}

// RequestOTP starts the reset handshake: a fresh 6-digit code replaces any
// prior record for the email and is mailed to the principal.
func (s *AuthService) RequestOTP(ctx context.Context, email string) error {
	if email == "" {
		return apperr.New(apperr.CodeValidation, "email is required")
	}

	p, err := s.resolvePrincipal(ctx, email)
	if err != nil {
		return err
	}
	if p.kind == utils.PrincipalPartner && !p.activated {
		return apperr.New(apperr.CodeNotActivated, "partner not registered yet by admin")
	}

	code, err := utils.GenerateOTPCode()
	if err != nil {
		return apperr.Wrap(apperr.CodeServer, "failed to generate otp", err)
	}

	if _, err := s.ledger.Issue(ctx, email, code); err != nil {
		return apperr.Wrap(apperr.CodeServer, "failed to store otp", err)
	}

	subject, body := otpMail(p.name, code, s.ledger.TTL())
	s.notifier.Dispatch(email, subject, body)
	return nil
}

// ValidateOTP exchanges a correct code for a single-use reset token scoped to
// the email. An expired record is deleted on detection.
func (s *AuthService) ValidateOTP(ctx context.Context, email, code string) (string, error) {
	if email == "" || code == "" {
		return "", apperr.New(apperr.CodeValidation, "email and otp are required")
	}

	rec, err := s.ledger.Get(ctx, email)
	if errors.Is(err, otp.ErrNotFound) {
		return "", apperr.New(apperr.CodeInvalidOTP, "invalid otp")
	}
	if err != nil {
		return "", apperr.Wrap(apperr.CodeServer, "otp lookup failed", err)
	}

	if rec.Code != code {
		return "", apperr.New(apperr.CodeInvalidOTP, "invalid otp")
	}
	if s.now().After(rec.ExpiresAt) {
		if err := s.ledger.Delete(ctx, email); err != nil {
			s.log.Warn("failed to delete expired otp record", zap.String("email", email), zap.Error(err))
		}
		return "", apperr.New(apperr.CodeOTPExpired, "otp expired")
	}

	token, err := utils.GenerateResetToken()
	if err != nil {
		return "", apperr.Wrap(apperr.CodeServer, "failed to generate reset token", err)
	}
	if _, err := s.ledger.Promote(ctx, rec, token); err != nil {
		return "", apperr.Wrap(apperr.CodeServer, "failed to store reset token", err)
	}

	return token, nil
}

// ResetPassword consumes the reset token and updates whichever principal
// record holds the email. The ledger record is deleted unconditionally on
// success: the token is single-use.
func (s *AuthService) ResetPassword(ctx context.Context, email, resetToken, newPassword string) error {
	if email == "" || resetToken == "" || newPassword == "" {
		return apperr.New(apperr.CodeValidation, "email, resetToken and newPassword are required")
	}
	if len(newPassword) < 6 {
		return apperr.New(apperr.CodeValidation, "password must be at least 6 characters")
	}

	rec, err := s.ledger.Get(ctx, email)
	if errors.Is(err, otp.ErrNotFound) {
		return apperr.New(apperr.CodeInvalidResetToken, "invalid or expired reset token")
	}
	if err != nil {
		return apperr.Wrap(apperr.CodeServer, "otp lookup failed", err)
	}

	if rec.ResetToken == "" || rec.ResetToken != resetToken {
		return apperr.New(apperr.CodeInvalidResetToken, "invalid or expired reset token")
	}
	if s.now().After(rec.ExpiresAt) {
		if err := s.ledger.Delete(ctx, email); err != nil {
			s.log.Warn("failed to delete expired otp record", zap.String("email", email), zap.Error(err))
		}
		return apperr.New(apperr.CodeInvalidResetToken, "invalid or expired reset token")
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return apperr.Wrap(apperr.CodeServer, "failed to hash password", err)
	}

	res := s.db.WithContext(ctx).Model(&models.Admin{}).Where("email = ?", email).Update("password", hash)
	if res.Error != nil {
		return apperr.Wrap(apperr.CodeServer, "failed to update password", res.Error)
	}
	if res.RowsAffected == 0 {
		res = s.db.WithContext(ctx).Model(&models.Partner{}).Where("email = ?", email).Update("password", hash)
		if res.Error != nil {
			return apperr.Wrap(apperr.CodeServer, "failed to update password", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.New(apperr.CodePrincipalNotFound, "user not registered")
		}
	}

	if err := s.ledger.Delete(ctx, email); err != nil {
		s.log.Warn("failed to delete consumed otp record", zap.String("email", email), zap.Error(err))
	}
	return nil
}
