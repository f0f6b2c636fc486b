package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/partner-portal/internal/apperr"
	"github.com/example/partner-portal/internal/models"
)

func validApplication(email string) ApplyInput {
	return ApplyInput{
		Name:            "Acme Affiliates",
		Email:           email,
		Description:     "agency for mid-market stores",
		Website:         "https://acme.test",
		Platform:        "shopify",
		AffiliateHandle: "@acme",
		MobilePhone:     "+15550001111",
	}
}

func TestApplyMissingRequiredField(t *testing.T) {
	env := newTestEnv(t)
	svc := env.partnerService()

	in := validApplication("a@acme.test")
	in.Website = ""
	_, err := svc.Apply(context.Background(), in)
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}

func TestApplyCreatesPendingApplication(t *testing.T) {
	env := newTestEnv(t)
	svc := env.partnerService()

	partner, err := svc.Apply(context.Background(), validApplication("a@acme.test"))
	require.NoError(t, err)
	assert.Equal(t, models.PartnerPending, partner.Status)
	assert.Nil(t, partner.PasswordHash)
	assert.Nil(t, partner.ReferenceCode)

	env.notifier.Flush()
	mails := env.mailer.mails()
	require.Len(t, mails, 2, "applicant confirmation plus admin alert")
	assert.Equal(t, "a@acme.test", mails[0].to)
	assert.Equal(t, "admin@portal.test", mails[1].to)
}

func TestApplyEmailHeldByAdmin(t *testing.T) {
	env := newTestEnv(t)
	svc := env.partnerService()
	env.seedAdmin(t, "a@acme.test", "pw123456", models.RoleAdmin)

	_, err := svc.Apply(context.Background(), validApplication("a@acme.test"))
	assert.Equal(t, apperr.CodeDuplicateEmail, apperr.CodeOf(err))
}

func TestApplyEmailHeldByPendingPartner(t *testing.T) {
	env := newTestEnv(t)
	svc := env.partnerService()
	env.seedPartner(t, "a@acme.test", models.PartnerPending)

	_, err := svc.Apply(context.Background(), validApplication("a@acme.test"))
	assert.Equal(t, apperr.CodeDuplicateEmail, apperr.CodeOf(err))
}

func TestApplyReplacesRejectedApplication(t *testing.T) {
	env := newTestEnv(t)
	svc := env.partnerService()
	rejected := env.seedPartner(t, "a@acme.test", models.PartnerRejected)

	partner, err := svc.Apply(context.Background(), validApplication("a@acme.test"))
	require.NoError(t, err)
	assert.NotEqual(t, rejected.ID, partner.ID)
	assert.Equal(t, models.PartnerPending, partner.Status)

	var count int64
	require.NoError(t, env.db.Model(&models.Partner{}).Where("email = ?", "a@acme.test").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestApproveAssignsCredentials(t *testing.T) {
	env := newTestEnv(t)
	svc := env.partnerService()
	partner := env.seedPartner(t, "a@acme.test", models.PartnerPending)
	ctx := context.Background()

	result, err := svc.Approve(ctx, partner.ID)
	require.NoError(t, err)
	assert.Len(t, result.Password, 10)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{8}$`), result.ReferenceCode)

	var reloaded models.Partner
	require.NoError(t, env.db.First(&reloaded, "id = ?", partner.ID).Error)
	assert.Equal(t, models.PartnerApproved, reloaded.Status)
	assert.True(t, reloaded.IsRegistered)
	require.NotNil(t, reloaded.ReferenceCode)
	assert.Equal(t, result.ReferenceCode, *reloaded.ReferenceCode)

	// the generated password really logs in
	login, err := env.authService().Login(ctx, "a@acme.test", result.Password)
	require.NoError(t, err)
	assert.Equal(t, result.ReferenceCode, login.User.ReferenceCode)

	env.notifier.Flush()
	mails := env.mailer.mails()
	require.Len(t, mails, 1)
	assert.Equal(t, "a@acme.test", mails[0].to)
	assert.Contains(t, mails[0].body, result.Password)
	assert.Contains(t, mails[0].body, result.ReferenceCode)
}

func TestApproveAlreadyApproved(t *testing.T) {
	env := newTestEnv(t)
	svc := env.partnerService()
	partner := env.seedPartner(t, "a@acme.test", models.PartnerPending)
	ctx := context.Background()

	_, err := svc.Approve(ctx, partner.ID)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, partner.ID)
	assert.Equal(t, apperr.CodeAlreadyApproved, apperr.CodeOf(err))
}

func TestApproveRejectedPartner(t *testing.T) {
	env := newTestEnv(t)
	svc := env.partnerService()
	partner := env.seedPartner(t, "a@acme.test", models.PartnerRejected)

	_, err := svc.Approve(context.Background(), partner.ID)
	assert.Equal(t, apperr.CodeAlreadyRejected, apperr.CodeOf(err))
}

func TestApproveUnknownPartner(t *testing.T) {
	env := newTestEnv(t)
	svc := env.partnerService()

	_, err := svc.Approve(context.Background(), uuid.New())
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestRejectPendingPartner(t *testing.T) {
	env := newTestEnv(t)
	svc := env.partnerService()
	partner := env.seedPartner(t, "a@acme.test", models.PartnerPending)

	require.NoError(t, svc.Reject(context.Background(), partner.ID))

	var reloaded models.Partner
	require.NoError(t, env.db.First(&reloaded, "id = ?", partner.ID).Error)
	assert.Equal(t, models.PartnerRejected, reloaded.Status)
	assert.Nil(t, reloaded.PasswordHash)

	env.notifier.Flush()
	mails := env.mailer.mails()
	require.Len(t, mails, 1)
	assert.Equal(t, "a@acme.test", mails[0].to)
}

func TestRejectApprovedPartnerIsTerminal(t *testing.T) {
	env := newTestEnv(t)
	svc := env.partnerService()
	partner := env.seedPartner(t, "a@acme.test", models.PartnerPending)
	ctx := context.Background()

	_, err := svc.Approve(ctx, partner.ID)
	require.NoError(t, err)

	err = svc.Reject(ctx, partner.ID)
	assert.Equal(t, apperr.CodeCannotReject, apperr.CodeOf(err))
}

func TestRejectAlreadyRejected(t *testing.T) {
	env := newTestEnv(t)
	svc := env.partnerService()
	partner := env.seedPartner(t, "a@acme.test", models.PartnerRejected)

	err := svc.Reject(context.Background(), partner.ID)
	assert.Equal(t, apperr.CodeAlreadyRejected, apperr.CodeOf(err))
}
