package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/partner-portal/internal/apperr"
	"github.com/example/partner-portal/internal/models"
)

func validReferral(email string) ReferralInput {
	return ReferralInput{
		Name:      "Jamie Doe",
		Email:     email,
		StoreName: "Doe Goods",
		Website:   "https://doegoods.test",
		Phone:     "+15550002222",
		Country:   "US",
		City:      "Austin",
	}
}

// linkPartner seeds an approved partner carrying the given reference code.
func linkPartner(t *testing.T, env *testEnv, email, code string) *models.Partner {
	t.Helper()

	partner := env.seedPartner(t, email, models.PartnerApproved)
	require.NoError(t, env.db.Model(partner).Update("reference_code", code).Error)
	return partner
}

func TestReferralCreateMissingField(t *testing.T) {
	env := newTestEnv(t)
	svc := env.referralService()

	in := validReferral("r@x.test")
	in.City = ""
	_, err := svc.Create(context.Background(), in)
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}

func TestReferralCreateDefaults(t *testing.T) {
	env := newTestEnv(t)
	svc := env.referralService()

	referral, err := svc.Create(context.Background(), validReferral("r@x.test"))
	require.NoError(t, err)
	assert.Equal(t, models.DefaultReferralPlatform, referral.Platform)
	assert.Equal(t, models.ReferralNew, referral.Status)
	assert.Nil(t, referral.ReferralCode)

	env.notifier.Flush()
	mails := env.mailer.mails()
	require.Len(t, mails, 1)
	assert.Equal(t, "r@x.test", mails[0].to)
}

func TestReferralCreateDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	svc := env.referralService()
	ctx := context.Background()

	_, err := svc.Create(ctx, validReferral("r@x.test"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, validReferral("r@x.test"))
	assert.Equal(t, apperr.CodeDuplicateEmail, apperr.CodeOf(err))
}

func TestReferralCreateInvalidCode(t *testing.T) {
	env := newTestEnv(t)
	svc := env.referralService()

	in := validReferral("r@x.test")
	in.ReferralCode = "NOSUCH99"
	_, err := svc.Create(context.Background(), in)
	assert.Equal(t, apperr.CodeInvalidReferenceCode, apperr.CodeOf(err))
}

func TestReferralCreateWithValidCode(t *testing.T) {
	env := newTestEnv(t)
	svc := env.referralService()
	linkPartner(t, env, "p@x.test", "GOODCODE")

	in := validReferral("r@x.test")
	in.ReferralCode = "GOODCODE"
	referral, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, referral.ReferralCode)
	assert.Equal(t, "GOODCODE", *referral.ReferralCode)
}

func TestReferralUpdateStatusChangeNotifies(t *testing.T) {
	env := newTestEnv(t)
	svc := env.referralService()
	ctx := context.Background()
	linkPartner(t, env, "p@x.test", "GOODCODE")

	in := validReferral("r@x.test")
	in.ReferralCode = "GOODCODE"
	referral, err := svc.Create(ctx, in)
	require.NoError(t, err)

	env.notifier.Flush()
	before := len(env.mailer.mails())

	status := models.ReferralConfirmed
	result, err := svc.Update(ctx, referral.ID, ReferralPatch{Status: &status})
	require.NoError(t, err)
	assert.True(t, result.StatusChanged)

	env.notifier.Flush()
	mails := env.mailer.mails()[before:]
	require.Len(t, mails, 2, "one to the referral, one to the linked partner")

	recipients := []string{mails[0].to, mails[1].to}
	assert.Contains(t, recipients, "r@x.test")
	assert.Contains(t, recipients, "p@x.test")
}

func TestReferralUpdateStatusChangeWithoutPartner(t *testing.T) {
	env := newTestEnv(t)
	svc := env.referralService()
	ctx := context.Background()

	referral, err := svc.Create(ctx, validReferral("r@x.test"))
	require.NoError(t, err)

	env.notifier.Flush()
	before := len(env.mailer.mails())

	status := models.ReferralHold
	result, err := svc.Update(ctx, referral.ID, ReferralPatch{Status: &status})
	require.NoError(t, err)
	assert.True(t, result.StatusChanged)

	env.notifier.Flush()
	assert.Len(t, env.mailer.mails()[before:], 1)
}

func TestReferralUpdateSameStatusIsQuiet(t *testing.T) {
	env := newTestEnv(t)
	svc := env.referralService()
	ctx := context.Background()

	referral, err := svc.Create(ctx, validReferral("r@x.test"))
	require.NoError(t, err)

	env.notifier.Flush()
	before := len(env.mailer.mails())

	status := models.ReferralNew
	result, err := svc.Update(ctx, referral.ID, ReferralPatch{Status: &status})
	require.NoError(t, err)
	assert.False(t, result.StatusChanged)

	env.notifier.Flush()
	assert.Empty(t, env.mailer.mails()[before:])
}

func TestReferralUpdateEmptyPatch(t *testing.T) {
	env := newTestEnv(t)
	svc := env.referralService()

	_, err := svc.Update(context.Background(), uuid.New(), ReferralPatch{})
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}

func TestReferralUpdateNotFound(t *testing.T) {
	env := newTestEnv(t)
	svc := env.referralService()

	name := "Renamed"
	_, err := svc.Update(context.Background(), uuid.New(), ReferralPatch{Name: &name})
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestReferralUpdateEmptyCodeClearsLink(t *testing.T) {
	env := newTestEnv(t)
	svc := env.referralService()
	ctx := context.Background()
	linkPartner(t, env, "p@x.test", "GOODCODE")

	in := validReferral("r@x.test")
	in.ReferralCode = "GOODCODE"
	referral, err := svc.Create(ctx, in)
	require.NoError(t, err)

	cleared := ""
	_, err = svc.Update(ctx, referral.ID, ReferralPatch{ReferralCode: &cleared})
	require.NoError(t, err)

	var reloaded models.Referral
	require.NoError(t, env.db.First(&reloaded, "id = ?", referral.ID).Error)
	assert.Nil(t, reloaded.ReferralCode)

	// a detached referral no longer notifies the former partner
	env.notifier.Flush()
	before := len(env.mailer.mails())

	status := models.ReferralConfirmed
	result, err := svc.Update(ctx, referral.ID, ReferralPatch{Status: &status})
	require.NoError(t, err)
	assert.True(t, result.StatusChanged)

	env.notifier.Flush()
	mails := env.mailer.mails()[before:]
	require.Len(t, mails, 1)
	assert.Equal(t, "r@x.test", mails[0].to)
}

func TestReferralUpdateBadCode(t *testing.T) {
	env := newTestEnv(t)
	svc := env.referralService()
	ctx := context.Background()

	referral, err := svc.Create(ctx, validReferral("r@x.test"))
	require.NoError(t, err)

	code := "NOSUCH99"
	_, err = svc.Update(ctx, referral.ID, ReferralPatch{ReferralCode: &code})
	assert.Equal(t, apperr.CodeInvalidReferenceCode, apperr.CodeOf(err))
}
