package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/partner-portal/internal/models"
	"github.com/example/partner-portal/internal/otp"
	"github.com/example/partner-portal/internal/utils"
)

type sentMail struct {
	to      string
	subject string
	body    string
}

// recordingMailer captures sends for assertion instead of delivering them.
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (m *recordingMailer) mails() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sentMail, len(m.sent))
	copy(out, m.sent)
	return out
}

// newTestDB opens an in-memory sqlite database pinned to a single connection
// so every query sees the same schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Admin{},
		&models.Partner{},
		&models.Store{},
		&models.StorePayment{},
		&models.Playbook{},
		&models.Referral{},
	))

	return db
}

type testEnv struct {
	db       *gorm.DB
	ledger   *otp.Ledger
	mailer   *recordingMailer
	notifier *Notifier
	mr       *miniredis.Miniredis
	redis    *redis.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	mailer := &recordingMailer{}
	return &testEnv{
		db:       newTestDB(t),
		ledger:   otp.NewLedger(client, 10*time.Minute),
		mailer:   mailer,
		notifier: NewNotifier(mailer, zap.NewNop(), time.Second),
		mr:       mr,
		redis:    client,
	}
}

func (e *testEnv) authService() *AuthService {
	return NewAuthService(e.db, e.ledger, e.notifier, zap.NewNop(), "test-secret", time.Hour)
}

func (e *testEnv) partnerService() *PartnerService {
	return NewPartnerService(e.db, e.notifier, zap.NewNop(), "admin@portal.test", 10, 8)
}

func (e *testEnv) referralService() *ReferralService {
	return NewReferralService(e.db, e.notifier, zap.NewNop())
}

func (e *testEnv) seedAdmin(t *testing.T, email, password, role string) *models.Admin {
	t.Helper()

	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	admin := &models.Admin{Name: "Test Admin", Email: email, PasswordHash: hash, Role: role}
	require.NoError(t, e.db.Create(admin).Error)
	return admin
}

func (e *testEnv) seedPartner(t *testing.T, email, status string) *models.Partner {
	t.Helper()

	partner := &models.Partner{
		Name:            "Test Partner",
		Email:           email,
		Description:     "desc",
		Website:         "https://example.test",
		Platform:        "shopify",
		AffiliateHandle: "@tester",
		MobilePhone:     "+100000000",
		Status:          status,
		Role:            models.RolePartner,
	}
	require.NoError(t, e.db.Create(partner).Error)
	return partner
}
