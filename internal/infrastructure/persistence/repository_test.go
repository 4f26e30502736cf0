package persistence

import (
	"context"
	"testing"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func testGenerator(db *gorm.DB) *GormSequenceGenerator {
	return NewGormSequenceGenerator(db, "EST")
}

func createTestClient(t *testing.T, db *gorm.DB) *partner.Client {
	t.Helper()
	client, err := partner.NewClient("Acme Industries", "Pvt Ltd", "29ABCDE1234F1Z5", "Ravi", "ravi@acme.in", "9876543210", "Bengaluru")
	require.NoError(t, err)
	require.NoError(t, NewGormClientRepository(db).Save(context.Background(), client))
	return client
}

// createTestEstimation saves a quotation with one 10 x 500 line at 18% GST
func createTestEstimation(t *testing.T, db *gorm.DB, client *partner.Client) *sales.Estimation {
	t.Helper()
	est, err := sales.NewEstimation(client.ID, client.CompanyName, client.GSTNo, client.Address, client.Address, 30)
	require.NoError(t, err)
	_, err = est.AddItem("Control panel", "8537", 10, sales.UOMNos, valueobject.NewMoneyINRFromFloat(500), decimal.NewFromInt(18))
	require.NoError(t, err)

	repo := NewGormEstimationRepository(db, testGenerator(db))
	require.NoError(t, repo.Save(context.Background(), est))
	return est
}
