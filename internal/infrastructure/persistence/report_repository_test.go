package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormReportRepository_Buckets(t *testing.T) {
	db := setupTestDB(t)
	client := createTestClient(t, db)
	repo := NewGormReportRepository(db)
	ctx := context.Background()

	createTestEstimation(t, db, client)
	rejected := createTestEstimation(t, db, client)
	require.NoError(t, rejected.Reject("lost to competitor"))
	require.NoError(t, NewGormEstimationRepository(db, testGenerator(db)).Save(ctx, rejected))

	buckets, err := repo.EstimationBuckets(ctx)

	require.NoError(t, err)
	require.Len(t, buckets, 2)
	byStatus := map[string]int64{}
	for _, b := range buckets {
		byStatus[b.Status] = b.Count
	}
	assert.Equal(t, int64(1), byStatus["Pending"])
	assert.Equal(t, int64(1), byStatus["Rejected"])
}

func TestGormReportRepository_PipelineRows(t *testing.T) {
	db := setupTestDB(t)
	client := createTestClient(t, db)
	ctx := context.Background()

	leadRepo := NewGormLeadRepository(db, testGenerator(db))
	estRepo := NewGormEstimationRepository(db, testGenerator(db))
	invoiceRepo := NewGormInvoiceRepository(db, testGenerator(db))
	repo := NewGormReportRepository(db)

	// A bare lead with no quotation yet.
	bare, err := sales.NewLead(client.ID, "Zenith Tools", "Priya", "", "9876500000", "", "spares", sales.LeadTypeReferrals)
	require.NoError(t, err)
	require.NoError(t, leadRepo.Save(ctx, bare))

	// A lead quoted twice; the pipeline must pick the latest quotation.
	quoted, err := sales.NewLead(client.ID, client.CompanyName, "Ravi", "", "9876543210", "", "panels", sales.LeadTypeWebsite)
	require.NoError(t, err)
	require.NoError(t, leadRepo.Save(ctx, quoted))

	stale := createTestEstimation(t, db, client)
	stale.LinkLead(quoted.ID, quoted.LeadNo)
	stale.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, estRepo.Save(ctx, stale))

	latest, err := sales.NewEstimation(client.ID, client.CompanyName, client.GSTNo, client.Address, client.Address, 30)
	require.NoError(t, err)
	latest.LinkLead(quoted.ID, quoted.LeadNo)
	_, err = latest.AddItem("Control panel", "8537", 10, sales.UOMNos, valueobject.NewMoneyINRFromFloat(500), decimal.NewFromInt(18))
	require.NoError(t, err)
	require.NoError(t, estRepo.Save(ctx, latest))

	inv, created, err := invoiceRepo.CreateForApproval(ctx, latest.ID, sales.ApprovalDetails{PONumber: "PO-77", CreditDays: 45})
	require.NoError(t, err)
	require.True(t, created)

	rows, err := repo.PipelineRows(ctx, nil, nil)

	require.NoError(t, err)
	require.Len(t, rows, 2)

	byLeadNo := map[string]int{}
	for i, r := range rows {
		byLeadNo[r.LeadNo] = i
	}

	full := rows[byLeadNo[quoted.LeadNo]]
	require.NotNil(t, full.EstimationID)
	assert.Equal(t, latest.ID, *full.EstimationID)
	assert.Equal(t, latest.QuoteNo, full.QuoteNo)
	assert.Equal(t, "Invoiced", full.EstimationStatus)
	assert.Equal(t, "PO-77", full.PONumber)
	assert.Equal(t, "5900.00", full.QuoteTotal.StringFixed(2))
	assert.Equal(t, inv.InvoiceNo, full.InvoiceNo)
	assert.Equal(t, "Unpaid", full.InvoiceStatus)
	assert.Equal(t, "5900.00", full.BalanceDue.StringFixed(2))

	empty := rows[byLeadNo[bare.LeadNo]]
	assert.Nil(t, empty.EstimationID)
	assert.Empty(t, empty.QuoteNo)
	assert.Empty(t, empty.InvoiceNo)
	assert.Equal(t, "0.00", empty.QuoteTotal.StringFixed(2))

	t.Run("date bounds filter by lead date", func(t *testing.T) {
		past := time.Now().AddDate(0, 0, -7)
		rows, err := repo.PipelineRows(ctx, nil, &past)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}
