package persistence

import (
	"context"
	"testing"

	"github.com/crm/backend/internal/domain/sales"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormDeliveryChallanRepository_CreateValidated(t *testing.T) {
	t.Run("partial deliveries accumulate up to the quoted quantity", func(t *testing.T) {
		db := setupTestDB(t)
		client := createTestClient(t, db)
		est := createTestEstimation(t, db, client) // 10 x Control panel
		repo := NewGormDeliveryChallanRepository(db, testGenerator(db))
		ctx := context.Background()

		first, err := sales.NewDeliveryChallan(est.ID, "Plant 2", "Ravi", "9876543210", "PO-77", "")
		require.NoError(t, err)
		require.NoError(t, first.AddItem(&est.Items[0], 6, ""))
		require.NoError(t, repo.CreateValidated(ctx, first))
		assert.Equal(t, "DC-0001", first.ChallanNo)

		second, err := sales.NewDeliveryChallan(est.ID, "Plant 2", "Ravi", "9876543210", "PO-77", "")
		require.NoError(t, err)
		require.NoError(t, second.AddItem(&est.Items[0], 4, ""))
		require.NoError(t, repo.CreateValidated(ctx, second))
		assert.Equal(t, "DC-0002", second.ChallanNo)

		delivered, err := repo.DeliveredQuantities(ctx, est.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, delivered[est.Items[0].ID])
	})

	t.Run("over-delivery across challans is rejected and nothing is written", func(t *testing.T) {
		db := setupTestDB(t)
		client := createTestClient(t, db)
		est := createTestEstimation(t, db, client)
		repo := NewGormDeliveryChallanRepository(db, testGenerator(db))
		ctx := context.Background()

		first, err := sales.NewDeliveryChallan(est.ID, "", "", "", "", "")
		require.NoError(t, err)
		require.NoError(t, first.AddItem(&est.Items[0], 7, ""))
		require.NoError(t, repo.CreateValidated(ctx, first))

		second, err := sales.NewDeliveryChallan(est.ID, "", "", "", "", "")
		require.NoError(t, err)
		require.NoError(t, second.AddItem(&est.Items[0], 4, ""))

		err = repo.CreateValidated(ctx, second)

		assert.Error(t, err)
		challans, err := repo.FindByEstimationID(ctx, est.ID)
		require.NoError(t, err)
		assert.Len(t, challans, 1)
	})

	t.Run("no challans against an invoiced quotation", func(t *testing.T) {
		db := setupTestDB(t)
		client := createTestClient(t, db)
		est := createTestEstimation(t, db, client)
		_, _, err := NewGormInvoiceRepository(db, testGenerator(db)).
			CreateForApproval(context.Background(), est.ID, sales.ApprovalDetails{CreditDays: 30})
		require.NoError(t, err)

		dc, err := sales.NewDeliveryChallan(est.ID, "", "", "", "", "")
		require.NoError(t, err)
		require.NoError(t, dc.AddItem(&est.Items[0], 1, ""))

		err = NewGormDeliveryChallanRepository(db, testGenerator(db)).
			CreateValidated(context.Background(), dc)

		assert.Error(t, err)
	})
}
