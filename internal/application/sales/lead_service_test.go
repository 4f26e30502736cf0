package sales

import (
	"context"
	"testing"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T) *partner.Client {
	t.Helper()
	client, err := partner.NewClient("Acme Industries", "Pvt Ltd", "29ABCDE1234F1Z5",
		"Ravi", "ravi@acme.example", "9876543210", "12 MG Road, Bengaluru")
	require.NoError(t, err)
	return client
}

func testLead(t *testing.T, clientID uuid.UUID) *sales.Lead {
	t.Helper()
	lead, err := sales.NewLead(clientID, "Acme Industries", "Ravi", "",
		"9876543210", "", "Control panels", sales.LeadTypeWebsite)
	require.NoError(t, err)
	require.NoError(t, lead.AssignNumber("#0001"))
	return lead
}

func TestLeadService_Create(t *testing.T) {
	t.Run("snapshots missing contact fields from the client", func(t *testing.T) {
		clientRepo := new(MockClientRepository)
		leadRepo := new(MockLeadRepository)
		svc := NewLeadService(leadRepo, new(MockEstimationRepository), clientRepo)

		client := testClient(t)
		clientRepo.On("FindByID", mock.Anything, client.ID).Return(client, nil)
		leadRepo.On("Save", mock.Anything, mock.AnythingOfType("*sales.Lead")).Return(nil)

		resp, err := svc.Create(context.Background(), CreateLeadRequest{
			ClientID: client.ID,
			Mobile:   "9876500000",
			LeadType: string(sales.LeadTypeWebsite),
		})

		require.NoError(t, err)
		assert.Equal(t, "Acme Industries", resp.CompanyName)
		assert.Equal(t, "Ravi", resp.ContactPerson)
		assert.Equal(t, "ravi@acme.example", resp.Email)
		assert.Equal(t, "9876500000", resp.Mobile)
		assert.Equal(t, string(sales.LeadStatusPending), resp.Status)
		leadRepo.AssertExpectations(t)
	})

	t.Run("fails when the client does not exist", func(t *testing.T) {
		clientRepo := new(MockClientRepository)
		svc := NewLeadService(new(MockLeadRepository), new(MockEstimationRepository), clientRepo)

		clientRepo.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

		_, err := svc.Create(context.Background(), CreateLeadRequest{
			ClientID: uuid.New(),
			Mobile:   "9876500000",
		})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestLeadService_ComputedStatus(t *testing.T) {
	t.Run("lead without a quotation stays Pending", func(t *testing.T) {
		leadRepo := new(MockLeadRepository)
		estRepo := new(MockEstimationRepository)
		svc := NewLeadService(leadRepo, estRepo, new(MockClientRepository))

		lead := testLead(t, uuid.New())
		leadRepo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
		estRepo.On("FindLatestByLeadID", mock.Anything, lead.ID).Return(nil, shared.ErrNotFound)

		resp, err := svc.GetByID(context.Background(), lead.ID)

		require.NoError(t, err)
		assert.Equal(t, string(sales.LeadStatusPending), resp.ComputedStatus)
	})

	t.Run("invoiced quotation shows the lead as Won", func(t *testing.T) {
		leadRepo := new(MockLeadRepository)
		estRepo := new(MockEstimationRepository)
		svc := NewLeadService(leadRepo, estRepo, new(MockClientRepository))

		lead := testLead(t, uuid.New())
		leadRepo.On("FindAll", mock.Anything, mock.Anything).Return([]sales.Lead{*lead}, int64(1), nil)
		estRepo.On("FindLatestByLeadID", mock.Anything, lead.ID).
			Return(&sales.Estimation{Status: sales.EstimationStatusInvoiced}, nil)

		got, total, err := svc.List(context.Background(), sales.LeadFilter{})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, got, 1)
		assert.Equal(t, string(sales.LeadStatusWon), got[0].ComputedStatus)
		assert.Equal(t, string(sales.LeadStatusWon), got[0].Status)
	})

	t.Run("lost quotation shows the lead as Lost", func(t *testing.T) {
		leadRepo := new(MockLeadRepository)
		estRepo := new(MockEstimationRepository)
		svc := NewLeadService(leadRepo, estRepo, new(MockClientRepository))

		lead := testLead(t, uuid.New())
		leadRepo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
		estRepo.On("FindLatestByLeadID", mock.Anything, lead.ID).
			Return(&sales.Estimation{Status: sales.EstimationStatusLost}, nil)

		resp, err := svc.GetByID(context.Background(), lead.ID)

		require.NoError(t, err)
		assert.Equal(t, string(sales.LeadStatusLost), resp.ComputedStatus)
	})
}

func TestLeadService_Update(t *testing.T) {
	t.Run("edits a pending lead", func(t *testing.T) {
		leadRepo := new(MockLeadRepository)
		estRepo := new(MockEstimationRepository)
		svc := NewLeadService(leadRepo, estRepo, new(MockClientRepository))

		lead := testLead(t, uuid.New())
		leadRepo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
		estRepo.On("FindLatestByLeadID", mock.Anything, lead.ID).Return(nil, shared.ErrNotFound)
		leadRepo.On("Save", mock.Anything, lead).Return(nil)

		resp, err := svc.Update(context.Background(), lead.ID, UpdateLeadRequest{
			ContactPerson: "Priya",
			Mobile:        "9876511111",
		})

		require.NoError(t, err)
		assert.Equal(t, "Priya", resp.ContactPerson)
		leadRepo.AssertExpectations(t)
	})

	t.Run("refuses to edit a won lead", func(t *testing.T) {
		leadRepo := new(MockLeadRepository)
		estRepo := new(MockEstimationRepository)
		svc := NewLeadService(leadRepo, estRepo, new(MockClientRepository))

		lead := testLead(t, uuid.New())
		leadRepo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
		estRepo.On("FindLatestByLeadID", mock.Anything, lead.ID).
			Return(&sales.Estimation{Status: sales.EstimationStatusInvoiced}, nil)

		_, err := svc.Update(context.Background(), lead.ID, UpdateLeadRequest{Mobile: "9876511111"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Won")
		leadRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
