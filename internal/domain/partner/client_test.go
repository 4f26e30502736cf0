package partner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("creates client with a Primary branch", func(t *testing.T) {
		c, err := NewClient("Acme Industries", "Pvt Ltd", "29ABCDE1234F1Z5", "Ravi", "ravi@acme.in", "9876543210", "Bengaluru")

		require.NoError(t, err)
		require.Len(t, c.Branches, 1)
		primary := c.PrimaryBranch()
		require.NotNil(t, primary)
		assert.Equal(t, PrimaryBranchName, primary.BranchName)
		assert.Equal(t, "Ravi", primary.ContactPerson)
		assert.Equal(t, "29ABCDE1234F1Z5", primary.GSTNo)
		assert.Equal(t, c.ID, primary.ClientID)
	})

	t.Run("requires a company name", func(t *testing.T) {
		c, err := NewClient("", "", "", "", "", "", "")

		assert.Error(t, err)
		assert.Nil(t, c)
	})
}

func TestClient_AddBranch(t *testing.T) {
	t.Run("adds a named branch", func(t *testing.T) {
		c, err := NewClient("Acme Industries", "", "", "", "", "", "")
		require.NoError(t, err)

		b, err := c.AddBranch("Warehouse", "Priya", "9876500000", "", "", "Peenya")

		require.NoError(t, err)
		assert.Equal(t, "Warehouse", b.BranchName)
		assert.Len(t, c.Branches, 2)
	})

	t.Run("rejects duplicate branch names", func(t *testing.T) {
		c, err := NewClient("Acme Industries", "", "", "", "", "", "")
		require.NoError(t, err)

		_, err = c.AddBranch(PrimaryBranchName, "", "", "", "", "")

		assert.Error(t, err)
	})

	t.Run("requires a branch name", func(t *testing.T) {
		c, err := NewClient("Acme Industries", "", "", "", "", "", "")
		require.NoError(t, err)

		_, err = c.AddBranch("", "", "", "", "", "")

		assert.Error(t, err)
	})
}

func TestClient_Update(t *testing.T) {
	c, err := NewClient("Acme Industries", "", "", "", "", "", "")
	require.NoError(t, err)

	require.NoError(t, c.Update("Acme Industries Pvt Ltd", "Pvt Ltd", "29ABCDE1234F1Z5", "Ravi", "", "9876543210", "Bengaluru"))

	assert.Equal(t, "Acme Industries Pvt Ltd", c.CompanyName)
	assert.Error(t, c.Update("", "", "", "", "", "", ""))
}
