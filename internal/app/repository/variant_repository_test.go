package repository

import (
	"testing"

	"github.com/jasher/unlimited-options-backend/internal/app/model"
	"github.com/jasher/unlimited-options-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupVariantRepositoryTest(t *testing.T) (VariantRepository, uint) {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	product := &model.Product{
		ShopifyProductID: "gid://shopify/Product/1",
		Title:            "Repo Ring",
		Handle:           "repo-ring",
	}
	require.NoError(t, NewProductRepository(testDB).Create(product))

	return NewVariantRepository(testDB), product.ID
}

func TestCreateWithOptions_DuplicateKey(t *testing.T) {
	repo, productID := setupVariantRepositoryTest(t)

	variant := &model.Variant{
		ProductID:      productID,
		CombinationKey: "Color:Red",
		IsActive:       true,
	}
	created, err := repo.CreateWithOptions(variant, []model.VariantOption{
		{AttributeID: 1, AttributeValueID: 11},
	})
	require.NoError(t, err)
	assert.True(t, created)

	// A second insert on the same key reports created=false without error:
	// concurrent reconciles racing on the unique index both succeed.
	duplicate := &model.Variant{
		ProductID:      productID,
		CombinationKey: "Color:Red",
		IsActive:       true,
	}
	created, err = repo.CreateWithOptions(duplicate, []model.VariantOption{
		{AttributeID: 1, AttributeValueID: 11},
	})
	require.NoError(t, err)
	assert.False(t, created)

	variants, err := repo.FindByProductID(productID)
	require.NoError(t, err)
	assert.Len(t, variants, 1)
}

func TestFindUnsynced_ExcludesSyncedAndInactive(t *testing.T) {
	repo, productID := setupVariantRepositoryTest(t)

	keys := []string{"Color:Red", "Color:Blue", "Color:Green"}
	ids := make([]uint, 0, len(keys))
	for _, key := range keys {
		variant := &model.Variant{ProductID: productID, CombinationKey: key, IsActive: true}
		created, err := repo.CreateWithOptions(variant, []model.VariantOption{
			{AttributeID: 1, AttributeValueID: 11},
		})
		require.NoError(t, err)
		require.True(t, created)
		ids = append(ids, variant.ID)
	}

	require.NoError(t, repo.SetShopifyVariantID(ids[0], "gid://shopify/ProductVariant/1"))
	require.NoError(t, repo.UpdateFields(ids[1], map[string]interface{}{"is_active": false}))

	unsynced, err := repo.FindUnsynced(productID, 0)
	require.NoError(t, err)
	require.Len(t, unsynced, 1)
	assert.Equal(t, ids[2], unsynced[0].ID)

	// Clearing platform ids puts the synced variant back in the pool.
	require.NoError(t, repo.ClearShopifyVariantIDs(productID))
	unsynced, err = repo.FindUnsynced(productID, 0)
	require.NoError(t, err)
	assert.Len(t, unsynced, 2)
}

func TestUpdateFields_NotFound(t *testing.T) {
	repo, _ := setupVariantRepositoryTest(t)

	err := repo.UpdateFields(9999, map[string]interface{}{"price": 1.0})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteByProductID_RemovesOptions(t *testing.T) {
	repo, productID := setupVariantRepositoryTest(t)

	variant := &model.Variant{ProductID: productID, CombinationKey: "Color:Red", IsActive: true}
	created, err := repo.CreateWithOptions(variant, []model.VariantOption{
		{AttributeID: 1, AttributeValueID: 11},
	})
	require.NoError(t, err)
	require.True(t, created)

	require.NoError(t, repo.DeleteByProductID(productID))

	variants, err := repo.FindByProductID(productID)
	require.NoError(t, err)
	assert.Empty(t, variants)

	keys, err := repo.FindExistingKeys(productID)
	require.NoError(t, err)
	assert.Empty(t, keys)
}
