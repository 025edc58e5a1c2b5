package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupExportServiceTest(t *testing.T) (*testRepos, ExportService) {
	repos := setupRepos(t)
	return repos, NewExportService(repos.variant, repos.product)
}

func TestExportVariants(t *testing.T) {
	repos, svc := setupExportServiceTest(t)

	color := seedAttribute(t, repos, "Color", "Red", "Blue")
	product := seedProduct(t, repos, "Export Ring", color.ID)
	variants := seedVariants(t, repos, product.ID, color)
	require.Len(t, variants, 2)
	require.NoError(t, repos.variant.UpdateFields(variants[0].ID, map[string]interface{}{
		"sku":            "RING-RED",
		"price":          49.99,
		"stock_quantity": 3,
	}))

	f, filename, err := svc.ExportVariants(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "export-ring-variants.xlsx", filename)

	// Header row: one column per option axis, then the priced fields.
	header, err := f.GetCellValue("Variants", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Color", header)
	header, err = f.GetCellValue("Variants", "B1")
	require.NoError(t, err)
	assert.Equal(t, "SKU", header)

	value, err := f.GetCellValue("Variants", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Red", value)
	value, err = f.GetCellValue("Variants", "B2")
	require.NoError(t, err)
	assert.Equal(t, "RING-RED", value)
	value, err = f.GetCellValue("Variants", "C2")
	require.NoError(t, err)
	assert.Equal(t, "49.99", value)

	value, err = f.GetCellValue("Variants", "A3")
	require.NoError(t, err)
	assert.Equal(t, "Blue", value)
}

func TestExportVariants_ProductNotFound(t *testing.T) {
	_, svc := setupExportServiceTest(t)

	_, _, err := svc.ExportVariants(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
