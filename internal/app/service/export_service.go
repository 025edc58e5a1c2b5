package service

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jasher/unlimited-options-backend/internal/app/repository"
	"github.com/jasher/unlimited-options-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ExportService interface {
	// ExportVariants renders a product's variant matrix as an xlsx workbook:
	// one column per option axis, then the priced fields.
	ExportVariants(productID uint) (*excelize.File, string, error)
}

type exportService struct {
	variantRepo repository.VariantRepository
	productRepo repository.ProductRepository
}

func NewExportService(variantRepo repository.VariantRepository, productRepo repository.ProductRepository) ExportService {
	return &exportService{
		variantRepo: variantRepo,
		productRepo: productRepo,
	}
}

func (s *exportService) ExportVariants(productID uint) (*excelize.File, string, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrProductNotFound
		}
		return nil, "", err
	}

	variants, err := s.variantRepo.FindByProductID(productID)
	if err != nil {
		return nil, "", err
	}

	logger.Info("Exporting variant matrix", map[string]interface{}{
		"product_id":    productID,
		"variant_count": len(variants),
	})

	attributes := ExtractAttributes(variants)

	f := excelize.NewFile()
	sheet := "Variants"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := make([]string, 0, len(attributes)+7)
	for _, attribute := range attributes {
		headers = append(headers, attribute.Name)
	}
	headers = append(headers, "SKU", "Price", "Compare At Price", "Cost", "Stock", "Active", "Shopify Variant ID")
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, variant := range variants {
		valueByAttribute := make(map[uint]string, len(variant.Options))
		for _, option := range variant.Options {
			valueByAttribute[option.AttributeID] = option.AttributeValue.Value
		}

		values := make([]interface{}, 0, len(headers))
		for _, attribute := range attributes {
			values = append(values, valueByAttribute[attribute.AttributeID])
		}
		values = append(values, variant.SKU, variant.Price)
		if variant.CompareAtPrice != nil {
			values = append(values, *variant.CompareAtPrice)
		} else {
			values = append(values, "")
		}
		if variant.Cost != nil {
			values = append(values, *variant.Cost)
		} else {
			values = append(values, "")
		}
		values = append(values, variant.StockQuantity, strconv.FormatBool(variant.IsActive))
		if variant.ShopifyVariantID != nil {
			values = append(values, *variant.ShopifyVariantID)
		} else {
			values = append(values, "")
		}

		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	filename := fmt.Sprintf("%s-variants.xlsx", product.Handle)
	if product.Handle == "" {
		filename = fmt.Sprintf("product-%d-variants.xlsx", product.ID)
	}
	return f, filename, nil
}
