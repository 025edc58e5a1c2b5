package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jasher/unlimited-options-backend/config"
	"github.com/jasher/unlimited-options-backend/internal/app/model"
	"github.com/jasher/unlimited-options-backend/internal/app/repository"
	"github.com/jasher/unlimited-options-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Imports attributes and their values from an xlsx workbook. Expected
// columns: attribute name, value, image URL (optional), is default
// ("yes"/"no", optional). Rows sharing an attribute name accumulate values
// under one attribute.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	attributeRepo := repository.NewAttributeRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	attributes, err := readAttributesFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Attributes to import: %d\n", len(attributes))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported := 0
	for i := range attributes {
		if err := attributeRepo.Create(&attributes[i]); err != nil {
			fmt.Printf("Skipping attribute %q: %v\n", attributes[i].Name, err)
			continue
		}
		imported++
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total attributes imported: %d\n", imported)
}

func readAttributesFromXLSX(filePath string) ([]model.Attribute, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var attributes []model.Attribute
	attributeIndex := map[string]int{}
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}
		if len(row) < 2 {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(row[0])
		value := strings.TrimSpace(row[1])
		if name == "" || value == "" {
			skippedCount++
			continue
		}

		imageURL := ""
		if len(row) > 2 {
			imageURL = strings.TrimSpace(row[2])
		}
		isDefault := false
		if len(row) > 3 {
			flag := strings.ToLower(strings.TrimSpace(row[3]))
			isDefault = flag == "yes" || flag == "y" || flag == "true"
		}

		idx, ok := attributeIndex[name]
		if !ok {
			attributes = append(attributes, model.Attribute{
				Name:         name,
				Slug:         model.Slugify(name),
				DisplayOrder: len(attributes),
			})
			idx = len(attributes) - 1
			attributeIndex[name] = idx
		}

		attribute := &attributes[idx]
		attribute.Values = append(attribute.Values, model.AttributeValue{
			Value:        value,
			Slug:         model.Slugify(value),
			ImageURL:     imageURL,
			IsDefault:    isDefault,
			DisplayOrder: len(attribute.Values),
		})
	}

	if skippedCount > 0 {
		fmt.Printf("Skipped %d malformed rows\n", skippedCount)
	}
	return attributes, nil
}
