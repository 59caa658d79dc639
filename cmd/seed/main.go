package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/hanzla-outlet/outlet-backend/config"
	"github.com/hanzla-outlet/outlet-backend/internal/app/model"
	"github.com/hanzla-outlet/outlet-backend/internal/app/repository"
	"github.com/hanzla-outlet/outlet-backend/internal/db"
	"github.com/hanzla-outlet/outlet-backend/pkg/util"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Column layout of the catalog sheet. The first row is a header.
const (
	colCategory = iota
	colName
	colDescription
	colPrice
	colDiscountPrice
	colStock
	colSizes
	colColors
	colImages
	columnCount
)

type productRow struct {
	Line          int
	CategoryName  string
	Name          string
	Description   string
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
	Stock         int
	Sizes         []string
	Colors        []string
	Images        []string
}

type importStats struct {
	CategoriesCreated int
	ProductsCreated   int
	ProductsUpdated   int
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path> [--yes]")
	}
	filePath := os.Args[1]
	assumeYes := len(os.Args) > 2 && os.Args[2] == "--yes"

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	database, err := db.Initialize(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close(database)

	if err := db.Migrate(database); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, skipped, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	fmt.Printf("Products to import: %d (skipped rows: %d)\n", len(rows), skipped)

	if !assumeYes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	stats, err := importProducts(database, rows)
	if err != nil {
		log.Fatal("Import failed:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Categories created: %d, products created: %d, products updated: %d\n",
		stats.CategoriesCreated, stats.ProductsCreated, stats.ProductsUpdated)
}

// readProductsFromXLSX parses the first sheet. Rows with a missing name, a bad price or a
// negative stock are skipped and counted rather than failing the whole file.
func readProductsFromXLSX(filePath string) ([]productRow, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	products := []productRow{}
	skipped := 0
	for i, row := range rows[1:] {
		line := i + 2
		product, err := parseRow(row)
		if err != nil {
			fmt.Printf("Skipping row %d: %v\n", line, err)
			skipped++
			continue
		}
		product.Line = line
		products = append(products, product)
	}
	return products, skipped, nil
}

func parseRow(row []string) (productRow, error) {
	cells := make([]string, columnCount)
	for i := 0; i < len(row) && i < columnCount; i++ {
		cells[i] = strings.TrimSpace(row[i])
	}

	p := productRow{
		CategoryName: cells[colCategory],
		Name:         cells[colName],
		Description:  cells[colDescription],
		Sizes:        splitList(cells[colSizes]),
		Colors:       splitList(cells[colColors]),
		Images:       splitList(cells[colImages]),
	}
	if p.Name == "" {
		return p, errors.New("name is empty")
	}

	price, err := decimal.NewFromString(cells[colPrice])
	if err != nil || !price.IsPositive() {
		return p, fmt.Errorf("invalid price %q", cells[colPrice])
	}
	p.Price = price.Round(2)

	if cells[colDiscountPrice] != "" {
		discount, err := decimal.NewFromString(cells[colDiscountPrice])
		if err != nil || !discount.IsPositive() || discount.GreaterThanOrEqual(p.Price) {
			return p, fmt.Errorf("invalid discount price %q", cells[colDiscountPrice])
		}
		discount = discount.Round(2)
		p.DiscountPrice = &discount
	}

	if cells[colStock] != "" {
		stock, err := strconv.Atoi(cells[colStock])
		if err != nil || stock < 0 {
			return p, fmt.Errorf("invalid stock %q", cells[colStock])
		}
		p.Stock = stock
	}
	return p, nil
}

// splitList accepts comma or pipe separated cells.
func splitList(cell string) []string {
	values := []string{}
	for _, part := range strings.FieldsFunc(cell, func(r rune) bool { return r == ',' || r == '|' }) {
		if v := strings.TrimSpace(part); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// importProducts upserts categories and products by slug inside one transaction, so a
// failing row leaves the catalog untouched.
func importProducts(database *gorm.DB, rows []productRow) (*importStats, error) {
	stats := &importStats{}
	err := database.Transaction(func(tx *gorm.DB) error {
		categoryRepo := repository.NewCategoryRepository(tx)
		productRepo := repository.NewProductRepository(tx)
		categoryIDs := map[string]uint{}

		for _, row := range rows {
			var categoryID *uint
			if row.CategoryName != "" {
				id, created, err := ensureCategory(categoryRepo, categoryIDs, row.CategoryName)
				if err != nil {
					return fmt.Errorf("row %d: %w", row.Line, err)
				}
				if created {
					stats.CategoriesCreated++
				}
				categoryID = &id
			}

			slug := util.Slugify(row.Name)
			existing, err := productRepo.FindBySlug(slug, false)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				product := &model.Product{
					Name:          row.Name,
					Slug:          slug,
					Description:   row.Description,
					Price:         row.Price,
					DiscountPrice: row.DiscountPrice,
					Images:        model.StringList(row.Images),
					Sizes:         model.StringList(row.Sizes),
					Colors:        model.StringList(row.Colors),
					Stock:         row.Stock,
					CategoryID:    categoryID,
					IsActive:      true,
				}
				if err := productRepo.Create(product); err != nil {
					return fmt.Errorf("row %d: %w", row.Line, err)
				}
				stats.ProductsCreated++
			case err != nil:
				return fmt.Errorf("row %d: %w", row.Line, err)
			default:
				fields := map[string]interface{}{
					"name":           row.Name,
					"description":    row.Description,
					"price":          row.Price,
					"discount_price": row.DiscountPrice,
					"images":         model.StringList(row.Images),
					"sizes":          model.StringList(row.Sizes),
					"colors":         model.StringList(row.Colors),
					"stock":          row.Stock,
					"category_id":    categoryID,
				}
				if err := productRepo.Updates(existing, fields); err != nil {
					return fmt.Errorf("row %d: %w", row.Line, err)
				}
				stats.ProductsUpdated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func ensureCategory(repo repository.CategoryRepository, known map[string]uint, name string) (uint, bool, error) {
	slug := util.Slugify(name)
	if id, ok := known[slug]; ok {
		return id, false, nil
	}

	category, err := repo.FindBySlug(slug)
	if err == nil {
		known[slug] = category.ID
		return category.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, err
	}

	category = &model.Category{Name: name, Slug: slug}
	if err := repo.Create(category); err != nil {
		return 0, false, err
	}
	known[slug] = category.ID
	return category.ID, true, nil
}
