package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vestiapp/vesti-backend/config"
	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/internal/app/repository"
	"github.com/vestiapp/vesti-backend/internal/db"
	"github.com/vestiapp/vesti-backend/pkg/util"
)

// Seeds stores and products from an XLSX workbook. The workbook needs a
// "Stores" sheet (name, description, ownerEmail, latitude, longitude,
// pictureUrl) and optionally a "Products" sheet (storeName, name,
// description, price, category, sizes, colors, imageUrl). Sizes and colors
// are comma-separated. Owners that do not exist yet are created with a
// placeholder password.

const seedOwnerPassword = "changeme"

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	database, err := db.Connect(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close(database)

	if err := db.Migrate(database); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	userRepo := repository.NewUserRepository(database)
	storeRepo := repository.NewStoreRepository(database)
	productRepo := repository.NewProductRepository(database)

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX file:", err)
	}
	defer f.Close()

	stores, err := readStores(f, userRepo)
	if err != nil {
		log.Fatal("Failed to read stores:", err)
	}

	fmt.Printf("Total stores to import: %d\n", len(stores))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	if err := storeRepo.BulkCreate(stores, batchSize); err != nil {
		log.Fatal("Failed to bulk create stores:", err)
	}
	fmt.Printf("Stores imported: %d\n", len(stores))

	storeIDs := make(map[string]uint, len(stores))
	for _, store := range stores {
		storeIDs[store.Name] = store.ID
	}

	products, err := readProducts(f, storeIDs)
	if err != nil {
		log.Fatal("Failed to read products:", err)
	}

	if len(products) > 0 {
		if err := productRepo.BulkCreate(products, batchSize); err != nil {
			log.Fatal("Failed to bulk create products:", err)
		}
	}
	fmt.Printf("Products imported: %d\n", len(products))

	fmt.Println("Import completed successfully!")
}

func readStores(f *excelize.File, userRepo repository.UserRepository) ([]model.Store, error) {
	rows, err := f.GetRows("Stores")
	if err != nil {
		return nil, fmt.Errorf("failed to read Stores sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in Stores sheet")
	}

	var stores []model.Store
	owners := make(map[string]uint)
	seen := make(map[string]bool)
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 3 {
			skipped++
			continue
		}

		name := strings.TrimSpace(row[0])
		description := strings.TrimSpace(cell(row, 1))
		ownerEmail := strings.TrimSpace(cell(row, 2))
		latitudeStr := strings.TrimSpace(cell(row, 3))
		longitudeStr := strings.TrimSpace(cell(row, 4))
		pictureURL := strings.TrimSpace(cell(row, 5))

		if name == "" || ownerEmail == "" {
			skipped++
			continue
		}
		if seen[name] {
			skipped++
			continue
		}
		seen[name] = true

		ownerID, ok := owners[ownerEmail]
		if !ok {
			var err error
			ownerID, err = findOrCreateOwner(userRepo, name, ownerEmail)
			if err != nil {
				return nil, err
			}
			owners[ownerEmail] = ownerID
		}

		store := model.Store{
			OwnerID:     ownerID,
			Name:        name,
			Description: description,
			PictureURL:  pictureURL,
		}

		// Coordinates are optional; a store without them is skipped by
		// the nearby search
		lat, errLat := strconv.ParseFloat(latitudeStr, 64)
		lng, errLng := strconv.ParseFloat(longitudeStr, 64)
		if errLat == nil && errLng == nil {
			store.Latitude = &lat
			store.Longitude = &lng
		}

		stores = append(stores, store)
	}

	fmt.Printf("Stores: %d valid, %d skipped\n", len(stores), skipped)
	return stores, nil
}

func readProducts(f *excelize.File, storeIDs map[string]uint) ([]model.Product, error) {
	rows, err := f.GetRows("Products")
	if err != nil {
		// Products sheet is optional
		return nil, nil
	}

	var products []model.Product
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 4 {
			skipped++
			continue
		}

		storeName := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		description := strings.TrimSpace(cell(row, 2))
		priceStr := strings.TrimSpace(cell(row, 3))
		category := strings.TrimSpace(cell(row, 4))
		sizes := splitList(cell(row, 5))
		colors := splitList(cell(row, 6))
		imageURL := strings.TrimSpace(cell(row, 7))

		storeID, ok := storeIDs[storeName]
		if !ok || name == "" {
			skipped++
			continue
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			skipped++
			continue
		}

		products = append(products, model.Product{
			StoreID:         storeID,
			Name:            name,
			Description:     description,
			Price:           price,
			Category:        category,
			AvailableSizes:  sizes,
			AvailableColors: colors,
			ImageURL:        imageURL,
		})
	}

	fmt.Printf("Products: %d valid, %d skipped\n", len(products), skipped)
	return products, nil
}

func findOrCreateOwner(userRepo repository.UserRepository, storeName, email string) (uint, error) {
	if user, err := userRepo.FindByEmail(email); err == nil {
		return user.ID, nil
	}

	hash, err := util.HashPassword(seedOwnerPassword)
	if err != nil {
		return 0, fmt.Errorf("failed to hash owner password: %w", err)
	}

	user := &model.User{
		Name:         storeName,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
	}
	if err := userRepo.Create(user); err != nil {
		return 0, fmt.Errorf("failed to create owner %s: %w", email, err)
	}
	return user.ID, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func splitList(s string) model.StringArray {
	parts := strings.Split(s, ",")
	out := make(model.StringArray, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
