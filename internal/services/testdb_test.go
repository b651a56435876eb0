package services_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"petstore/internal/domain"
	"petstore/internal/repos"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)
	db, err := repos.OpenDB(dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type shelf struct {
	catalog  domain.Catalog
	items    []domain.CatalogItem
	storages []domain.Storage
}

// seedShelf creates one catalog with two purchasable items in stock.
func seedShelf(t *testing.T, db *sqlx.DB) shelf {
	t.Helper()
	tax := repos.NewTaxonomyRepo(db)
	cat := repos.NewCatalogRepo(db)
	stock := repos.NewStorageRepo(db)

	good, err := tax.CreateGoodCategory("dry-food", "Dry Food")
	if err != nil {
		t.Fatal(err)
	}
	brand, err := tax.CreateBrand("acme", "Acme")
	if err != nil {
		t.Fatal(err)
	}
	pet, err := tax.CreatePetCategory("dog", "Dog")
	if err != nil {
		t.Fatal(err)
	}

	catalog, err := cat.Create(repos.CreateCatalogParams{
		GoodCategoryID:      good.ID,
		BrandID:             brand.ID,
		PetCategoryID:       pet.ID,
		DisplayName:         "Acme Dog Chow",
		Description:         "Crunchy kibble",
		Rating:              4.5,
		ManufacturerCountry: "Germany",
	})
	if err != nil {
		t.Fatal(err)
	}

	var s shelf
	s.catalog = catalog
	for i, cost := range []string{"100.50", "35.00"} {
		item, err := cat.CreateItem(repos.CreateCatalogItemParams{
			CatalogID: catalog.ID,
			PhotoUrls: []string{fmt.Sprintf("https://cdn.petstore.test/photos/%d.jpg", i+1)},
			WeightKg:  decimal.NullDecimal{Decimal: decimal.RequireFromString("2.5"), Valid: true},
		})
		if err != nil {
			t.Fatal(err)
		}
		st, err := stock.Create(repos.CreateStorageParams{
			CatalogItemID: item.ID,
			Cost:          decimal.RequireFromString(cost),
			Quantity:      10,
		})
		if err != nil {
			t.Fatal(err)
		}
		s.items = append(s.items, item)
		s.storages = append(s.storages, st)
	}
	return s
}
