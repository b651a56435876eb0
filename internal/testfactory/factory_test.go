package testfactory_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"

	"petstore/internal/domain"
	"petstore/internal/repos"
	"petstore/internal/testfactory"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:factory_%s?mode=memory&cache=shared", name)
	db, err := repos.OpenDB(dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestFactoryMaterializesRows(t *testing.T) {
	f := testfactory.New(testDB(t))

	brand, err := f.CreateBrand()
	if err != nil {
		t.Fatal(err)
	}
	if brand.ID == 0 || brand.Code == "" || brand.DisplayName == "" {
		t.Fatalf("brand not materialized: %+v", brand)
	}
	pet, err := f.CreatePetCategory()
	if err != nil {
		t.Fatal(err)
	}
	good, err := f.CreateGoodCategory()
	if err != nil {
		t.Fatal(err)
	}

	catalog, err := f.CreateCatalog(testfactory.CreateCatalogParams{
		GoodCategoryID: good.ID,
		BrandID:        brand.ID,
		PetCategoryID:  pet.ID,
	})
	if err != nil {
		t.Fatal(err)
	}
	if catalog.ID == 0 || catalog.CreatedAt == "" {
		t.Fatalf("catalog not materialized: %+v", catalog)
	}

	item, err := f.CreateCatalogItem(testfactory.CreateCatalogItemParams{CatalogID: catalog.ID})
	if err != nil {
		t.Fatal(err)
	}
	if item.PublicID == "" {
		t.Fatalf("item has no public id: %+v", item)
	}

	st, err := f.CreateStorage(testfactory.CreateStorageParams{CatalogItemID: item.ID})
	if err != nil {
		t.Fatal(err)
	}
	if st.Quantity < 1 || st.Cost.IsNegative() {
		t.Fatalf("storage out of range: %+v", st)
	}

	user, err := f.CreateUser(testfactory.CreateUserParams{})
	if err != nil {
		t.Fatal(err)
	}
	if user.Phone == "" || user.LastSmsCode == 0 {
		t.Fatalf("user not materialized: %+v", user)
	}
}

func TestFactoryOrderPositions(t *testing.T) {
	f := testfactory.New(testDB(t))

	order, err := f.CreateOrder(testfactory.CreateOrderParams{Status: domain.OrderStatusCreated})
	if err != nil {
		t.Fatal(err)
	}

	positions, err := f.CreateOrderPositions(testfactory.CreateOrderPositionsParams{OrderID: order.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(positions) != 2 {
		t.Fatalf("want 2 positions, got %d", len(positions))
	}

	for _, pos := range positions {
		if pos.OrderID != order.ID {
			t.Fatalf("position attached to wrong order: %d", pos.OrderID)
		}
		var snap domain.PositionSnapshot
		if err := json.Unmarshal(pos.Data, &snap); err != nil {
			t.Fatalf("decode snapshot: %v", err)
		}
		if snap.CatalogItem.PublicID == "" || snap.Storage.ID == 0 {
			t.Fatalf("incomplete snapshot: %s", pos.Data)
		}
		if snap.Catalog.Brand.Code == "" || snap.Catalog.Pet.Code == "" || snap.Catalog.Good.Code == "" {
			t.Fatalf("snapshot missing taxonomy: %s", pos.Data)
		}
		if !pos.Cost.Equal(snap.Storage.Cost) {
			t.Fatalf("position cost %s differs from snapshot cost %s", pos.Cost, snap.Storage.Cost)
		}
	}

	orders, err := f.GetAllOrders()
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 1 {
		t.Fatalf("want 1 order, got %d", len(orders))
	}
	storages, err := f.GetAllStorageItems()
	if err != nil {
		t.Fatal(err)
	}
	if len(storages) != 2 {
		t.Fatalf("want 2 storage rows, got %d", len(storages))
	}
}

func TestGetCsrfToken(t *testing.T) {
	f := testfactory.New(testDB(t))

	// Stub of the verification endpoint: any POST earns a cookie.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/sms/verify_code" {
			http.NotFound(w, r)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "csrf_token", Value: "tok-123", Path: "/"})
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	token, err := f.GetCsrfToken(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if token != "tok-123" {
		t.Fatalf("want tok-123, got %q", token)
	}

	users, err := f.GetAllUsers()
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 {
		t.Fatalf("token flow must create exactly one user, got %d", len(users))
	}
}
