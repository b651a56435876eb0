// Package testfactory populates the schema with randomized entities for
// verification purposes. Every creation helper persists the entity and
// returns the re-read, fully materialized row, because ids, public ids and
// timestamps exist only after the engine processed the insert.
package testfactory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"petstore/internal/domain"
	"petstore/internal/repos"
)

type Factory struct {
	Tax    *repos.TaxonomyRepo
	Cat    *repos.CatalogRepo
	Stock  *repos.StorageRepo
	Orders *repos.OrderRepo
	Users  *repos.UserRepo
}

func New(db *sqlx.DB) *Factory {
	return &Factory{
		Tax:    repos.NewTaxonomyRepo(db),
		Cat:    repos.NewCatalogRepo(db),
		Stock:  repos.NewStorageRepo(db),
		Orders: repos.NewOrderRepo(db),
		Users:  repos.NewUserRepo(db),
	}
}

var (
	adjectives = []string{"Happy", "Fluffy", "Golden", "Rustic", "Cosmic", "Gentle", "Brave", "Sunny"}
	nouns      = []string{"Paws", "Whiskers", "Tails", "Snout", "Feathers", "Fangs", "Hooves", "Fins"}
	countries  = []string{"Germany", "France", "Brazil", "Canada", "Japan", "Netherlands"}
)

func randomName(kind string) string {
	return fmt.Sprintf("%s %s %s %d",
		adjectives[rand.Intn(len(adjectives))],
		nouns[rand.Intn(len(nouns))],
		kind,
		rand.Intn(1_000_000))
}

func slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

func randomPhone() string {
	return fmt.Sprintf("+7%09d", rand.Intn(1_000_000_000))
}

func (f *Factory) CreateBrand() (domain.Brand, error) {
	name := randomName("Brand")
	return f.Tax.CreateBrand(slugify(name), name)
}

func (f *Factory) CreatePetCategory() (domain.PetCategory, error) {
	name := randomName("Pets")
	return f.Tax.CreatePetCategory(slugify(name), name)
}

func (f *Factory) CreateGoodCategory() (domain.GoodCategory, error) {
	name := randomName("Goods")
	return f.Tax.CreateGoodCategory(slugify(name), name)
}

type CreateCatalogParams struct {
	GoodCategoryID int64
	BrandID        int64
	PetCategoryID  int64
}

func (f *Factory) CreateCatalog(p CreateCatalogParams) (domain.Catalog, error) {
	return f.Cat.Create(repos.CreateCatalogParams{
		GoodCategoryID:      p.GoodCategoryID,
		BrandID:             p.BrandID,
		PetCategoryID:       p.PetCategoryID,
		DisplayName:         randomName("Food"),
		Description:         "Tasty and wholesome. " + randomName("blend"),
		Rating:              rand.Float64() * 5,
		ManufacturerCountry: countries[rand.Intn(len(countries))],
	})
}

type CreateCatalogItemParams struct {
	CatalogID int64
}

func (f *Factory) CreateCatalogItem(p CreateCatalogItemParams) (domain.CatalogItem, error) {
	weight := decimal.NewFromFloat(rand.Float64() * 30).Round(3)
	return f.Cat.CreateItem(repos.CreateCatalogItemParams{
		CatalogID: p.CatalogID,
		PhotoUrls: []string{fmt.Sprintf("https://cdn.petstore.test/photos/%d.jpg", rand.Intn(1_000_000))},
		WeightKg:  decimal.NullDecimal{Decimal: weight, Valid: true},
	})
}

type CreateStorageParams struct {
	CatalogItemID int64
}

func (f *Factory) CreateStorage(p CreateStorageParams) (domain.Storage, error) {
	cost := decimal.NewFromFloat(rand.Float64() * 1000).Round(2)
	return f.Stock.Create(repos.CreateStorageParams{
		CatalogItemID: p.CatalogItemID,
		Cost:          cost,
		Quantity:      int64(rand.Intn(100)) + 1,
	})
}

type CreateOrderParams struct {
	Status     domain.OrderStatus
	Resolution domain.OrderResolution
}

func (f *Factory) CreateOrder(p CreateOrderParams) (domain.Order, error) {
	return f.Orders.Create(repos.CreateOrderParams{
		ClientPhone:     randomPhone(),
		DeliveryAddress: fmt.Sprintf("%d Main Street", rand.Intn(900)+1),
		DeliveryComment: "Leave at the door. " + randomName("note"),
		DeliveryDate:    time.Now().UTC().Add(72 * time.Hour).Format(domain.TimeFormat),
		Status:          p.Status,
		Resolution:      p.Resolution,
	})
}

type CreateOrderPositionsParams struct {
	OrderID int64
}

// CreateOrderPositions builds a full catalog subtree (taxonomy, catalog, two
// items with storage) and attaches one position per item to the order. Each
// snapshot is assembled from the freshly materialized rows, never from
// cached references.
func (f *Factory) CreateOrderPositions(p CreateOrderPositionsParams) ([]domain.OrderPosition, error) {
	brand, err := f.CreateBrand()
	if err != nil {
		return nil, err
	}
	pet, err := f.CreatePetCategory()
	if err != nil {
		return nil, err
	}
	good, err := f.CreateGoodCategory()
	if err != nil {
		return nil, err
	}

	catalog, err := f.CreateCatalog(CreateCatalogParams{
		GoodCategoryID: good.ID,
		BrandID:        brand.ID,
		PetCategoryID:  pet.ID,
	})
	if err != nil {
		return nil, err
	}

	var positions []domain.OrderPosition
	for i := 0; i < 2; i++ {
		item, err := f.CreateCatalogItem(CreateCatalogItemParams{CatalogID: catalog.ID})
		if err != nil {
			return nil, err
		}
		st, err := f.CreateStorage(CreateStorageParams{CatalogItemID: item.ID})
		if err != nil {
			return nil, err
		}

		data, err := domain.NewPositionSnapshot(st, catalog, item, brand, pet, good).Marshal()
		if err != nil {
			return nil, err
		}

		pos, err := f.Orders.CreatePosition(repos.CreateOrderPositionParams{
			OrderID:  p.OrderID,
			Cost:     st.Cost,
			Quantity: int64(rand.Intn(5)) + 1,
			Data:     data,
		})
		if err != nil {
			return nil, err
		}
		positions = append(positions, pos)
	}

	return positions, nil
}

type CreateUserParams struct {
	LastSmsCodeAt string
}

func (f *Factory) CreateUser(p CreateUserParams) (domain.User, error) {
	codeAt := p.LastSmsCodeAt
	if codeAt == "" {
		codeAt = time.Now().UTC().Format(domain.TimeFormat)
	}
	return f.Users.Create(repos.CreateUserParams{
		Phone:         randomPhone(),
		LastSmsCode:   int64(100000 + rand.Intn(900000)),
		LastSmsCodeAt: codeAt,
	})
}

func (f *Factory) GetAllUsers() ([]domain.User, error)           { return f.Users.ListAll() }
func (f *Factory) GetAllStorageItems() ([]domain.Storage, error) { return f.Stock.ListAll() }
func (f *Factory) GetAllOrders() ([]domain.Order, error)         { return f.Orders.ListAll() }

var csrfCookieRe = regexp.MustCompile(`csrf_token=(.+?);`)

// GetCsrfToken creates a user with a fresh code, runs the SMS verification
// endpoint and extracts the csrf_token cookie from the response headers.
func (f *Factory) GetCsrfToken(baseURL string) (string, error) {
	user, err := f.CreateUser(CreateUserParams{})
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(map[string]string{
		"phone": user.Phone,
		"code":  fmt.Sprintf("%d", user.LastSmsCode),
	})
	if err != nil {
		return "", err
	}

	resp, err := http.Post(baseURL+"/api/v1/sms/verify_code", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	for _, cookie := range resp.Header.Values("Set-Cookie") {
		if m := csrfCookieRe.FindStringSubmatch(cookie); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("csrf_token cookie not present in response")
}
