package services

import (
	"errors"

	"github.com/shopspring/decimal"

	"petstore/internal/domain"
	"petstore/internal/repos"
)

// CatalogService backs the public browsing API.
type CatalogService struct {
	Tax   *repos.TaxonomyRepo
	Cat   *repos.CatalogRepo
	Stock *repos.StorageRepo
}

func NewCatalogService(tax *repos.TaxonomyRepo, cat *repos.CatalogRepo, stock *repos.StorageRepo) *CatalogService {
	return &CatalogService{Tax: tax, Cat: cat, Stock: stock}
}

type BrowseFilter struct {
	GoodCategoryID int64
	BrandID        int64
	PetCategoryID  int64
	Limit          int
	Offset         int
}

func (s *CatalogService) Brands() ([]domain.Brand, error)        { return s.Tax.ListBrands() }
func (s *CatalogService) PetCategories() ([]domain.PetCategory, error) {
	return s.Tax.ListPetCategories()
}
func (s *CatalogService) GoodCategories() ([]domain.GoodCategory, error) {
	return s.Tax.ListGoodCategories()
}

func (s *CatalogService) Browse(f BrowseFilter) ([]domain.Catalog, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	return s.Cat.List(f.GoodCategoryID, f.BrandID, f.PetCategoryID, f.Limit, f.Offset)
}

// ItemDetail is the public view of one sellable item: the variant, its
// catalog entry and the current shelf state.
type ItemDetail struct {
	Item         domain.CatalogItem
	Catalog      domain.Catalog
	Cost         decimal.Decimal
	Availability domain.Availability
}

// ItemByPublicID resolves an item by its external identifier. A missing
// storage row reads as OUT_OF_STOCK rather than an error.
func (s *CatalogService) ItemByPublicID(publicID string) (ItemDetail, error) {
	item, err := s.Cat.GetItemByPublicID(publicID)
	if err != nil {
		return ItemDetail{}, err
	}
	cat, err := s.Cat.Get(item.CatalogID)
	if err != nil {
		return ItemDetail{}, err
	}

	d := ItemDetail{Item: item, Catalog: cat, Availability: domain.Availability{Status: "OUT_OF_STOCK"}}

	st, err := s.Stock.GetByItem(item.ID)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return d, nil
		}
		return ItemDetail{}, err
	}

	d.Cost = st.Cost
	d.Availability.Qty = st.Quantity
	switch {
	case st.Quantity >= 5:
		d.Availability.Status = "IN_STOCK"
	case st.Quantity > 0:
		d.Availability.Status = "LOW_STOCK"
	}
	return d, nil
}
