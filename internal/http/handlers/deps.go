package handlers

import (
	"github.com/jmoiron/sqlx"

	"petstore/internal/config"
	"petstore/internal/repos"
	"petstore/internal/services"
)

type Deps struct {
	CatalogHandler *CatalogHandler
	OrderHandler   *OrderHandler
	AuthHandler    *AuthHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, sms services.SMSSender) *Deps {
	taxRepo := repos.NewTaxonomyRepo(db)
	catRepo := repos.NewCatalogRepo(db)
	stockRepo := repos.NewStorageRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	userRepo := repos.NewUserRepo(db)

	catalogSvc := services.NewCatalogService(taxRepo, catRepo, stockRepo)
	orderSvc := services.NewOrderService(orderRepo)
	authSvc := services.NewAuthService(userRepo, sms, cfg.SMSCodeTTL)

	return &Deps{
		CatalogHandler: &CatalogHandler{Catalog: catalogSvc},
		OrderHandler:   &OrderHandler{Orders: orderSvc},
		AuthHandler:    &AuthHandler{Auth: authSvc},
	}
}
