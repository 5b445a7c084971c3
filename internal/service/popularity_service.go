package service

import (
	"time"

	"go-pos-register/internal/model"
	"go-pos-register/internal/pricing"
	"go-pos-register/internal/repository"
	"go-pos-register/pkg/apperror"

	"github.com/google/uuid"
)

type PopularityService interface {
	GetPopularProducts(windowDays, limit int, eventActive bool) ([]model.PopularProduct, error)
}

type popularityService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	now         func() time.Time
}

func NewPopularityService(saleRepo repository.SaleRepository, productRepo repository.ProductRepository) PopularityService {
	return &popularityService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// GetPopularProducts ranks products by quantity sold over the trailing
// windowDays. With no qualifying sales it falls back to the first limit
// catalog entries so the grid is never empty. Prices are adjusted for
// eventActive here, not in the ranking.
func (s *popularityService) GetPopularProducts(windowDays, limit int, eventActive bool) ([]model.PopularProduct, error) {
	if windowDays <= 0 {
		return nil, apperror.InvalidInput("window must be at least one day, got %d", windowDays)
	}
	if limit <= 0 {
		return nil, apperror.InvalidInput("limit must be positive, got %d", limit)
	}

	since := s.now().AddDate(0, 0, -windowDays)
	ranked, err := s.saleRepo.GetTopSelling(since, limit)
	if err != nil {
		return nil, err
	}

	if len(ranked) == 0 {
		return s.fallback(limit, eventActive)
	}

	ids := make([]uuid.UUID, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ProductID
	}
	products, err := s.productRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	popular := make([]model.PopularProduct, 0, len(ranked))
	for _, r := range ranked {
		p, ok := byID[r.ProductID]
		if !ok {
			continue
		}
		popular = append(popular, newPopularProduct(p, r.TotalQuantity, eventActive))
	}
	return popular, nil
}

func (s *popularityService) fallback(limit int, eventActive bool) ([]model.PopularProduct, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}
	if len(products) > limit {
		products = products[:limit]
	}

	popular := make([]model.PopularProduct, len(products))
	for i, p := range products {
		popular[i] = newPopularProduct(p, 0, eventActive)
	}
	return popular, nil
}

func newPopularProduct(p model.Product, sold int64, eventActive bool) model.PopularProduct {
	entry := model.NewCatalogEntry(p)
	return model.PopularProduct{
		CatalogEntry: entry,
		QuantitySold: sold,
		DisplayPrice: pricing.EffectivePrice(entry.Price, eventActive),
	}
}
