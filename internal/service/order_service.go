package service

import (
	"os"
	"sync"

	"go-pos-register/internal/model"
	"go-pos-register/internal/pricing"
	"go-pos-register/internal/repository"
	"go-pos-register/internal/ws"
	"go-pos-register/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "service").Logger()

// OrderService is the till's running order. Every method is one transition
// and returns the order as it stands afterwards.
type OrderService interface {
	AddProduct(productID uuid.UUID) (*model.OrderSnapshot, error)
	AddProductByName(category, name string) (*model.OrderSnapshot, error)
	RemoveOne(lineIndex int) (*model.OrderSnapshot, error)
	ToggleEventPricing() (*model.OrderSnapshot, error)
	Pay() (*model.PaymentReceipt, error)
	Snapshot() *model.OrderSnapshot
	EventPricing() bool
}

type OrderOptions struct {
	// TrackStock decrements product stock when an order is paid.
	TrackStock bool
}

type orderService struct {
	// mu serializes transitions: no two run interleaved on the same order.
	mu sync.Mutex

	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	db          *gorm.DB
	publisher   ws.Publisher
	trackStock  bool

	orderID     uuid.UUID
	state       model.OrderState
	lines       []model.OrderLine
	eventActive bool
}

func NewOrderService(pRepo repository.ProductRepository, sRepo repository.SaleRepository, db *gorm.DB, publisher ws.Publisher, opts OrderOptions) OrderService {
	if publisher == nil {
		publisher = ws.Discard
	}
	return &orderService{
		productRepo: pRepo,
		saleRepo:    sRepo,
		db:          db,
		publisher:   publisher,
		trackStock:  opts.TrackStock,
		orderID:     uuid.New(),
		state:       model.OrderEmpty,
	}
}

func (s *orderService) AddProduct(productID uuid.UUID) (*model.OrderSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		return s.snapshotLocked(), err
	}
	s.addLocked(product)
	return s.snapshotLocked(), nil
}

// AddProductByName resolves the product by exact, case-sensitive category and
// product name. Category may be the virtual Home tab.
func (s *orderService) AddProductByName(category, name string) (*model.OrderSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.productRepo.FindByCategoryAndName(category, name)
	if err != nil {
		return s.snapshotLocked(), err
	}
	s.addLocked(product)
	return s.snapshotLocked(), nil
}

// addLocked increments the product's line up to the product's stock, or
// appends a new line when stock allows. Hitting the ceiling is not an error.
func (s *orderService) addLocked(product *model.Product) {
	for i := range s.lines {
		line := &s.lines[i]
		if line.ProductID != product.ID {
			continue
		}
		if line.Quantity >= product.Stock {
			logger.Debug().Str("product", product.Name).Int("stock", product.Stock).Msg("stock ceiling reached")
			return
		}
		line.Quantity++
		s.changedLocked()
		return
	}

	if product.Stock <= 0 {
		logger.Debug().Str("product", product.Name).Msg("out of stock")
		return
	}

	categoryName := ""
	if product.Category != nil {
		categoryName = product.Category.Name
	}
	s.lines = append(s.lines, model.OrderLine{
		ProductID:   product.ID,
		Category:    categoryName,
		ProductName: product.Name,
		SKU:         product.SKUValue(),
		UnitPrice:   pricing.EffectivePrice(product.Price, s.eventActive),
		BasePrice:   product.Price,
		Quantity:    1,
	})
	s.changedLocked()
}

func (s *orderService) RemoveOne(lineIndex int) (*model.OrderSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if lineIndex < 0 || lineIndex >= len(s.lines) {
		return s.snapshotLocked(), apperror.InvalidInput("line index %d out of range [0,%d)", lineIndex, len(s.lines))
	}

	if s.lines[lineIndex].Quantity > 1 {
		s.lines[lineIndex].Quantity--
	} else {
		s.lines = append(s.lines[:lineIndex], s.lines[lineIndex+1:]...)
	}
	s.changedLocked()
	return s.snapshotLocked(), nil
}

// ToggleEventPricing flips the flag and reprices every line from its catalog
// base price. A product no longer in the catalog keeps the base price captured
// when it was added. On a storage error nothing changes.
func (s *orderService) ToggleEventPricing() (*model.OrderSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := !s.eventActive
	repriced := make([]model.OrderLine, len(s.lines))
	for i, line := range s.lines {
		base := line.BasePrice
		product, err := s.productRepo.FindByID(line.ProductID)
		switch {
		case err == nil:
			base = product.Price
		case apperror.KindOf(err) == apperror.KindNotFound:
			logger.Warn().Str("product", line.ProductName).Msg("product left the catalog, repricing from captured base price")
		default:
			logger.Error().Err(err).Msg("toggle event pricing aborted")
			return s.snapshotLocked(), err
		}
		line.BasePrice = base
		line.UnitPrice = pricing.EffectivePrice(base, active)
		repriced[i] = line
	}

	s.eventActive = active
	s.lines = repriced

	s.publisher.Publish(ws.Event{Type: ws.EventPricingToggled, Payload: map[string]bool{"event_pricing": active}})
	s.changedLocked()
	return s.snapshotLocked(), nil
}

// Pay commits the order to the ledger and clears it. The ledger writes, the
// stock decrements and the idempotency check share one transaction; the
// order is only cleared after commit. An empty order returns (nil, nil).
func (s *orderService) Pay() (*model.PaymentReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.lines) == 0 {
		return nil, nil
	}

	s.state = model.OrderFinalizing
	receipt := &model.PaymentReceipt{OrderID: s.orderID, Total: s.totalLocked()}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		committed, err := s.saleRepo.ExistsForOrder(tx, s.orderID)
		if err != nil {
			return err
		}
		if committed {
			logger.Warn().Str("order_id", s.orderID.String()).Msg("order already in ledger, skipping writes")
			return nil
		}

		for _, line := range s.lines {
			if s.trackStock {
				if err := s.productRepo.DecrementStock(tx, line.ProductID, line.Quantity); err != nil {
					return err
				}
			} else if _, err := s.productRepo.FindByIDTx(tx, line.ProductID); err != nil {
				return err
			}

			sale := model.SaleRecord{
				OrderID:   s.orderID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
			}
			if err := s.saleRepo.Create(tx, &sale); err != nil {
				return err
			}
			receipt.Records = append(receipt.Records, sale)
		}
		return nil
	})
	if err != nil {
		if apperror.KindOf(err) == 0 {
			err = apperror.StorageFailure(err, "commit payment")
		}
		s.state = model.OrderActive
		logger.Error().Err(err).Str("order_id", s.orderID.String()).Msg("payment failed, order kept")
		return nil, err
	}

	logger.Info().
		Str("order_id", s.orderID.String()).
		Int("lines", len(s.lines)).
		Str("total", pricing.Display(receipt.Total)).
		Msg("order paid")

	s.lines = nil
	s.orderID = uuid.New()
	s.changedLocked()
	s.publisher.Publish(ws.Event{Type: ws.EventPopularRefresh, Payload: map[string]interface{}{"order_id": receipt.OrderID}})
	return receipt, nil
}

func (s *orderService) Snapshot() *model.OrderSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *orderService) EventPricing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eventActive
}

// changedLocked settles the state after a mutation and signals the UI.
func (s *orderService) changedLocked() {
	if len(s.lines) == 0 {
		s.state = model.OrderEmpty
	} else {
		s.state = model.OrderActive
	}
	s.publisher.Publish(ws.Event{Type: ws.EventOrderUpdated})
}

func (s *orderService) totalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

func (s *orderService) snapshotLocked() *model.OrderSnapshot {
	total := s.totalLocked()
	views := make([]model.OrderLineView, len(s.lines))
	for i, line := range s.lines {
		views[i] = model.OrderLineView{
			OrderLine:       line,
			Position:        i + 1,
			DisplayUnit:     pricing.Display(line.UnitPrice),
			DisplaySubtotal: pricing.Display(line.Subtotal()),
		}
	}
	return &model.OrderSnapshot{
		OrderID:      s.orderID,
		State:        s.state,
		Lines:        views,
		Total:        total,
		DisplayTotal: pricing.Display(total),
		EventPricing: s.eventActive,
	}
}
