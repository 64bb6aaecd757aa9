package service

import (
	"context"
	"sync"
	"time"

	cartdomain "github.com/reda57493110/pixelpad-backend/internal/cart/domain"
	catalogdomain "github.com/reda57493110/pixelpad-backend/internal/catalog/domain"
	"github.com/reda57493110/pixelpad-backend/internal/checkout/domain"
	"github.com/reda57493110/pixelpad-backend/internal/checkout/draft"
	identitystore "github.com/reda57493110/pixelpad-backend/internal/identity/store"
	ordersrepo "github.com/reda57493110/pixelpad-backend/internal/orders/repository"
	"github.com/reda57493110/pixelpad-backend/internal/payment"
)

// CartGateway is what checkout needs from the cart: the current lines and an
// atomic clear at commit.
type CartGateway interface {
	GetCart(ctx context.Context, userID string) (*cartdomain.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

// ProductGateway is the lookup capability stock validation runs over.
type ProductGateway interface {
	GetProduct(ctx context.Context, id string) (*catalogdomain.Product, error)
}

type CheckoutService interface {
	Resume(ctx context.Context, req *ResumeRequest) (*ResumeResponse, error)
	SaveDraft(ctx context.Context, sessionKey string, d *domain.Draft) error
	Submit(ctx context.Context, req *SubmitRequest) (*SubmitResult, error)
	ConvertGuest(ctx context.Context, req *ConvertRequest) (*ConvertResult, error)
}

type CheckoutServiceImpl struct {
	products  ProductGateway
	cart      CartGateway
	drafts    draft.Store
	addresses draft.AddressCache
	sessions  payment.SessionManager
	orders    ordersrepo.OrderRepository
	users     identitystore.UserStore

	now func() time.Time

	// Per session key: in-flight submission guard, completed order id, and
	// the once-only auto-advance marker. Checked synchronously, so a double
	// click can never start two sagas.
	inflight  sync.Map
	completed sync.Map
	advanced  sync.Map
}

func NewCheckoutService(
	products ProductGateway,
	cart CartGateway,
	drafts draft.Store,
	addresses draft.AddressCache,
	sessions payment.SessionManager,
	orders ordersrepo.OrderRepository,
	users identitystore.UserStore,
) *CheckoutServiceImpl {
	return &CheckoutServiceImpl{
		products:  products,
		cart:      cart,
		drafts:    drafts,
		addresses: addresses,
		sessions:  sessions,
		orders:    orders,
		users:     users,
		now:       time.Now,
	}
}
