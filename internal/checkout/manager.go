package checkout

import (
	"context"
	"log"
	"sync"

	"github.com/01072k1anhCong2/kinhkong/internal/auth"
	"github.com/01072k1anhCong2/kinhkong/internal/cart"
	"github.com/01072k1anhCong2/kinhkong/internal/domain"
	"github.com/01072k1anhCong2/kinhkong/internal/events"
)

// Submitter writes a finished order to the orders collection.
type Submitter interface {
	InsertOrder(ctx context.Context, order *domain.Order) error
}

// State is a snapshot of the flow handed to callers after every operation.
type State struct {
	Step         Step                 `json:"step"`
	CustomerInfo domain.CustomerInfo  `json:"customerInfo"`
	Payment      domain.PaymentMethod `json:"payment,omitempty"`
	Lines        []domain.CartLine    `json:"lines"`
	Total        int64                `json:"total"`
	BankDetails  *BankTransferDetails `json:"bankDetails,omitempty"`
}

// Manager owns at most one checkout flow per session and serializes all
// access to it, including the at-most-one-in-flight finalize guard.
type Manager struct {
	carts     *cart.Service
	orders    Submitter
	publisher events.Publisher

	mu    sync.Mutex
	flows map[string]*session
}

type session struct {
	flow     *Flow
	inFlight bool
}

func NewManager(carts *cart.Service, orders Submitter, publisher events.Publisher) *Manager {
	return &Manager{
		carts:     carts,
		orders:    orders,
		publisher: publisher,
		flows:     make(map[string]*session),
	}
}

// Begin starts a checkout for the session, or resumes the one already in
// progress. An empty cart refuses to enter checkout.
func (m *Manager) Begin(ctx context.Context, sessionID string) (State, error) {
	c := m.carts.Get(ctx, sessionID)
	if c.Empty() {
		return State{}, ErrEmptyCart
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.flows[sessionID]
	if !ok {
		s = &session{flow: NewFlow()}
		m.flows[sessionID] = s
	}
	return m.snapshot(s.flow, c), nil
}

// Current returns the state of the checkout in progress.
func (m *Manager) Current(ctx context.Context, sessionID string) (State, error) {
	c := m.carts.Get(ctx, sessionID)

	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.flows[sessionID]
	if !ok {
		return State{}, ErrNoCheckout
	}
	return m.snapshot(s.flow, c), nil
}

func (m *Manager) SetShipping(ctx context.Context, sessionID string, info domain.CustomerInfo) (State, error) {
	return m.withFlow(ctx, sessionID, func(f *Flow) error {
		f.SetCustomerInfo(info)
		return nil
	})
}

func (m *Manager) SelectPayment(ctx context.Context, sessionID string, method domain.PaymentMethod) (State, error) {
	return m.withFlow(ctx, sessionID, func(f *Flow) error {
		return f.SelectPayment(method)
	})
}

func (m *Manager) Next(ctx context.Context, sessionID string) (State, error) {
	return m.withFlow(ctx, sessionID, func(f *Flow) error {
		return f.Next()
	})
}

func (m *Manager) Back(ctx context.Context, sessionID string) (State, error) {
	return m.withFlow(ctx, sessionID, func(f *Flow) error {
		f.Back()
		return nil
	})
}

// PlaceOrder finalizes the checkout: it requires an identity and a flow at
// the confirmation step, submits the order as a single write, and only then
// clears the cart and discards the flow. On a failed write everything stays
// as it was so the user can retry.
func (m *Manager) PlaceOrder(ctx context.Context, sessionID string, identity *auth.Identity) (*domain.Order, error) {
	if identity == nil {
		return nil, ErrSignInRequired
	}

	c := m.carts.Get(ctx, sessionID)
	if c.Empty() {
		return nil, ErrEmptyCart
	}

	m.mu.Lock()
	s, ok := m.flows[sessionID]
	if !ok {
		m.mu.Unlock()
		return nil, ErrNoCheckout
	}
	if s.flow.Step() != StepConfirm {
		m.mu.Unlock()
		return nil, ErrNotAtConfirmation
	}
	if s.inFlight {
		m.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	s.inFlight = true
	order := s.flow.BuildOrder(identity, c.Lines(), c.Total())
	m.mu.Unlock()

	err := m.orders.InsertOrder(ctx, order)

	m.mu.Lock()
	s.inFlight = false
	if err == nil {
		delete(m.flows, sessionID)
	}
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}

	if err := m.carts.Clear(ctx, sessionID); err != nil {
		// The order is committed; an undeleted cart only means a stale badge.
		log.Printf("failed to clear cart for session %s: %v", sessionID, err)
	}

	if err := m.publisher.Publish(ctx, events.OrderPlaced(order)); err != nil {
		log.Printf("failed to publish order placed event: %v", err)
	}

	return order, nil
}

// Abandon drops the session's checkout state, if any.
func (m *Manager) Abandon(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flows, sessionID)
}

func (m *Manager) withFlow(ctx context.Context, sessionID string, fn func(*Flow) error) (State, error) {
	c := m.carts.Get(ctx, sessionID)

	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.flows[sessionID]
	if !ok {
		return State{}, ErrNoCheckout
	}
	if err := fn(s.flow); err != nil {
		return m.snapshot(s.flow, c), err
	}
	return m.snapshot(s.flow, c), nil
}

func (m *Manager) snapshot(f *Flow, c *cart.Cart) State {
	state := State{
		Step:         f.Step(),
		CustomerInfo: f.CustomerInfo(),
		Payment:      f.Payment(),
		Lines:        c.Lines(),
		Total:        c.Total(),
	}
	if f.ShowBankDetails() {
		details := TransferDetails(c.Total())
		state.BankDetails = &details
	}
	return state
}
