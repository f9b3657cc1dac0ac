package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"creator-commerce/internal/model"
	"creator-commerce/internal/repository"

	"github.com/stripe/stripe-go/v81"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is an in-memory document store that counts every call.
type memStore struct {
	mu          sync.Mutex
	sellers     map[string]model.Seller
	accounts    map[string]model.ConnectedAccount
	bundles     map[string]model.Bundle
	purchases   map[string]model.Purchase
	events      map[string]model.WebhookEvent
	reads       int
	createCalls int
	writes      int
	failReads   error
}

func newMemStore() *memStore {
	return &memStore{
		sellers:   map[string]model.Seller{},
		accounts:  map[string]model.ConnectedAccount{},
		bundles:   map[string]model.Bundle{},
		purchases: map[string]model.Purchase{},
		events:    map[string]model.WebhookEvent{},
	}
}

func (m *memStore) read() error {
	m.reads++
	return m.failReads
}

func (m *memStore) purchaseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.purchases)
}

func (m *memStore) stores() *repository.Stores {
	return &repository.Stores{
		Purchases:         memPurchases{m},
		Sellers:           memSellers{m},
		ConnectedAccounts: memAccounts{m},
		Bundles:           memBundles{m},
		WebhookEvents:     memEvents{m},
	}
}

type memPurchases struct{ m *memStore }

func (r memPurchases) Exists(ctx context.Context, sessionID string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.read(); err != nil {
		return false, err
	}
	_, ok := r.m.purchases[sessionID]
	return ok, nil
}

func (r memPurchases) Get(ctx context.Context, sessionID string) (*model.Purchase, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.read(); err != nil {
		return nil, err
	}
	p, ok := r.m.purchases[sessionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r memPurchases) CreateIfAbsent(ctx context.Context, purchase *model.Purchase) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.createCalls++
	if _, ok := r.m.purchases[purchase.SessionID]; ok {
		return repository.ErrAlreadyExists
	}
	r.m.purchases[purchase.SessionID] = *purchase
	r.m.writes++
	return nil
}

type memSellers struct{ m *memStore }

func (r memSellers) Create(ctx context.Context, seller *model.Seller) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.sellers[seller.ID]; ok {
		return repository.ErrAlreadyExists
	}
	r.m.sellers[seller.ID] = *seller
	r.m.writes++
	return nil
}

func (r memSellers) Get(ctx context.Context, sellerID string) (*model.Seller, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.read(); err != nil {
		return nil, err
	}
	s, ok := r.m.sellers[sellerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

type memAccounts struct{ m *memStore }

func (r memAccounts) GetBySeller(ctx context.Context, sellerID string) (*model.ConnectedAccount, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.read(); err != nil {
		return nil, err
	}
	a, ok := r.m.accounts[sellerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r memAccounts) GetByAccountID(ctx context.Context, accountID string) (*model.ConnectedAccount, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.read(); err != nil {
		return nil, err
	}
	for _, a := range r.m.accounts {
		if a.AccountID == accountID {
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memAccounts) Upsert(ctx context.Context, account *model.ConnectedAccount) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.accounts[account.SellerID] = *account
	r.m.writes++
	return nil
}

func (r memAccounts) CreateIfAbsent(ctx context.Context, account *model.ConnectedAccount) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.accounts[account.SellerID]; ok {
		return repository.ErrAlreadyExists
	}
	r.m.accounts[account.SellerID] = *account
	r.m.writes++
	return nil
}

func (r memAccounts) UpdateCapabilities(ctx context.Context, accountID string, chargesEnabled, payoutsEnabled, detailsSubmitted bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for sellerID, a := range r.m.accounts {
		if a.AccountID == accountID {
			a.ChargesEnabled = chargesEnabled
			a.PayoutsEnabled = payoutsEnabled
			a.DetailsSubmitted = detailsSubmitted
			r.m.accounts[sellerID] = a
			r.m.writes++
			return nil
		}
	}
	return repository.ErrNotFound
}

type memBundles struct{ m *memStore }

func (r memBundles) Get(ctx context.Context, bundleID string) (*model.Bundle, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.read(); err != nil {
		return nil, err
	}
	b, ok := r.m.bundles[bundleID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (r memBundles) Upsert(ctx context.Context, bundle *model.Bundle) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.bundles[bundle.ID] = *bundle
	r.m.writes++
	return nil
}

type memEvents struct{ m *memStore }

func (r memEvents) Exists(ctx context.Context, eventID string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.events[eventID]
	return ok, nil
}

func (r memEvents) MarkProcessed(ctx context.Context, eventID, eventType, account string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.events[eventID]; !ok {
		r.m.events[eventID] = model.WebhookEvent{EventID: eventID, EventType: eventType, Account: account}
	}
	return nil
}

// fakeStripe serves checkout sessions per connected account and treats the
// signature "valid" as the only correct webhook signature.
type fakeStripe struct {
	mu           sync.Mutex
	sessions     map[string]*stripe.CheckoutSession // "<account>/<session>"
	getErr       error
	getCalls     int
	lastAccount  string
	nextAccount  int
	accountsMade []string
	links        []string
	// onAccountCreated runs after an account is made, before it is returned
	onAccountCreated func(id string)
}

func newFakeStripe() *fakeStripe {
	return &fakeStripe{sessions: map[string]*stripe.CheckoutSession{}}
}

func (f *fakeStripe) addSession(accountID string, sess *stripe.CheckoutSession) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[accountID+"/"+sess.ID] = sess
}

func (f *fakeStripe) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls
}

func (f *fakeStripe) GetCheckoutSession(ctx context.Context, sessionID, accountID string) (*stripe.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	f.lastAccount = accountID
	if f.getErr != nil {
		return nil, f.getErr
	}
	sess, ok := f.sessions[accountID+"/"+sessionID]
	if !ok {
		return nil, &stripe.Error{
			HTTPStatusCode: http.StatusNotFound,
			Code:           stripe.ErrorCodeResourceMissing,
			Msg:            "No such checkout.session: " + sessionID,
		}
	}
	cp := *sess
	return &cp, nil
}

func (f *fakeStripe) CreateConnectAccount(ctx context.Context, email string) (*stripe.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextAccount++
	id := fmt.Sprintf("acct_new_%d", f.nextAccount)
	f.accountsMade = append(f.accountsMade, id)
	if f.onAccountCreated != nil {
		f.onAccountCreated(id)
	}
	return &stripe.Account{ID: id, Email: email}, nil
}

func (f *fakeStripe) CreateAccountLink(ctx context.Context, accountID, returnURL, refreshURL string) (*stripe.AccountLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.links = append(f.links, accountID)
	return &stripe.AccountLink{URL: "https://connect.stripe.com/setup/" + accountID}, nil
}

func (f *fakeStripe) ConstructEvent(payload []byte, signature string) (stripe.Event, error) {
	if signature != "valid" {
		return stripe.Event{}, errors.New("webhook has invalid signature")
	}
	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return stripe.Event{}, err
	}
	return event, nil
}

func completedSession(id, sellerID, bundleID string) *stripe.CheckoutSession {
	md := map[string]string{}
	if sellerID != "" {
		md["sellerId"] = sellerID
	}
	if bundleID != "" {
		md["bundleId"] = bundleID
	}
	return &stripe.CheckoutSession{
		ID:            id,
		Status:        stripe.CheckoutSessionStatusComplete,
		PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
		AmountTotal:   1500,
		Currency:      stripe.CurrencyUSD,
		Metadata:      md,
		PaymentIntent: &stripe.PaymentIntent{ID: "pi_" + id},
		CustomerDetails: &stripe.CheckoutSessionCustomerDetails{
			Email: "buyer@example.com",
		},
	}
}
