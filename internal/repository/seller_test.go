package repository

import (
	"context"
	"errors"
	"testing"

	"creator-commerce/internal/model"
)

func TestSellerRepositoryCreateGet(t *testing.T) {
	repo := NewSellerRepository(newSQLiteDBForTest(t))
	ctx := context.Background()

	if err := repo.Create(ctx, &model.Seller{ID: "S1", Name: "Beat Shop", Email: "s1@example.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.Get(ctx, "S1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Beat Shop" {
		t.Fatalf("unexpected seller: %+v", got)
	}
	if _, err := repo.Get(ctx, "S404"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConnectedAccountRepositoryUpsertAndCapabilities(t *testing.T) {
	repo := NewConnectedAccountRepository(newSQLiteDBForTest(t))
	ctx := context.Background()

	if err := repo.Upsert(ctx, &model.ConnectedAccount{SellerID: "S1", AccountID: "acct_1", Email: "s1@example.com"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.Upsert(ctx, &model.ConnectedAccount{SellerID: "S1", AccountID: "acct_1", Email: "new@example.com", DetailsSubmitted: true}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := repo.GetBySeller(ctx, "S1")
	if err != nil {
		t.Fatalf("get by seller: %v", err)
	}
	if got.Email != "new@example.com" || !got.DetailsSubmitted {
		t.Fatalf("upsert did not update row: %+v", got)
	}

	if err := repo.UpdateCapabilities(ctx, "acct_1", true, true, true); err != nil {
		t.Fatalf("update capabilities: %v", err)
	}
	got, err = repo.GetByAccountID(ctx, "acct_1")
	if err != nil {
		t.Fatalf("get by account: %v", err)
	}
	if !got.ChargesEnabled || !got.PayoutsEnabled {
		t.Fatalf("capabilities not updated: %+v", got)
	}

	if err := repo.UpdateCapabilities(ctx, "acct_missing", true, true, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetBySeller(ctx, "S404"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBundleRepositoryUpsertGet(t *testing.T) {
	repo := NewBundleRepository(newSQLiteDBForTest(t))
	ctx := context.Background()

	bundle := &model.Bundle{
		ID: "B1", SellerID: "S1", Title: "Drum kit", Price: 1500, Currency: "usd",
		Contents: []model.ContentEntry{{ID: "c1", PublicURL: "https://cdn.example.com/kick.wav"}},
	}
	if err := repo.Upsert(ctx, bundle); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	bundle.Title = "Drum kit v2"
	bundle.Contents = append(bundle.Contents, model.ContentEntry{ID: "c2"})
	if err := repo.Upsert(ctx, bundle); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := repo.Get(ctx, "B1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Drum kit v2" || len(got.Contents) != 2 {
		t.Fatalf("unexpected bundle: %+v", got)
	}
	if _, err := repo.Get(ctx, "B404"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWebhookEventRepositoryMarkProcessedIsIdempotent(t *testing.T) {
	repo := NewWebhookEventRepository(newSQLiteDBForTest(t))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := repo.MarkProcessed(ctx, "evt_1", "checkout.session.completed", "acct_1"); err != nil {
			t.Fatalf("mark processed #%d: %v", i, err)
		}
	}
	exists, err := repo.Exists(ctx, "evt_1")
	if err != nil || !exists {
		t.Fatalf("expected event recorded, exists=%v err=%v", exists, err)
	}
	exists, err = repo.Exists(ctx, "evt_2")
	if err != nil || exists {
		t.Fatalf("expected unknown event, exists=%v err=%v", exists, err)
	}
}

func TestConnectedAccountRepositoryCreateIfAbsent(t *testing.T) {
	repo := NewConnectedAccountRepository(newSQLiteDBForTest(t))
	ctx := context.Background()

	if err := repo.CreateIfAbsent(ctx, &model.ConnectedAccount{SellerID: "S1", AccountID: "acct_first"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := repo.CreateIfAbsent(ctx, &model.ConnectedAccount{SellerID: "S1", AccountID: "acct_second"})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	got, err := repo.GetBySeller(ctx, "S1")
	if err != nil {
		t.Fatalf("get by seller: %v", err)
	}
	if got.AccountID != "acct_first" {
		t.Fatalf("first account overwritten: %+v", got)
	}
}
