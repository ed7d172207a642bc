package aims

import (
	"context"
	"fmt"

	"github.com/AvivElectis/electisSpace-sub002/internal/entities"
)

// StoreLookup resolves a local store to its record (for the AIMS store code).
type StoreLookup interface {
	FindByID(ctx context.Context, id string) (*entities.Store, error)
}

// StoreGateway addresses AIMS by local store ID, translating to the store code.
type StoreGateway struct {
	client *Client
	stores StoreLookup
}

func NewStoreGateway(client *Client, stores StoreLookup) *StoreGateway {
	return &StoreGateway{client: client, stores: stores}
}

func (g *StoreGateway) PushArticles(ctx context.Context, storeID string, articles []Article) error {
	code, err := g.storeCode(ctx, storeID)
	if err != nil {
		return err
	}
	return g.client.PushArticles(ctx, code, articles)
}

func (g *StoreGateway) DeleteArticles(ctx context.Context, storeID string, articleIDs []string) error {
	code, err := g.storeCode(ctx, storeID)
	if err != nil {
		return err
	}
	return g.client.DeleteArticles(ctx, code, articleIDs)
}

func (g *StoreGateway) storeCode(ctx context.Context, storeID string) (string, error) {
	store, err := g.stores.FindByID(ctx, storeID)
	if err != nil {
		return "", fmt.Errorf("resolve store %s: %w", storeID, err)
	}
	if store.Code == "" {
		return "", fmt.Errorf("store %s: %w", storeID, ErrStoreCodeMissing)
	}
	return store.Code, nil
}
