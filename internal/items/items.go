package items

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"workaccess/internal/ids"
	"workaccess/internal/ledger"
	"workaccess/internal/storage"
	"workaccess/pkg/apperrors"
	"workaccess/pkg/requestcontext"
)

const entityName = "items"

// Item is a tenant-owned record in the demo inventory. It exists mostly to
// give the authorization pipeline something to protect.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// Input carries the caller-editable fields.
type Input struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Service struct {
	store  storage.TenantStore
	logger *slog.Logger
}

func NewService(store storage.TenantStore, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

func decodeItems(raw []byte) []Item {
	if len(raw) == 0 {
		return nil
	}
	var list []Item
	if err := json.Unmarshal(raw, &list); err != nil {
		// A corrupt file starts the tenant over rather than poisoning
		// every subsequent call.
		return nil
	}
	return list
}

func (s *Service) List(ctx context.Context, companyID string) ([]Item, error) {
	raw, err := s.store.Read(ctx, companyID, entityName)
	if err != nil {
		return nil, err
	}
	list := decodeItems(raw)
	if list == nil {
		list = []Item{}
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, companyID, id string) (Item, error) {
	list, err := s.List(ctx, companyID)
	if err != nil {
		return Item{}, err
	}
	for _, it := range list {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, apperrors.New(apperrors.CodeNotFound, "item not found")
}

func (s *Service) Create(ctx context.Context, companyID string, in Input) (Item, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Item{}, apperrors.New(apperrors.CodeValidation, "missing field: name")
	}
	now := requestcontext.Now(ctx)
	item := Item{
		ID:          ids.NewAt("itm", now),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   ledger.Timestamp(now),
		UpdatedAt:   ledger.Timestamp(now),
	}
	err := s.store.Update(ctx, companyID, entityName, func(raw []byte) ([]byte, error) {
		list := append(decodeItems(raw), item)
		return json.Marshal(list)
	})
	if err != nil {
		return Item{}, err
	}
	return item, nil
}

// Update replaces the editable fields and returns before/after snapshots for
// the audit trail.
func (s *Service) Update(ctx context.Context, companyID, id string, in Input) (before, after Item, err error) {
	if strings.TrimSpace(in.Name) == "" {
		return Item{}, Item{}, apperrors.New(apperrors.CodeValidation, "missing field: name")
	}
	now := requestcontext.Now(ctx)
	err = s.store.Update(ctx, companyID, entityName, func(raw []byte) ([]byte, error) {
		list := decodeItems(raw)
		for i := range list {
			if list[i].ID != id {
				continue
			}
			before = list[i]
			list[i].Name = strings.TrimSpace(in.Name)
			list[i].Description = strings.TrimSpace(in.Description)
			list[i].UpdatedAt = ledger.Timestamp(now)
			after = list[i]
			return json.Marshal(list)
		}
		return nil, apperrors.New(apperrors.CodeNotFound, "item not found")
	})
	if err != nil {
		return Item{}, Item{}, err
	}
	return before, after, nil
}

// Delete removes the item and returns the removed snapshot.
func (s *Service) Delete(ctx context.Context, companyID, id string) (Item, error) {
	var removed Item
	err := s.store.Update(ctx, companyID, entityName, func(raw []byte) ([]byte, error) {
		list := decodeItems(raw)
		for i := range list {
			if list[i].ID != id {
				continue
			}
			removed = list[i]
			list = append(list[:i], list[i+1:]...)
			return json.Marshal(list)
		}
		return nil, apperrors.New(apperrors.CodeNotFound, "item not found")
	})
	if err != nil {
		return Item{}, err
	}
	return removed, nil
}
