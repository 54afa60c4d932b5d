package selling

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/boutique-manager-api/infrastructure/cache"
	"github.com/vfg2006/boutique-manager-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DraftStore guarda um rascunho por sessão
type DraftStore interface {
	// Load devolve um rascunho vazio quando a sessão ainda não tem nenhum
	Load(ctx context.Context, sessionID string) (*Draft, error)
	Save(ctx context.Context, sessionID string, draft *Draft) error
	Discard(ctx context.Context, sessionID string) error
}

type cachedDraftStore struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewDraftStore(c cache.Cache, ttl time.Duration) DraftStore {
	return &cachedDraftStore{
		cache: c,
		ttl:   ttl,
	}
}

func draftKey(sessionID string) string {
	return "draft:" + sessionID
}

func (s *cachedDraftStore) Load(ctx context.Context, sessionID string) (*Draft, error) {
	payload, found, err := s.cache.Get(ctx, draftKey(sessionID))
	if err != nil {
		return nil, errors.Wrap(err, "erro ao ler rascunho de venda")
	}

	if !found {
		return NewDraft(), nil
	}

	draft := NewDraft()
	if err := json.Unmarshal(payload, draft); err != nil {
		return nil, errors.Wrap(err, "rascunho de venda corrompido")
	}

	if draft.Items == nil {
		draft.Items = []domain.SaleItem{}
	}

	return draft, nil
}

func (s *cachedDraftStore) Save(ctx context.Context, sessionID string, draft *Draft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return errors.Wrap(err, "erro ao serializar rascunho de venda")
	}

	if err := s.cache.Set(ctx, draftKey(sessionID), payload, s.ttl); err != nil {
		return errors.Wrap(err, "erro ao gravar rascunho de venda")
	}

	return nil
}

func (s *cachedDraftStore) Discard(ctx context.Context, sessionID string) error {
	if err := s.cache.Delete(ctx, draftKey(sessionID)); err != nil {
		return errors.Wrap(err, "erro ao descartar rascunho de venda")
	}
	return nil
}
