package repository

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/vfg2006/boutique-manager-api/pkg/utils"
)

type memoryCollection struct {
	ids     []string
	records map[string]Record
}

// MemoryStore mantém as coleções em memória. Usado em desenvolvimento e nos testes.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[Collection]*memoryCollection
	newID       func() (string, error)
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[Collection]*memoryCollection),
		newID:       utils.GenerateID,
	}
}

func (s *MemoryStore) Create(ctx context.Context, collection Collection, record Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.create(collection, record)
}

func (s *MemoryStore) Get(ctx context.Context, collection Collection, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(collection, id)
}

func (s *MemoryStore) ListAll(ctx context.Context, collection Collection) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listAll(collection)
}

func (s *MemoryStore) UpdatePartial(ctx context.Context, collection Collection, id string, fields Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatePartial(collection, id, fields)
}

func (s *MemoryStore) Delete(ctx context.Context, collection Collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delete(collection, id)
}

// RunInTransaction bloqueia o armazenamento durante fn e restaura o estado anterior se fn falhar
func (s *MemoryStore) RunInTransaction(ctx context.Context, fn func(store EntityStore) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.snapshot()
	defer func() {
		if r := recover(); r != nil {
			s.collections = snapshot
			panic(r)
		}
		if err != nil {
			s.collections = snapshot
		}
	}()

	return fn(&memoryTx{store: s})
}

func (s *MemoryStore) collection(name Collection) *memoryCollection {
	c, ok := s.collections[name]
	if !ok {
		c = &memoryCollection{records: make(map[string]Record)}
		s.collections[name] = c
	}
	return c
}

func (s *MemoryStore) create(collection Collection, record Record) (string, error) {
	id, err := s.newID()
	if err != nil {
		return "", errors.Wrap(err, "erro ao gerar identificador")
	}

	document, err := cloneRecord(record)
	if err != nil {
		return "", err
	}
	document["id"] = id

	c := s.collection(collection)
	c.ids = append(c.ids, id)
	c.records[id] = document

	return id, nil
}

func (s *MemoryStore) get(collection Collection, id string) (Record, error) {
	c, ok := s.collections[collection]
	if !ok {
		return nil, ErrRecordNotFound
	}

	record, ok := c.records[id]
	if !ok {
		return nil, ErrRecordNotFound
	}

	return cloneRecord(record)
}

func (s *MemoryStore) listAll(collection Collection) ([]Record, error) {
	records := make([]Record, 0)

	c, ok := s.collections[collection]
	if !ok {
		return records, nil
	}

	for _, id := range c.ids {
		record, err := cloneRecord(c.records[id])
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

func (s *MemoryStore) updatePartial(collection Collection, id string, fields Record) error {
	c, ok := s.collections[collection]
	if !ok {
		return ErrRecordNotFound
	}

	record, ok := c.records[id]
	if !ok {
		return ErrRecordNotFound
	}

	changes, err := cloneRecord(fields)
	if err != nil {
		return err
	}

	for k, v := range changes {
		if k == "id" {
			continue
		}
		record[k] = v
	}

	return nil
}

func (s *MemoryStore) delete(collection Collection, id string) error {
	c, ok := s.collections[collection]
	if !ok {
		return ErrRecordNotFound
	}

	if _, ok := c.records[id]; !ok {
		return ErrRecordNotFound
	}

	delete(c.records, id)
	for i, existing := range c.ids {
		if existing == id {
			c.ids = append(c.ids[:i], c.ids[i+1:]...)
			break
		}
	}

	return nil
}

func (s *MemoryStore) snapshot() map[Collection]*memoryCollection {
	copied := make(map[Collection]*memoryCollection, len(s.collections))
	for name, c := range s.collections {
		records := make(map[string]Record, len(c.records))
		for id, record := range c.records {
			// Registros internos já estão normalizados, a cópia rasa dos campos basta
			clone := make(Record, len(record))
			for k, v := range record {
				clone[k] = v
			}
			records[id] = clone
		}
		copied[name] = &memoryCollection{
			ids:     append([]string(nil), c.ids...),
			records: records,
		}
	}
	return copied
}

// memoryTx opera sobre o MemoryStore já bloqueado por RunInTransaction
type memoryTx struct {
	store *MemoryStore
}

func (t *memoryTx) Create(ctx context.Context, collection Collection, record Record) (string, error) {
	return t.store.create(collection, record)
}

func (t *memoryTx) Get(ctx context.Context, collection Collection, id string) (Record, error) {
	return t.store.get(collection, id)
}

func (t *memoryTx) ListAll(ctx context.Context, collection Collection) ([]Record, error) {
	return t.store.listAll(collection)
}

func (t *memoryTx) UpdatePartial(ctx context.Context, collection Collection, id string, fields Record) error {
	return t.store.updatePartial(collection, id, fields)
}

func (t *memoryTx) Delete(ctx context.Context, collection Collection, id string) error {
	return t.store.delete(collection, id)
}
