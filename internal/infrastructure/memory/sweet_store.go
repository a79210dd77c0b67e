// Package memory implementa los puertos de persistencia en memoria.
// Se usa con STORAGE_DRIVER=memory y en los tests de casos de uso.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/sweetshop-api/internal/domain"
	domcatalog "github.com/jhoicas/sweetshop-api/internal/domain/catalog"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

var _ repository.SweetRepository = (*SweetStore)(nil)

// SweetStore guarda los dulces en un mapa con orden de inserción.
// Las lecturas devuelven copias: nadie fuera del store retiene el registro vivo.
// Las escrituras por id pasan por rowLocks, el equivalente del bloqueo de fila.
type SweetStore struct {
	mu       sync.RWMutex
	items    map[string]*entity.Sweet
	order    []string
	rowLocks *keyedMutex
}

// NewSweetStore construye un store vacío.
func NewSweetStore() *SweetStore {
	return &SweetStore{
		items:    make(map[string]*entity.Sweet),
		rowLocks: newKeyedMutex(),
	}
}

// Create inserta un dulce nuevo. ErrDuplicate si el id ya existe.
func (s *SweetStore) Create(_ context.Context, sweet *entity.Sweet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(sweet)
}

// GetByID devuelve una copia del registro.
func (s *SweetStore) GetByID(_ context.Context, id string) (*entity.Sweet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return item.Clone(), nil
}

// GetForUpdate fuera de transacción equivale a GetByID (como un SELECT FOR UPDATE en autocommit).
func (s *SweetStore) GetForUpdate(ctx context.Context, id string) (*entity.Sweet, error) {
	return s.GetByID(ctx, id)
}

// Update reemplaza el registro completo.
func (s *SweetStore) Update(_ context.Context, sweet *entity.Sweet) error {
	unlock := s.rowLocks.Lock(sweet.ID)
	defer unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(sweet)
}

// Delete elimina el registro; el id no vuelve a resolverse.
func (s *SweetStore) Delete(_ context.Context, id string) error {
	unlock := s.rowLocks.Lock(id)
	defer unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(id)
}

// List devuelve todos los dulces en orden de inserción.
func (s *SweetStore) List(_ context.Context) ([]*entity.Sweet, error) {
	return s.filter(func(*entity.Sweet) bool { return true }), nil
}

// FindByCategory coincidencia exacta de categoría.
func (s *SweetStore) FindByCategory(_ context.Context, category string) ([]*entity.Sweet, error) {
	return s.filter(func(it *entity.Sweet) bool { return it.Category == category }), nil
}

// FindByNameContains subcadena en el nombre, opcionalmente sin distinguir mayúsculas.
func (s *SweetStore) FindByNameContains(_ context.Context, substr string, caseInsensitive bool) ([]*entity.Sweet, error) {
	return s.filter(func(it *entity.Sweet) bool {
		return domcatalog.Contains(it.Name, substr, caseInsensitive)
	}), nil
}

// Count número de dulces.
func (s *SweetStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items), nil
}

func (s *SweetStore) filter(keep func(*entity.Sweet) bool) []*entity.Sweet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Sweet, 0, len(s.order))
	for _, id := range s.order {
		if it := s.items[id]; keep(it) {
			out = append(out, it.Clone())
		}
	}
	return out
}

// *Locked: el llamador ya tiene s.mu en escritura.

func (s *SweetStore) insertLocked(sweet *entity.Sweet) error {
	if _, ok := s.items[sweet.ID]; ok {
		return domain.ErrDuplicate
	}
	s.items[sweet.ID] = sweet.Clone()
	s.order = append(s.order, sweet.ID)
	return nil
}

func (s *SweetStore) updateLocked(sweet *entity.Sweet) error {
	current, ok := s.items[sweet.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := sweet.Clone()
	next.CreatedAt = current.CreatedAt
	s.items[sweet.ID] = next
	return nil
}

func (s *SweetStore) deleteLocked(id string) error {
	if _, ok := s.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.items, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
