package memory

import (
	"context"

	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks con semántica transaccional sobre un SweetStore:
//   - GetForUpdate/Update/Delete toman el candado del id hasta el final del callback.
//   - Las escrituras quedan en buffer y se aplican juntas solo si fn no devuelve error.
type TxRunner struct {
	store *SweetStore
}

// NewTxRunner construye el runner sobre el store indicado.
func NewTxRunner(store *SweetStore) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con un repositorio atado a la transacción y confirma o descarta.
func (r *TxRunner) Run(ctx context.Context, fn func(sweetRepo repository.SweetRepository) error) error {
	tx := &sweetTx{
		store: r.store,
		held:  make(map[string]func()),
		view:  make(map[string]*entity.Sweet),
	}
	defer tx.release()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.commit()
}

type opKind int

const (
	opCreate opKind = iota
	opUpdate
	opDelete
)

type txOp struct {
	kind  opKind
	id    string
	sweet *entity.Sweet
}

// sweetTx implementa repository.SweetRepository dentro de una transacción.
// view guarda lo escrito en esta tx (nil = eliminado) para que las lecturas posteriores lo vean.
// List/Find*/Count leen el estado confirmado.
type sweetTx struct {
	store *SweetStore
	held  map[string]func()
	view  map[string]*entity.Sweet
	ops   []txOp
}

var _ repository.SweetRepository = (*sweetTx)(nil)

func (t *sweetTx) lock(id string) {
	if _, ok := t.held[id]; ok {
		return
	}
	t.held[id] = t.store.rowLocks.Lock(id)
}

func (t *sweetTx) release() {
	for id, unlock := range t.held {
		unlock()
		delete(t.held, id)
	}
}

func (t *sweetTx) read(ctx context.Context, id string) (*entity.Sweet, error) {
	if v, ok := t.view[id]; ok {
		if v == nil {
			return nil, domain.ErrNotFound
		}
		return v.Clone(), nil
	}
	return t.store.GetByID(ctx, id)
}

func (t *sweetTx) Create(ctx context.Context, sweet *entity.Sweet) error {
	t.lock(sweet.ID)
	if _, err := t.read(ctx, sweet.ID); err == nil {
		return domain.ErrDuplicate
	}
	t.view[sweet.ID] = sweet.Clone()
	t.ops = append(t.ops, txOp{kind: opCreate, id: sweet.ID, sweet: sweet.Clone()})
	return nil
}

func (t *sweetTx) GetByID(ctx context.Context, id string) (*entity.Sweet, error) {
	return t.read(ctx, id)
}

func (t *sweetTx) GetForUpdate(ctx context.Context, id string) (*entity.Sweet, error) {
	t.lock(id)
	return t.read(ctx, id)
}

func (t *sweetTx) Update(ctx context.Context, sweet *entity.Sweet) error {
	t.lock(sweet.ID)
	if _, err := t.read(ctx, sweet.ID); err != nil {
		return err
	}
	t.view[sweet.ID] = sweet.Clone()
	t.ops = append(t.ops, txOp{kind: opUpdate, id: sweet.ID, sweet: sweet.Clone()})
	return nil
}

func (t *sweetTx) Delete(ctx context.Context, id string) error {
	t.lock(id)
	if _, err := t.read(ctx, id); err != nil {
		return err
	}
	t.view[id] = nil
	t.ops = append(t.ops, txOp{kind: opDelete, id: id})
	return nil
}

func (t *sweetTx) List(ctx context.Context) ([]*entity.Sweet, error) {
	return t.store.List(ctx)
}

func (t *sweetTx) FindByCategory(ctx context.Context, category string) ([]*entity.Sweet, error) {
	return t.store.FindByCategory(ctx, category)
}

func (t *sweetTx) FindByNameContains(ctx context.Context, substr string, caseInsensitive bool) ([]*entity.Sweet, error) {
	return t.store.FindByNameContains(ctx, substr, caseInsensitive)
}

func (t *sweetTx) Count(ctx context.Context) (int, error) {
	return t.store.Count(ctx)
}

// commit aplica todas las operaciones bajo el lock del store. Primero verifica que
// todas sean aplicables, así un fallo no deja cambios a medias.
func (t *sweetTx) commit() error {
	if len(t.ops) == 0 {
		return nil
	}
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	exists := make(map[string]bool, len(t.ops))
	for _, op := range t.ops {
		present, seen := exists[op.id]
		if !seen {
			_, present = s.items[op.id]
		}
		switch op.kind {
		case opCreate:
			if present {
				return domain.ErrDuplicate
			}
			exists[op.id] = true
		case opUpdate:
			if !present {
				return domain.ErrNotFound
			}
			exists[op.id] = true
		case opDelete:
			if !present {
				return domain.ErrNotFound
			}
			exists[op.id] = false
		}
	}

	for _, op := range t.ops {
		switch op.kind {
		case opCreate:
			_ = s.insertLocked(op.sweet)
		case opUpdate:
			_ = s.updateLocked(op.sweet)
		case opDelete:
			_ = s.deleteLocked(op.id)
		}
	}
	return nil
}
