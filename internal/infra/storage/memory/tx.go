package memory

import (
	"context"
	"sync"
)

type txKey struct{}

// txState состояние транзакции: захваченные блокировки ресурсов и созданные записи
type txState struct {
	lockedIDs map[string]struct{}
	locks     []*sync.Mutex
	created   []int64
}

func txFromContext(ctx context.Context) (*txState, bool) {
	tx, ok := ctx.Value(txKey{}).(*txState)
	return tx, ok
}

// TxManager менеджер транзакций поверх Store с тем же контрактом, что у txmanager
// Изоляция обеспечивается блокировками ресурсов; откат удаляет созданные в транзакции бронирования.
type TxManager struct {
	store *Store
}

// NewTxManager создает менеджер транзакций хранилища
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Do выполняет fn эксклюзивно относительно других вызовов Do
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()

	return m.run(ctx, fn)
}

// DoSerializable выполняет fn; сериализация достигается через LockResources
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	tx := &txState{lockedIDs: make(map[string]struct{})}
	defer tx.release()

	defer func() {
		if p := recover(); p != nil {
			m.store.remove(tx.created)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		m.store.remove(tx.created)
		return err
	}

	return nil
}

// lock захватывает мьютекс ресурса один раз за транзакцию
func (tx *txState) lock(id string, l *sync.Mutex) {
	if _, ok := tx.lockedIDs[id]; ok {
		return
	}
	l.Lock()
	tx.lockedIDs[id] = struct{}{}
	tx.locks = append(tx.locks, l)
}

func (tx *txState) release() {
	for i := len(tx.locks) - 1; i >= 0; i-- {
		tx.locks[i].Unlock()
	}
	tx.locks = nil
}

// remove удаляет бронирования, созданные в откатываемой транзакции
func (s *Store) remove(ids []int64) {
	if len(ids) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		b, ok := s.bookings[id]
		if !ok {
			continue
		}
		delete(s.bookings, id)

		for _, resourceID := range b.ResourceIDs {
			list := s.byResource[resourceID]
			for i, bookingID := range list {
				if bookingID == id {
					s.byResource[resourceID] = append(list[:i], list[i+1:]...)
					break
				}
			}
		}
	}
}
