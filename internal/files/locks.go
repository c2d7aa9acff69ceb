package files

import (
	"sync"

	"github.com/srirampandi55/Cloudify/internal/domain"
)

// lockTable сериализует мутации по id файла: два конкурентных rename/move/
// delete/share одного файла не перемешивают свои шаги «хранилище → реестр».
// Записи считаются по ссылкам и убираются, когда последний владелец ушёл.
type lockTable struct {
	mu sync.Mutex
	m  map[domain.FileID]*fileLock
}

type fileLock struct {
	mu   sync.Mutex
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{m: make(map[domain.FileID]*fileLock)}
}

// lock захватывает мьютекс файла и возвращает функцию освобождения.
func (t *lockTable) lock(id domain.FileID) func() {
	t.mu.Lock()
	l, ok := t.m[id]
	if !ok {
		l = &fileLock{}
		t.m[id] = l
	}
	l.refs++
	t.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		t.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(t.m, id)
		}
		t.mu.Unlock()
	}
}
