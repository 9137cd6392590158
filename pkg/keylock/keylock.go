package keylock

import (
	"sort"
	"sync"
)

// KeyLock набор мьютексов, адресуемых строковым ключом.
// Записи создаются по требованию и удаляются, когда на ключ никто не ссылается.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// New создает пустой KeyLock
func New() *KeyLock {
	return &KeyLock{locks: make(map[string]*entry)}
}

// Lock захватывает все ключи в детерминированном порядке и возвращает функцию освобождения.
// Дубликаты ключей игнорируются. Порядок захвата (по возрастанию) исключает взаимные блокировки
// между вызовами с пересекающимися наборами ключей.
func (k *KeyLock) Lock(keys ...string) (unlock func()) {
	ordered := normalize(keys)

	acquired := make([]*entry, 0, len(ordered))
	for _, key := range ordered {
		e := k.ref(key)
		e.mu.Lock()
		acquired = append(acquired, e)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for i := len(acquired) - 1; i >= 0; i-- {
				acquired[i].mu.Unlock()
				k.unref(ordered[i])
			}
		})
	}
}

// Len возвращает количество ключей, на которые сейчас есть ссылки
func (k *KeyLock) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

func (k *KeyLock) ref(key string) *entry {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	return e
}

func (k *KeyLock) unref(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.locks[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(k.locks, key)
	}
}

func normalize(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
