// Package storage holds error kinds shared by every storage backend.
package storage

import "errors"

var (
	// ErrNotFound запись не найдена
	ErrNotFound = errors.New("storage: not found")

	// ErrAlreadyExists запись с таким уникальным ключом уже существует
	ErrAlreadyExists = errors.New("storage: already exists")
)
