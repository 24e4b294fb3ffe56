// Package storage определяет ошибки слоя хранения, общие для всех реализаций.
package storage

import "errors"

var (
	// ErrNotFound - запись отсутствует или принадлежит другому пользователю.
	ErrNotFound = errors.New("record not found")
	// ErrUniqueConstraint - нарушено ограничение уникальности.
	ErrUniqueConstraint = errors.New("unique constraint violation")
)
