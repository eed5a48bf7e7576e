package domain

import "errors"

// Erros de validação do encoder e do registro de categorias.
// Sempre retornados embrulhados com %w; use errors.Is para classificar.
var (
	ErrUnknownStore      = errors.New("unknown store")
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrInvalidPrice      = errors.New("invalid price")
	ErrUnexpectedPrice   = errors.New("unexpected price")

	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidCategory = errors.New("invalid category name")
	ErrInvalidCooldown = errors.New("invalid cooldown")
	ErrEmptyGuide      = errors.New("empty guide")
)
