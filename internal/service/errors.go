package service

import "errors"

var (
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 99")
	ErrInvalidProduct  = errors.New("product name is required and price must not be negative")
)
