package catalog

import "errors"

var (
	// ErrUnknownProduct indicates the product ID does not exist.
	ErrUnknownProduct = errors.New("catalog: unknown product")

	// ErrDuplicateProduct indicates two products share an ID.
	ErrDuplicateProduct = errors.New("catalog: duplicate product id")

	// ErrNegativePrice indicates a product price below zero.
	ErrNegativePrice = errors.New("catalog: negative price")

	// ErrInvalidProduct indicates a product record is missing its ID or name.
	ErrInvalidProduct = errors.New("catalog: invalid product")

	// ErrInvalidCatalogFile indicates the catalog seed file could not be decoded.
	ErrInvalidCatalogFile = errors.New("catalog: invalid catalog file")
)
