// Package internalcheck holds source-policy tests for the cdr-go module.
//
// It is not intended for external use. The tests load the module's packages
// with golang.org/x/tools/go/packages and fail when foreign-function imports
// leak out of internal/native.
package internalcheck
