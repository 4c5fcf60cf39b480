// Package store is the remote, resource-scoped bill store the controllers
// talk to, and an HTTP client implementing it.
package store

import (
	"context"

	"github.com/zombor/billed/internal/bill"
)

// FileUpload is a receipt file sent ahead of the bill it belongs to
type FileUpload struct {
	Filename    string
	ContentType string
	Data        []byte
	Email       string // identifies the uploader
}

// UploadResult identifies a stored receipt
type UploadResult struct {
	FileURL string `json:"fileUrl"`
	Key     string `json:"key"`
}

// BillsResource defines the operations of the bills resource
type BillsResource interface {
	// List returns the bills visible to the caller
	List(ctx context.Context) ([]bill.Bill, error)

	// Create persists a new bill. A bill whose ID is the key of a previous
	// upload takes over that upload.
	Create(ctx context.Context, b bill.Bill) (*bill.Bill, error)

	// Upload stores a receipt file
	Upload(ctx context.Context, f FileUpload) (*UploadResult, error)

	// Update replaces the bill with the given id
	Update(ctx context.Context, id string, b bill.Bill) (*bill.Bill, error)
}

// Store exposes resource-scoped clients
type Store interface {
	Bills() BillsResource
}
