// Package storage adapts the Supabase object-storage collaborator: the fixed
// reference-document bucket plus session uploads.
package storage

import (
	"bytes"
	"fmt"
	"strings"

	storage_go "github.com/supabase-community/storage-go"
)

// File is one listed object, locator relative to the bucket.
type File struct {
	Name    string
	Locator string
}

// Store is the narrow surface the document service needs.
type Store interface {
	ListPredefined() ([]File, error)
	GetPublicURL(locator string) string
	Upload(path string, data []byte, contentType string) (string, error)
	Remove(path string) error
}

type Client struct {
	storage *storage_go.Client
	bucket  string
	folder  string
}

func NewClient(storage *storage_go.Client, bucket, folder string) *Client {
	return &Client{
		storage: storage,
		bucket:  bucket,
		folder:  folder,
	}
}

// ListPredefined lists the predefined folder of the bucket, filtered to PDF
// files. A failed listing is returned as an error; degrading to an empty
// catalog is the caller's call, not ours.
func (c *Client) ListPredefined() ([]File, error) {
	objects, err := c.storage.ListFiles(c.bucket, c.folder, storage_go.FileSearchOptions{})
	if err != nil {
		return nil, fmt.Errorf("list %s/%s: %w", c.bucket, c.folder, err)
	}

	var files []File
	for _, obj := range objects {
		if !strings.HasSuffix(strings.ToLower(obj.Name), ".pdf") {
			continue
		}
		files = append(files, File{
			Name:    obj.Name,
			Locator: c.folder + "/" + obj.Name,
		})
	}
	return files, nil
}

// GetPublicURL resolves a locator to a fetchable URL. Returns an empty string
// rather than failing; the UI treats a missing URL as "not previewable".
func (c *Client) GetPublicURL(locator string) string {
	if locator == "" {
		return ""
	}
	if !strings.Contains(locator, "/") {
		locator = c.folder + "/" + locator
	}
	res := c.storage.GetPublicUrl(c.bucket, locator)
	return res.SignedURL
}

func (c *Client) Upload(path string, data []byte, contentType string) (string, error) {
	_, err := c.storage.UploadFile(c.bucket, path, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	return c.GetPublicURL(path), nil
}

func (c *Client) Remove(path string) error {
	if _, err := c.storage.RemoveFile(c.bucket, []string{path}); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

var _ Store = (*Client)(nil)
