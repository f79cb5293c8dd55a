package domain

import (
	"context"
	"time"
)

// ContentKind discriminates the catalog entry types
type ContentKind string

const (
	KindTopic    ContentKind = "topic"
	KindLibrary  ContentKind = "library"
	KindSnippet  ContentKind = "snippet"
	KindBlog     ContentKind = "blog"
	KindQuestion ContentKind = "question"
)

// ValidContentKind report whether k is a known catalog kind
func ValidContentKind(k ContentKind) bool {
	switch k {
	case KindTopic, KindLibrary, KindSnippet, KindBlog, KindQuestion:
		return true
	}
	return false
}

// ContentItemModel one unit of learning content, read-only from this service
type ContentItemModel struct {
	ItemID     int         `json:"id"`
	Title      string      `json:"title"`
	Kind       ContentKind `json:"kind"`
	FileRef    string      `json:"file_ref,omitempty"`
	Difficulty string      `json:"difficulty,omitempty"`
	Locked     bool        `json:"locked"`
	Tags       []string    `json:"tags,omitempty"`
	CreatedAt  *time.Time  `json:"-"`
}

type CatalogRepository interface {
	ListItems(ctx context.Context) ([]*ContentItemModel, error)
	ListItemsByKind(ctx context.Context, kind ContentKind) ([]*ContentItemModel, error)
	GetItem(ctx context.Context, itemID int) (*ContentItemModel, error)
}

type CatalogUseCase interface {
	ListCatalog(ctx context.Context, kind string) ([]*ContentItemModel, error)
	GetItem(ctx context.Context, itemID int) (*ContentItemModel, error)
}
