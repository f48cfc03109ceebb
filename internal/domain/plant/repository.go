package plant

import "context"

// Finder is the read side of the plant store. Results come back in a stable store order.
type Finder interface {
	Find(ctx context.Context, filter Filter, limit int) ([]Plant, error)
}

// Repository abstracts plant persistence.
type Repository interface {
	Finder
	FindOne(ctx context.Context, id string) (Plant, bool, error)
	Insert(ctx context.Context, p Plant) (Plant, error)
	Update(ctx context.Context, id string, p Plant) (Plant, bool, error)
	Count(ctx context.Context) (int64, error)
}

// SeedSource returns the raw JSON document used to populate an empty catalog.
type SeedSource interface {
	Load(ctx context.Context) ([]byte, error)
	Describe() string
}
