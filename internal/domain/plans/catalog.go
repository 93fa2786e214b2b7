package plans

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

type Source interface {
	PublicPlans(ctx context.Context) ([]Plan, error)
}

const publicKey = "public"

// Catalog — публичный прайс с кэшем. Одновременные промахи схлопываются
// в один запрос к бэкенду.
type Catalog struct {
	src   Source
	cache *expirable.LRU[string, []Plan]
	group singleflight.Group
}

func NewCatalog(src Source, size int, ttl time.Duration) *Catalog {
	if size <= 0 {
		size = 1
	}
	return &Catalog{
		src:   src,
		cache: expirable.NewLRU[string, []Plan](size, nil, ttl),
	}
}

// Public возвращает публичные планы, отсортированные по display_order.
func (c *Catalog) Public(ctx context.Context) ([]Plan, error) {
	if list, ok := c.cache.Get(publicKey); ok {
		return clonePlans(list), nil
	}

	// загрузку делят все ожидающие: отмена первого вызвавшего её не прерывает
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(publicKey, func() (any, error) {
		list, err := c.src.PublicPlans(loadCtx)
		if err != nil {
			return nil, err
		}
		sorted := Sort(list)
		c.cache.Add(publicKey, sorted)
		return sorted, nil
	})
	if err != nil {
		return nil, err
	}
	return clonePlans(v.([]Plan)), nil
}

// Invalidate сбрасывает кэш (после правки планов супер-админом).
func (c *Catalog) Invalidate() {
	c.cache.Purge()
}

func clonePlans(in []Plan) []Plan {
	out := make([]Plan, len(in))
	copy(out, in)
	return out
}
