package simulated

import (
	"context"
	"strconv"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"

	"github.com/modalmesh/modalmesh/pkg/redis_client"
)

// QuoteCache holds ride-hail fare quotes for a short window so repeated
// planning requests over the same leg see a consistent price while surge
// conditions hold.
type QuoteCache struct {
	Cache *cache.Cache[string]
}

func (q *QuoteCache) Setup() {
	redisStore := redisstore.NewRedis(redis_client.Client, store.WithExpiration(5*time.Minute))

	q.Cache = cache.New[string](redisStore)
}

func (q *QuoteCache) Get(key string) (float64, bool) {
	if q.Cache == nil {
		return 0, false
	}

	quoteValue, err := q.Cache.Get(context.Background(), key)
	if err != nil {
		return 0, false
	}

	fare, err := strconv.ParseFloat(quoteValue, 64)
	if err != nil {
		return 0, false
	}

	return fare, true
}

func (q *QuoteCache) Set(key string, fare float64) {
	if q.Cache == nil {
		return
	}

	q.Cache.Set(context.Background(), key, strconv.FormatFloat(fare, 'f', -1, 64))
}
