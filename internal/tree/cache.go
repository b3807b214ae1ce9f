package tree

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// blobCache memoizes blob contents by SHA. Concurrent reads of the same blob
// share one request.
type blobCache struct {
	data  sync.Map
	group singleflight.Group
}

func (c *blobCache) load(key string, fetch func() ([]byte, error)) ([]byte, error) {
	if v, ok := c.data.Load(key); ok {
		return v.([]byte), nil
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		return fetch()
	})
	if err != nil {
		return nil, err
	}
	b := v.([]byte)
	c.data.Store(key, b)
	return b, nil
}
