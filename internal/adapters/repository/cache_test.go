package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/edgeline/internal/adapters/repository"
	"github.com/okian/edgeline/internal/domain/model"
	"github.com/okian/edgeline/internal/domain/types"
)

func cacheKey(entityID string) repository.Key {
	return repository.NewKey(entityID, types.KindTeam, model.Window{Seasons: []int{2024}})
}

func cachedProfile(entityID string, pace float64) model.Profile {
	return model.Profile{
		EntityID:   entityID,
		Kind:       types.KindTeam,
		Metrics:    map[string]float64{"pace": pace},
		SampleSize: 82,
	}
}

func TestInMemoryCache(t *testing.T) {
	Convey("Given an in-memory cache", t, func() {
		c := repository.NewInMemoryCache()
		ctx := context.Background()

		Convey("When storing and fetching a profile", func() {
			c.Put(ctx, cacheKey("den_nuggets"), cachedProfile("den_nuggets", 100))

			p, ok := c.Get(ctx, cacheKey("den_nuggets"))
			So(ok, ShouldBeTrue)
			So(p.Metrics["pace"], ShouldEqual, 100.0)
			So(c.Len(ctx), ShouldEqual, 1)
		})

		Convey("When fetching a missing key", func() {
			_, ok := c.Get(ctx, cacheKey("missing"))
			So(ok, ShouldBeFalse)
		})

		Convey("When overwriting an existing key", func() {
			c.Put(ctx, cacheKey("den_nuggets"), cachedProfile("den_nuggets", 100))
			c.Put(ctx, cacheKey("den_nuggets"), cachedProfile("den_nuggets", 101))

			p, _ := c.Get(ctx, cacheKey("den_nuggets"))
			So(p.Metrics["pace"], ShouldEqual, 101.0)
			So(c.Len(ctx), ShouldEqual, 1)
		})

		Convey("When keys differ only by window", func() {
			k2023 := repository.NewKey("den_nuggets", types.KindTeam, model.Window{Seasons: []int{2023}})
			c.Put(ctx, cacheKey("den_nuggets"), cachedProfile("den_nuggets", 100))
			c.Put(ctx, k2023, cachedProfile("den_nuggets", 97))

			So(c.Len(ctx), ShouldEqual, 2)
			p, _ := c.Get(ctx, k2023)
			So(p.Metrics["pace"], ShouldEqual, 97.0)
		})

		Convey("When purging", func() {
			c.Put(ctx, cacheKey("a"), cachedProfile("a", 1))
			c.Put(ctx, cacheKey("b"), cachedProfile("b", 2))
			c.Purge(ctx)

			So(c.Len(ctx), ShouldEqual, 0)
			_, ok := c.Get(ctx, cacheKey("a"))
			So(ok, ShouldBeFalse)
		})
	})
}

func TestInMemoryCacheEviction(t *testing.T) {
	Convey("Given a cache bounded to two entries", t, func() {
		ctx := context.Background()

		Convey("With the oldest policy", func() {
			c := repository.NewInMemoryCache(
				repository.WithMaxSize(2),
				repository.WithEvictionPolicy(repository.EvictOldest),
			)
			c.Put(ctx, cacheKey("first"), cachedProfile("first", 1))
			c.Put(ctx, cacheKey("second"), cachedProfile("second", 2))
			c.Put(ctx, cacheKey("third"), cachedProfile("third", 3))

			Convey("Then the earliest write is dropped", func() {
				So(c.Len(ctx), ShouldEqual, 2)
				_, ok := c.Get(ctx, cacheKey("first"))
				So(ok, ShouldBeFalse)
				_, ok = c.Get(ctx, cacheKey("second"))
				So(ok, ShouldBeTrue)
				_, ok = c.Get(ctx, cacheKey("third"))
				So(ok, ShouldBeTrue)
			})
		})

		Convey("With the newest policy", func() {
			c := repository.NewInMemoryCache(
				repository.WithMaxSize(2),
				repository.WithEvictionPolicy(repository.EvictNewest),
			)
			c.Put(ctx, cacheKey("first"), cachedProfile("first", 1))
			c.Put(ctx, cacheKey("second"), cachedProfile("second", 2))
			c.Put(ctx, cacheKey("third"), cachedProfile("third", 3))

			Convey("Then the most recent write is dropped", func() {
				So(c.Len(ctx), ShouldEqual, 2)
				_, ok := c.Get(ctx, cacheKey("first"))
				So(ok, ShouldBeTrue)
				_, ok = c.Get(ctx, cacheKey("second"))
				So(ok, ShouldBeFalse)
				_, ok = c.Get(ctx, cacheKey("third"))
				So(ok, ShouldBeTrue)
			})
		})

		Convey("Overwrites do not evict", func() {
			c := repository.NewInMemoryCache(repository.WithMaxSize(2))
			c.Put(ctx, cacheKey("first"), cachedProfile("first", 1))
			c.Put(ctx, cacheKey("second"), cachedProfile("second", 2))
			c.Put(ctx, cacheKey("second"), cachedProfile("second", 3))

			So(c.Len(ctx), ShouldEqual, 2)
			_, ok := c.Get(ctx, cacheKey("first"))
			So(ok, ShouldBeTrue)
		})
	})
}

func TestInMemoryCacheConcurrency(t *testing.T) {
	Convey("Given concurrent readers and writers", t, func() {
		c := repository.NewInMemoryCache(repository.WithMaxSize(64))
		ctx := context.Background()

		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					key := cacheKey(fmt.Sprintf("entity_%d_%d", g, i%16))
					c.Put(ctx, key, cachedProfile("e", float64(i)))
					c.Get(ctx, key)
					c.Len(ctx)
				}
			}(g)
		}
		wg.Wait()

		Convey("Then the cache stays within its bound", func() {
			So(c.Len(ctx), ShouldBeLessThanOrEqualTo, 64)
		})
	})
}

// countingBuilder wraps a fixed profile and counts how many builds ran.
type countingBuilder struct {
	mu     sync.Mutex
	builds int
	err    error
}

func (b *countingBuilder) Build(ctx context.Context, entityID string, kind types.Kind, records []model.EventRecord, window model.Window) (model.Profile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.builds++
	if b.err != nil {
		return model.Profile{}, b.err
	}
	return model.Profile{EntityID: entityID, Kind: kind, Window: window, SampleSize: len(records)}, nil
}

func TestMemoizer(t *testing.T) {
	Convey("Given a memoizer over a counting builder", t, func() {
		builder := &countingBuilder{}
		m := repository.NewMemoizer(builder, repository.NewInMemoryCache())
		ctx := context.Background()
		window := model.Window{Seasons: []int{2024}}

		Convey("When the same build is requested twice", func() {
			p1, err1 := m.Build(ctx, "den_nuggets", types.KindTeam, nil, window)
			p2, err2 := m.Build(ctx, "den_nuggets", types.KindTeam, nil, window)

			Convey("Then the builder runs once and results match", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(p1, ShouldResemble, p2)
				So(builder.builds, ShouldEqual, 1)
			})
		})

		Convey("When the window changes", func() {
			_, _ = m.Build(ctx, "den_nuggets", types.KindTeam, nil, window)
			_, _ = m.Build(ctx, "den_nuggets", types.KindTeam, nil, model.Window{Seasons: []int{2023}})

			Convey("Then each window builds separately", func() {
				So(builder.builds, ShouldEqual, 2)
			})
		})

		Convey("When the builder fails", func() {
			builder.err = errors.New("bad records")
			_, err := m.Build(ctx, "den_nuggets", types.KindTeam, nil, window)

			Convey("Then the error surfaces and nothing is cached", func() {
				So(err, ShouldNotBeNil)
				builder.err = nil
				_, err = m.Build(ctx, "den_nuggets", types.KindTeam, nil, window)
				So(err, ShouldBeNil)
				So(builder.builds, ShouldEqual, 2)
			})
		})

		Convey("When the cache is purged", func() {
			_, _ = m.Build(ctx, "den_nuggets", types.KindTeam, nil, window)
			m.Purge(ctx)
			_, _ = m.Build(ctx, "den_nuggets", types.KindTeam, nil, window)

			Convey("Then the build runs again", func() {
				So(builder.builds, ShouldEqual, 2)
			})
		})
	})
}
