package cache_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/launchdash/internal/adapters/cache"
	. "github.com/smartystreets/goconvey/convey"
)

func png(s string) cache.Entry {
	return cache.Entry{Body: []byte(s), ContentType: "image/png"}
}

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new in-memory cache", t, func() {
		c := cache.NewInMemory()

		Convey("When nothing is stored", func() {
			_, ok := c.Get(ctx, "missing")

			Convey("Then lookups should miss", func() {
				So(ok, ShouldBeFalse)
				So(c.Size(), ShouldEqual, 0)
			})
		})

		Convey("When an entry is stored", func() {
			c.Put(ctx, "pie.png|site=ALL", png("a"))
			e, ok := c.Get(ctx, "pie.png|site=ALL")

			Convey("Then it should be returned", func() {
				So(ok, ShouldBeTrue)
				So(string(e.Body), ShouldEqual, "a")
				So(e.ContentType, ShouldEqual, "image/png")
				So(c.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the same key is stored twice", func() {
			c.Put(ctx, "k", png("old"))
			c.Put(ctx, "k", png("new"))
			e, _ := c.Get(ctx, "k")

			Convey("Then the newer entry should replace the older", func() {
				So(string(e.Body), ShouldEqual, "new")
				So(c.Size(), ShouldEqual, 1)
			})
		})

		Convey("When entries are removed", func() {
			for i := 0; i < 3; i++ {
				c.Put(ctx, fmt.Sprintf("k%d", i), png("x"))
			}
			c.Remove(ctx, "k1")
			c.Remove(ctx, "k2")
			c.Remove(ctx, "nope")
			c.Put(ctx, "k3", png("y"))

			Convey("Then only the remaining entries should be found", func() {
				So(c.Size(), ShouldEqual, 2)
				_, ok := c.Get(ctx, "k1")
				So(ok, ShouldBeFalse)
				_, ok = c.Get(ctx, "k0")
				So(ok, ShouldBeTrue)
				_, ok = c.Get(ctx, "k3")
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When the cache is purged", func() {
			c.Put(ctx, "a", png("a"))
			c.Put(ctx, "b", png("b"))
			c.Purge(ctx)
			c.Put(ctx, "c", png("c"))

			Convey("Then earlier entries should be gone", func() {
				So(c.Size(), ShouldEqual, 1)
				_, ok := c.Get(ctx, "a")
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given a bounded cache", t, func() {
		c := cache.NewInMemory(cache.WithMaxEntries(2))

		Convey("When more entries than the bound are stored", func() {
			c.Put(ctx, "first", png("1"))
			c.Put(ctx, "second", png("2"))
			c.Put(ctx, "third", png("3"))

			Convey("Then the oldest entry should be evicted", func() {
				So(c.Size(), ShouldEqual, 2)
				_, ok := c.Get(ctx, "first")
				So(ok, ShouldBeFalse)
				_, ok = c.Get(ctx, "third")
				So(ok, ShouldBeTrue)
			})
		})
	})

	Convey("Given a cache with an observer", t, func() {
		var hits, misses int
		c := cache.NewInMemory(cache.WithObserver(func(hit bool, _ int64) {
			if hit {
				hits++
			} else {
				misses++
			}
		}))

		Convey("When lookups hit and miss", func() {
			c.Put(ctx, "a", png("a"))
			c.Get(ctx, "a")
			c.Get(ctx, "b")
			c.Get(ctx, "c")

			Convey("Then the observer should see each result", func() {
				So(hits, ShouldEqual, 1)
				So(misses, ShouldEqual, 2)
			})
		})
	})
}

func TestInMemoryCacheConcurrency(t *testing.T) {
	Convey("Given a bounded cache shared by goroutines", t, func() {
		ctx := context.Background()
		c := cache.NewInMemory(cache.WithMaxEntries(50))

		Convey("When many goroutines write and read", func() {
			var wg sync.WaitGroup
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func(g int) {
					defer wg.Done()
					for i := 0; i < 100; i++ {
						key := fmt.Sprintf("g%d-%d", g, i)
						c.Put(ctx, key, png(key))
						c.Get(ctx, key)
					}
				}(g)
			}
			wg.Wait()

			Convey("Then the bound should hold", func() {
				So(c.Size(), ShouldBeLessThanOrEqualTo, 50)
			})
		})
	})
}

func TestKey(t *testing.T) {
	Convey("Given input values", t, func() {
		a := cache.Key("pie", "svg", map[string]string{"site-dropdown": `"KSC"`, "payload-slider": "[0,1000]"})
		b := cache.Key("pie", "svg", map[string]string{"payload-slider": "[0,1000]", "site-dropdown": `"KSC"`})
		c := cache.Key("pie", "png", map[string]string{"payload-slider": "[0,1000]", "site-dropdown": `"KSC"`})

		Convey("Then the key should not depend on map order", func() {
			So(a, ShouldEqual, b)
			So(a, ShouldEqual, `pie.svg|payload-slider=[0,1000]|site-dropdown="KSC"`)
		})

		Convey("And the format should be part of the key", func() {
			So(a, ShouldNotEqual, c)
		})
	})
}
