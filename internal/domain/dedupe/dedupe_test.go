package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/rematch/internal/domain/dedupe"
)

func TestRingDeduper(t *testing.T) {
	Convey("Given a new ring deduper", t, func() {
		Convey("When creating a deduper with default options", func() {
			d := dedupe.NewRingDeduper()

			Convey("Then it should start empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording application keys", func() {
			d := dedupe.NewRingDeduper()

			Convey("And the key is new", func() {
				seen := d.SeenAndRecord(context.Background(), "cand-1|job-1")

				Convey("Then it should return false and record the key", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the key was already seen", func() {
				d.SeenAndRecord(context.Background(), "cand-1|job-1")
				seen := d.SeenAndRecord(context.Background(), "cand-1|job-1")

				Convey("Then it should return true without growing", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the same candidate applies to a different job", func() {
				d.SeenAndRecord(context.Background(), "cand-1|job-1")
				seen := d.SeenAndRecord(context.Background(), "cand-1|job-2")

				Convey("Then it should be treated as new", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 2)
				})
			})
		})

		Convey("When unrecording a key", func() {
			d := dedupe.NewRingDeduper()
			d.SeenAndRecord(context.Background(), "cand-1|job-1")
			d.Unrecord(context.Background(), "cand-1|job-1")

			Convey("Then the key can be recorded again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(context.Background(), "cand-1|job-1"), ShouldBeFalse)
			})
		})

		Convey("When unrecording a key that was never seen", func() {
			d := dedupe.NewRingDeduper()
			d.Unrecord(context.Background(), "cand-9|job-9")

			Convey("Then the size stays at zero", func() {
				So(d.Size(), ShouldEqual, 0)
			})
		})
	})
}

func TestRingDeduperEviction(t *testing.T) {
	Convey("Given a bounded deduper of size 3", t, func() {
		d := dedupe.NewRingDeduper(dedupe.WithMaxSize(3))
		ctx := context.Background()

		Convey("When inserting more keys than the bound", func() {
			d.SeenAndRecord(ctx, "k1")
			d.SeenAndRecord(ctx, "k2")
			d.SeenAndRecord(ctx, "k3")
			d.SeenAndRecord(ctx, "k4")

			Convey("Then the oldest key is evicted and can reappear as new", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "k1"), ShouldBeFalse)
			})

			Convey("Then recent keys are still deduplicated", func() {
				So(d.SeenAndRecord(ctx, "k3"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "k4"), ShouldBeTrue)
			})
		})
	})

	Convey("Given a bounded deduper where a key was unrecorded and re-recorded", t, func() {
		d := dedupe.NewRingDeduper(dedupe.WithMaxSize(3))
		ctx := context.Background()

		d.SeenAndRecord(ctx, "k1")
		d.Unrecord(ctx, "k1")
		d.SeenAndRecord(ctx, "k1")
		d.SeenAndRecord(ctx, "k2")

		Convey("When the ring wraps over the key's old slot", func() {
			d.SeenAndRecord(ctx, "k3")

			Convey("Then the re-recorded key survives the wrap", func() {
				So(d.SeenAndRecord(ctx, "k1"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 3)
			})

			Convey("Then a further insert evicts the live copy in order", func() {
				d.SeenAndRecord(ctx, "k4")
				So(d.SeenAndRecord(ctx, "k1"), ShouldBeFalse)
			})
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewRingDeduper(dedupe.WithMaxSize(0))
		ctx := context.Background()

		Convey("When inserting many keys", func() {
			for i := 0; i < 1000; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("key-%d", i))
			}

			Convey("Then nothing is evicted", func() {
				So(d.Size(), ShouldEqual, 1000)
				So(d.SeenAndRecord(ctx, "key-0"), ShouldBeTrue)
			})
		})
	})
}

func TestRingDeduperConcurrency(t *testing.T) {
	Convey("Given concurrent writers on a shared key space", t, func() {
		d := dedupe.NewRingDeduper()
		ctx := context.Background()

		const workers = 8
		const keys = 200

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < keys; i++ {
					d.SeenAndRecord(ctx, fmt.Sprintf("cand-%d|job-1", i))
				}
			}()
		}
		wg.Wait()

		Convey("Then each key is recorded exactly once", func() {
			So(d.Size(), ShouldEqual, keys)
		})
	})
}
