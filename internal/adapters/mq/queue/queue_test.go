package queue_test

import (
	"context"
	"testing"

	"github.com/okian/statline/internal/adapters/mq/queue"
	"github.com/okian/statline/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	Convey("Given an in-memory job queue", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(4))

		Convey("When enqueueing jobs", func() {
			ok := q.Enqueue(ctx, queue.Job{Index: 0, Instance: model.Instance{ID: "game-001"}})
			So(ok, ShouldBeTrue)
			So(q.Enqueue(ctx, queue.Job{Index: 1, Instance: model.Instance{ID: "game-002"}}), ShouldBeTrue)

			Convey("Then the length should track the buffer", func() {
				So(q.Len(ctx), ShouldEqual, 2)
			})

			Convey("And dequeueing should yield jobs in order", func() {
				jobs := q.Dequeue(ctx)
				first := <-jobs
				So(first.Index, ShouldEqual, 0)
				So(first.Instance.ID, ShouldEqual, "game-001")
				So((<-jobs).Index, ShouldEqual, 1)
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Enqueue(ctx, queue.Job{Index: 0}), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueueing should be refused", func() {
				So(q.Enqueue(ctx, queue.Job{Index: 1}), ShouldBeFalse)
			})

			Convey("And buffered jobs should drain before the channel closes", func() {
				jobs := q.Dequeue(ctx)
				j, open := <-jobs
				So(open, ShouldBeTrue)
				So(j.Index, ShouldEqual, 0)
				_, open = <-jobs
				So(open, ShouldBeFalse)
			})

			Convey("And closing again should be a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})
		})

		Convey("When enqueueing into a full queue with a canceled context", func() {
			for i := 0; i < 4; i++ {
				So(q.Enqueue(ctx, queue.Job{Index: i}), ShouldBeTrue)
			}
			canceled, cancel := context.WithCancel(ctx)
			cancel()

			Convey("Then the enqueue should give up instead of blocking", func() {
				So(q.Enqueue(canceled, queue.Job{Index: 4}), ShouldBeFalse)
			})
		})
	})
}
