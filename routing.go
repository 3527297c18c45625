package hob

import (
	"context"
	"fmt"
	"hash"
	"hash/crc32"
	"math"
	"sync"
)

// routedEvent is a unit of work for a channel. Events of a same channel are processed in order
type routedEvent struct {
	channelID string
	process   func(ctx context.Context)
}

type partitionRouter struct {
	log SLogger

	// queues with partition keyed by the hash of the channel id so that all events
	// (new messages and deletions) of a channel are handled by the same worker, in order
	queues []chan routedEvent

	// hash function to direct event processing to partitions
	hashLock sync.Mutex
	hasher   hash.Hash32
	hashMask int

	workers sync.WaitGroup

	*instrumenter
}

func newPartitionRouter(partitionCount int, queueBufferSize int, log SLogger, instrumenter *instrumenter) (pr *partitionRouter, err error) {
	if !isPowerOfTwo(partitionCount) {
		return nil, fmt.Errorf("a partition router can only work with a partitionCount that is a power of two but was [%d]", partitionCount)
	}

	pr = new(partitionRouter)
	pr.queues = make([]chan routedEvent, partitionCount)
	for i := range pr.queues {
		pr.queues[i] = make(chan routedEvent, queueBufferSize)
	}
	pr.hasher = crc32.NewIEEE()
	pr.hashMask = hashMask(partitionCount)
	pr.log = log
	pr.instrumenter = instrumenter

	return pr, nil
}

// start launches one worker per partition. Workers run until their queue is closed by stop
func (pr *partitionRouter) start(ctx context.Context) {
	for i, q := range pr.queues {
		pr.workers.Add(1)

		go func(partition int, q <-chan routedEvent) {
			defer pr.workers.Done()

			for e := range q {
				e.process(ctx)
			}

			pr.log.Debugf("Worker for partition [%d] terminated", partition)
		}(i, q)
	}
}

// route hands an event to the partition of its channel
func (pr *partitionRouter) route(e routedEvent) {
	partition := pr.partitionFor(e.channelID)

	pr.log.Debugf("Dispatching event for channel [%s] to partition [%d]", e.channelID, partition)
	d := measure(func() {
		pr.queues[partition] <- e
	})

	pr.msgDispatchLatency.Observe(d.Seconds())
}

// stop closes every queue and waits for the workers to drain them
func (pr *partitionRouter) stop() {
	for _, q := range pr.queues {
		close(q)
	}

	pr.workers.Wait()
}

// partitionFor returns the partition index for a channel id
func (pr *partitionRouter) partitionFor(channelID string) (partition int) {
	pr.hashLock.Lock()
	defer pr.hashLock.Unlock()

	pr.hasher.Reset()
	pr.hasher.Write([]byte(channelID))
	res := pr.hasher.Sum32()

	// Keep only the rightmost bits so we have a max equal to the partition count
	return int(res) & pr.hashMask
}

// isPowerOfTwo returns true if val is a power of two or false if not
func isPowerOfTwo(val int) bool {
	return (val != 0) && (val&(val-1)) == 0
}

// hashMask builds a mask for a partitionCount (which should be a power of two) to get a hash value
// that is in the range of the number of partitions we have
func hashMask(partitionCount int) int {
	maskSize := int(math.Log2(float64(partitionCount)))
	mask := 0
	for i := 0; i < maskSize; i++ {
		mask = mask<<1 | 1
	}

	return mask
}
