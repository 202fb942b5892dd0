package pool

// Pool is an interface that defines methods on a pool of workers. The
// decisionengine package uses it to bound how many round tasks run
// concurrently and to recycle BoundedMerge's parallel rescore slots.
type Pool interface {
	// Get returns a worker from the pool.
	Get() interface{}

	// Put returns a worker back to the pool.
	Put(interface{})
}
