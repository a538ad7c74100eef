package ring

type heapRegion []byte

func (r heapRegion) Bytes() []byte { return r }
func (r heapRegion) Close() error { return nil }

// Heap opens regions backed by ordinary process memory. It stands in for
// the hardware mapping wherever no shared memory is needed.
var Heap MemoryOpener = heapOpener{}

type heapOpener struct{}

func (heapOpener) OpenMemory(size int) (Region, error) {
	return make(heapRegion, size), nil
}
