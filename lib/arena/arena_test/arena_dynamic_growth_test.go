package arena_test

import (
	"math/rand"
	"runtime"
	"testing"

	"github.com/storozhukBM/points2d/lib/arena"
)

type arenaDynamicGrowthStand struct{}

func (s *arenaDynamicGrowthStand) check(t *testing.T, target allocator) {
	s.allocateDifferentObjects(t, target)

	originPtr := allocPoint(t, target, point{X: 44, Y: -21})

	s.allocateDifferentObjects(t, target)
	runtime.GC()

	origin := loadPoint(target, originPtr)
	assert(origin == point{X: 44, Y: -21}, "unexpected point state: %+v", origin)

	for i := 0; i < 3; i++ {
		target.Clear()
		func() {
			defer func() {
				wrongArenaToRefPanic := recover()
				assert(wrongArenaToRefPanic != nil, "toRef on cleared arena should trigger panic")
			}()
			loadPoint(target, originPtr)
		}()
		afterClearAllocatedBytes := target.Metrics().AllocatedBytes
		iterations := 0
		for target.Metrics().AllocatedBytes == afterClearAllocatedBytes {
			s.allocateDifferentObjects(t, target)
			iterations++
		}
		t.Logf("allocation cycles before a new bucket get allocated: %v", iterations)
	}
}

func (s *arenaDynamicGrowthStand) allocateDifferentObjects(t *testing.T, target allocator) {
	t.Logf("before allocation: %v", target.Metrics())
	type allocatedPoint struct {
		ptr   arena.Ptr
		point point
	}
	allocations := make([]allocatedPoint, 0, 100)
	scaleFactor := rand.Intn(9) + 1
	for i := 0; i < 100*scaleFactor; i++ {
		_, allocErr := target.Alloc(genRandomSize(), genRandomAlignment())
		failOnError(t, allocErr)
		if rand.Float32() < 0.1 {
			p := point{X: rand.Int63(), Y: -rand.Int63()}
			allocations = append(allocations, allocatedPoint{ptr: allocPoint(t, target, p), point: p})
		}
	}

	for _, alloc := range allocations {
		p := loadPoint(target, alloc.ptr)
		assert(p == alloc.point, "unexpected point state: %+v; %+v", p, alloc)
	}
	t.Logf("after allocation: %v", target.Metrics())
}

func genRandomSize() uintptr {
	size := uintptr(rand.Intn(1024))
	if rand.Float32() < 0.05 {
		size *= 64
	}
	return size
}

func genRandomAlignment() uintptr {
	alignments := []uintptr{1, 8, 16, 32}
	return alignments[rand.Intn(len(alignments))]
}
