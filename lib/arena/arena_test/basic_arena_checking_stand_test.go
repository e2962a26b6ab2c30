package arena_test

import (
	"runtime"
	"testing"
)

const requiredBytesForBasicTest = 128

type basicArenaCheckingStand struct {
	commonStandState
}

func (s *basicArenaCheckingStand) check(t *testing.T, target allocator) {
	{
		ptr, allocErr := target.Alloc(0, 1)
		failOnError(t, allocErr)
		s.checkPointerIsUnique(t, ptr)
		s.checkOffsetIsUnique(t, target.CurrentOffset())
		s.checkMetricsAreUnique(t, target.Metrics())
		s.checkEnhancedMetricsAreUnique(t, target)
		s.checkArenaStrIsUnique(t, target)
		// here we expect 0 as:
		// current_alloc_size | padding | result_size |
		//                 +0 |      +0 |           0 |
		assert(target.Metrics().UsedBytes == 0, "expect used bytes should be 0. instead: %v", target.Metrics())
	}
	{
		ptr, allocErr := target.Alloc(1, 1)
		failOnError(t, allocErr)
		assert(ptr.String() != "", "can't be empty")
		s.checkOffsetIsUnique(t, target.CurrentOffset())
		s.checkMetricsAreUnique(t, target.Metrics())
		s.checkEnhancedMetricsAreUnique(t, target)
		s.checkArenaStrIsUnique(t, target)
		// here we expect 1 as:
		// current_alloc_size | padding | result_size |
		//                 +0 |      +0 |           0 |
		//                 +1 |      +0 |           1 |
		assert(target.Metrics().UsedBytes == 1, "expect used bytes should be 1. instead: %v", target.Metrics())
	}
	{
		ptr, allocErr := target.Alloc(3, 1)
		failOnError(t, allocErr)
		s.checkPointerIsUnique(t, ptr)
		s.checkOffsetIsUnique(t, target.CurrentOffset())
		s.checkMetricsAreUnique(t, target.Metrics())
		s.checkEnhancedMetricsAreUnique(t, target)
		s.checkArenaStrIsUnique(t, target)
		// here we expect 4 as:
		// current_alloc_size | padding | result_size |
		//                 +0 |      +0 |           0 |
		//                 +1 |      +0 |           1 |
		//                 +3 |      +0 |           4 |
		assert(target.Metrics().UsedBytes == 4, "expect used bytes should be 4. instead: %v", target.Metrics())
	}
	{
		ptr, testAlignmentErr := target.Alloc(4, 4)
		failOnError(t, testAlignmentErr)
		s.checkPointerIsUnique(t, ptr)
		s.checkOffsetIsUnique(t, target.CurrentOffset())
		s.checkMetricsAreUnique(t, target.Metrics())
		s.checkEnhancedMetricsAreUnique(t, target)
		s.checkArenaStrIsUnique(t, target)
		// here we expect 8 as:
		// current_alloc_size | padding | result_size |
		//                 +0 |      +0 |           0 |
		//                 +1 |      +0 |           1 |
		//                 +3 |      +0 |           4 |
		//                 +4 |      +0 |           8 |
		assert(target.Metrics().UsedBytes == 8, "expect used bytes should be 8. instead: %v", target.Metrics())
	}
	{
		ptr, testAlignmentErr := target.Alloc(1, 1)
		failOnError(t, testAlignmentErr)
		s.checkPointerIsUnique(t, ptr)
		s.checkOffsetIsUnique(t, target.CurrentOffset())
		s.checkMetricsAreUnique(t, target.Metrics())
		s.checkEnhancedMetricsAreUnique(t, target)
		s.checkArenaStrIsUnique(t, target)
		assert(target.Metrics().UsedBytes == 9, "expect used bytes should be 9. instead: %v", target.Metrics())
	}
	{
		originPtr := allocPoint(t, target, point{X: 1, Y: 2})
		s.checkPointerIsUnique(t, originPtr)
		s.checkOffsetIsUnique(t, target.CurrentOffset())
		s.checkMetricsAreUnique(t, target.Metrics())
		s.checkEnhancedMetricsAreUnique(t, target)
		s.checkArenaStrIsUnique(t, target)
		// here we expect 32 as:
		// current_alloc_size |    padding | result_size |
		//                 +9 |      +0    |           9 |
		//                +16 |      +7    |          32 |
		assert(target.Metrics().UsedBytes == 32, "expect used bytes should be 32. instead: %v", target.Metrics())

		nextPtr := allocPoint(t, target, point{X: -3, Y: 4})
		s.checkPointerIsUnique(t, nextPtr)
		s.checkOffsetIsUnique(t, target.CurrentOffset())
		s.checkMetricsAreUnique(t, target.Metrics())
		s.checkEnhancedMetricsAreUnique(t, target)
		s.checkArenaStrIsUnique(t, target)

		runtime.GC()

		origin := loadPoint(target, originPtr)
		assert(origin == point{X: 1, Y: 2}, "unexpected point state: %+v", origin)
		next := loadPoint(target, nextPtr)
		assert(next == point{X: -3, Y: 4}, "unexpected point state: %+v", next)
	}
	s.printStandState(t)
}
