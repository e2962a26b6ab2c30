package arena

import "context"

type allocatorCtxKey struct{}

// WithAllocator returns a copy of ctx that carries target allocator.
// Use GetAllocator or GetAllocatorOrDefault to receive it.
func WithAllocator(ctx context.Context, allocator Allocator) context.Context {
	return context.WithValue(ctx, allocatorCtxKey{}, allocator)
}

// GetAllocator returns the allocator carried by ctx and true,
// or nil and false if ctx has no allocator.
func GetAllocator(ctx context.Context) (Allocator, bool) {
	allocator, ok := ctx.Value(allocatorCtxKey{}).(Allocator)
	if !ok || allocator == nil {
		return nil, false
	}
	return allocator, true
}

// GetAllocatorOrDefault returns the allocator carried by ctx or defaultAllocator.
func GetAllocatorOrDefault(ctx context.Context, defaultAllocator Allocator) Allocator {
	if allocator, ok := GetAllocator(ctx); ok {
		return allocator
	}
	return defaultAllocator
}
