// Package profile wraps [github.com/pkg/profile] so the coral command can
// profile the interpreter while it lexes, parses and evaluates a script.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	coral run --pprof-mode cpu --pprof-dir ./profiles fib.cor
//	go tool pprof -http=: ./profiles/cpu.pprof
//
// Without the tag [Modes] is empty and [Profiler.Start] always returns a
// no-op [Stopper]. The supported modes are allocs, block, clock, cpu,
// goroutine, heap, mem, mutex, thread and trace.
//
// Builds with the tag also import [net/http/pprof], which registers its
// handlers on [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`
