package lang

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/iotest"
)

func TestCompile_Cache(t *testing.T) {
	ClearCache()

	src := "x = 1; print x;"

	first, err := Compile(t.Context(), src)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	second, err := Compile(t.Context(), src)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if first.Module != second.Module {
		t.Error("identical source and options did not share a cached module")
	}

	renamed, err := Compile(t.Context(), src, WithName("other"))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if renamed.Module == first.Module || renamed.Module.Name != "other" {
		t.Error("different options shared a cached module")
	}

	uncached, err := Compile(t.Context(), src, WithCache(false))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if uncached.Module == first.Module {
		t.Error("WithCache(false) returned a cached module")
	}

	ClearCache()

	third, err := Compile(t.Context(), src)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if third.Module == first.Module {
		t.Error("ClearCache did not drop cached modules")
	}
}

func TestCompile_CacheKeepsWriter(t *testing.T) {
	ClearCache()

	src := `print "hi";`

	var a, b bytes.Buffer

	for _, w := range []*bytes.Buffer{&a, &b} {
		prog, err := Compile(t.Context(), src, WithOutput(w))
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}

		if err := prog.Run(t.Context(), nil); err != nil {
			t.Fatalf("Run: %v", err)
		}
	}

	if a.String() != "hi\n" || b.String() != "hi\n" {
		t.Errorf("got %q and %q, want both %q", a.String(), b.String(), "hi\n")
	}
}

func TestCompile_CacheError(t *testing.T) {
	ClearCache()

	for range 2 {
		if _, err := Compile(t.Context(), "x = ;"); !errors.Is(err, ErrSyntax) {
			t.Fatalf("got %v, want ErrSyntax", err)
		}
	}
}

func TestCompile_Concurrent(t *testing.T) {
	ClearCache()

	src := "func f(n) { return n * 2; } print f(21);"

	var (
		wg      sync.WaitGroup
		modules [8]*Module
		errs    [8]error
	)

	for i := range modules {
		wg.Go(func() {
			prog, err := Compile(t.Context(), src)
			if err == nil {
				modules[i] = prog.Module
			}

			errs[i] = err
		})
	}

	wg.Wait()

	for i := range modules {
		if errs[i] != nil {
			t.Fatalf("Compile %d: %v", i, errs[i])
		}

		if modules[i] != modules[0] {
			t.Errorf("Compile %d did not share the cached module", i)
		}
	}
}

func TestCompileReader(t *testing.T) {
	var out bytes.Buffer

	prog, err := CompileReader(t.Context(),
		strings.NewReader("print 6 * 7;"), WithOutput(&out))
	if err != nil {
		t.Fatalf("CompileReader: %v", err)
	}

	if err := prog.Run(t.Context(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if out.String() != "42\n" {
		t.Errorf("got %q, want %q", out.String(), "42\n")
	}

	broken := errors.New("broken pipe")

	_, err = CompileReader(t.Context(), iotest.ErrReader(broken))
	if !errors.Is(err, ErrReadInput) || !errors.Is(err, broken) {
		t.Errorf("got %v, want ErrReadInput wrapping %v", err, broken)
	}
}
