package convert

import (
	"errors"
	"sync"
	"testing"

	"redoc/format"
)

func TestRegistryResolveUnknownFormat(t *testing.T) {
	r := NewRegistry()
	_, err := r.Resolve("tiff")
	var ufe *UnsupportedFormatError
	if !errors.As(err, &ufe) {
		t.Fatalf("expected UnsupportedFormatError, got %v", err)
	}
	if ufe.Format != format.ID("tiff") {
		t.Fatalf("unexpected format in error: %q", ufe.Format)
	}
}

func TestRegistryNormalizesIdentifiers(t *testing.T) {
	r := NewRegistry()
	r.Register("PDF", func() Converter { return NewJSONConverter(Deps{}) })
	if _, err := r.Resolve(".pdf"); err != nil {
		t.Fatalf("Resolve(.pdf) error = %v", err)
	}
}

func TestRegistryCachesInstances(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.Register("json", func() Converter {
		calls++
		return NewJSONConverter(Deps{})
	})
	a, err := r.Resolve("json")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	b, err := r.Resolve("json")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if a != b {
		t.Fatalf("expected the cached instance to be reused")
	}
	if calls != 1 {
		t.Fatalf("factory ran %d times, want 1", calls)
	}
}

func TestRegistryLastWriteWins(t *testing.T) {
	r := NewRegistry()
	r.Register("json", func() Converter { return NewJSONConverter(Deps{}) })
	if _, err := r.Resolve("json"); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	r.Register("json", func() Converter { return NewXMLConverter(Deps{}) })
	conv, err := r.Resolve("json")
	if err != nil {
		t.Fatalf("Resolve() after override error = %v", err)
	}
	if conv.Native() != format.XML {
		t.Fatalf("override did not take effect, native = %s", conv.Native())
	}
}

func TestRegistryConcurrentResolve(t *testing.T) {
	r := NewRegistry()
	RegisterBuiltins(r, Deps{})

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, id := range []string{"pdf", "html", "json", "xml", "docx", "epub"} {
				if _, err := r.Resolve(id); err != nil {
					t.Errorf("Resolve(%s) error = %v", id, err)
				}
			}
			if _, err := r.Resolve("unregistered"); err == nil {
				t.Errorf("expected error for unregistered format")
			}
		}()
	}
	wg.Wait()

	if got := len(r.Formats()); got != 6 {
		t.Fatalf("registry mapping corrupted: %d formats", got)
	}
}

func TestRegisterBuiltinsFormats(t *testing.T) {
	r := NewRegistry()
	RegisterBuiltins(r, Deps{})
	want := []format.ID{format.DOCX, format.EPUB, format.HTML, format.JSON, format.PDF, format.XML}
	got := r.Formats()
	if len(got) != len(want) {
		t.Fatalf("unexpected formats: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected formats: %v", got)
		}
	}
}
