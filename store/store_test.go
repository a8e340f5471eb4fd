package store

import (
	"path/filepath"
	"reflect"
	"testing"

	elder "github.com/rphilander/elderlisp/core"
)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "forms.db")
	st, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return st, path
}

func TestStoreAppendAndForms(t *testing.T) {
	st, _ := testStore(t)
	for _, f := range []string{"(define a 1)", "(define b 2)"} {
		if err := st.Append(f); err != nil {
			t.Fatal(err)
		}
	}
	forms, err := st.Forms()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(forms, []string{"(define a 1)", "(define b 2)"}) {
		t.Fatalf("unexpected forms %v", forms)
	}
	n, err := st.Len()
	if err != nil || n != 2 {
		t.Fatalf("expected 2 forms, got %d (%v)", n, err)
	}
}

func TestStoreClear(t *testing.T) {
	st, _ := testStore(t)
	st.Append("(define a 1)")
	if err := st.Clear(); err != nil {
		t.Fatal(err)
	}
	n, _ := st.Len()
	if n != 0 {
		t.Fatalf("expected empty log, got %d", n)
	}
	st.Append("(define c 3)")
	forms, _ := st.Forms()
	if !reflect.DeepEqual(forms, []string{"(define c 3)"}) {
		t.Fatalf("unexpected forms after clear %v", forms)
	}
}

func TestSessionSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forms.db")

	st, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	s, err := elder.NewSession(elder.SessionOptions{Log: st})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Eval(`(define sq (lambda (x) (* x x))) (define n 5) (sq n)`); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Eval("(define broken (car 1))"); err == nil {
		t.Fatal("expected error")
	}
	st.Close()

	st, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	forms, _ := st.Forms()
	if len(forms) != 2 {
		t.Fatalf("expected 2 logged defines, got %v", forms)
	}

	s, err = elder.NewSession(elder.SessionOptions{Log: st})
	if err != nil {
		t.Fatal(err)
	}
	v, err := s.Eval("(sq n)")
	if err != nil {
		t.Fatal(err)
	}
	if !elder.ValuesEqual(v, elder.IntVal(25)) {
		t.Fatalf("expected 25, got %s", v)
	}
	if _, err := s.Env().Lookup("broken"); err == nil {
		t.Fatal("failed define should not be replayed")
	}
}
