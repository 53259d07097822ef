package usecase

import (
	"errors"
	"testing"

	"visionkit/internal/domain"
	"visionkit/internal/logging"
	"visionkit/internal/port"
)

type fakeOCR struct {
	available error
	texts     map[port.PageSegmentation]string
	errs      map[port.PageSegmentation]error
	calls     []port.PageSegmentation
}

func (f *fakeOCR) Available() error {
	return f.available
}

func (f *fakeOCR) Recognize(path string, mode port.PageSegmentation) (string, error) {
	f.calls = append(f.calls, mode)
	if err := f.errs[mode]; err != nil {
		return "", err
	}
	return f.texts[mode], nil
}

func TestReadTextMergesPasses(t *testing.T) {
	engine := &fakeOCR{texts: map[port.PageSegmentation]string{
		port.SegmentBlock:  "Acme Soda",
		port.SegmentSparse: "ACME Soda 330ml",
		port.SegmentAuto:   "",
	}}
	uc := NewTextUseCase(engine, logging.Discard())

	got, err := uc.ReadText("label.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Acme Soda 330ml" {
		t.Errorf("expected %q, got %q", "Acme Soda 330ml", got)
	}
}

func TestReadTextPassOrder(t *testing.T) {
	engine := &fakeOCR{texts: map[port.PageSegmentation]string{}}
	uc := NewTextUseCase(engine, logging.Discard())

	if _, err := uc.ReadText("label.jpg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []port.PageSegmentation{port.SegmentBlock, port.SegmentSparse, port.SegmentAuto}
	if len(engine.calls) != len(want) {
		t.Fatalf("expected %d passes, got %d", len(want), len(engine.calls))
	}
	for i := range want {
		if engine.calls[i] != want[i] {
			t.Errorf("pass %d: expected mode %d, got %d", i, want[i], engine.calls[i])
		}
	}
}

func TestReadTextDropsVerbatimDuplicatePasses(t *testing.T) {
	engine := &fakeOCR{texts: map[port.PageSegmentation]string{
		port.SegmentBlock:  "SALE 50% OFF",
		port.SegmentSparse: "SALE 50% OFF",
		port.SegmentAuto:   "  SALE 50% OFF  ",
	}}
	uc := NewTextUseCase(engine, logging.Discard())

	got, err := uc.ReadText("banner.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "SALE 50% OFF" {
		t.Errorf("expected single copy, got %q", got)
	}
}

func TestReadTextKeepsFirstSpelling(t *testing.T) {
	engine := &fakeOCR{texts: map[port.PageSegmentation]string{
		port.SegmentBlock:  "COLA",
		port.SegmentSparse: "cola zero",
	}}
	uc := NewTextUseCase(engine, logging.Discard())

	got, err := uc.ReadText("can.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "COLA zero" {
		t.Errorf("expected first spelling kept, got %q", got)
	}
}

func TestReadTextBlankImage(t *testing.T) {
	engine := &fakeOCR{texts: map[port.PageSegmentation]string{
		port.SegmentBlock:  "",
		port.SegmentSparse: "   \n\t ",
		port.SegmentAuto:   "",
	}}
	uc := NewTextUseCase(engine, logging.Discard())

	got, err := uc.ReadText("blank.jpg")
	if err != nil {
		t.Fatalf("expected no error for blank image, got %v", err)
	}
	if got != "" {
		t.Errorf("expected empty text, got %q", got)
	}
}

func TestReadTextUnavailableEngine(t *testing.T) {
	unavailable := domain.Errorf(domain.KindDependency,
		"tesseract is not installed or it's not in your PATH. See README file for more information.")
	engine := &fakeOCR{available: unavailable}
	uc := NewTextUseCase(engine, logging.Discard())

	_, err := uc.ReadText("label.jpg")
	if !errors.Is(err, unavailable) {
		t.Fatalf("expected availability error returned as-is, got %v", err)
	}
	if len(engine.calls) != 0 {
		t.Errorf("expected no passes after availability failure, got %d", len(engine.calls))
	}
}

func TestReadTextToleratesPartialPassFailure(t *testing.T) {
	engine := &fakeOCR{
		texts: map[port.PageSegmentation]string{
			port.SegmentSparse: "Acme Soda",
		},
		errs: map[port.PageSegmentation]error{
			port.SegmentBlock: errors.New("pass crashed"),
		},
	}
	uc := NewTextUseCase(engine, logging.Discard())

	got, err := uc.ReadText("label.jpg")
	if err != nil {
		t.Fatalf("expected partial failure tolerated, got %v", err)
	}
	if got != "Acme Soda" {
		t.Errorf("expected text from surviving pass, got %q", got)
	}
}

func TestReadTextAllPassesFailed(t *testing.T) {
	engine := &fakeOCR{errs: map[port.PageSegmentation]error{
		port.SegmentBlock:  errors.New("cannot read image"),
		port.SegmentSparse: errors.New("cannot read image"),
		port.SegmentAuto:   errors.New("cannot read image"),
	}}
	uc := NewTextUseCase(engine, logging.Discard())

	_, err := uc.ReadText("corrupt.jpg")
	if err == nil {
		t.Fatal("expected error when every pass fails")
	}
	if domain.KindOf(err) != domain.KindModel {
		t.Errorf("expected model error, got %v", domain.KindOf(err))
	}
}

func TestDedupeWords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"no duplicates", "fresh orange juice", "fresh orange juice"},
		{"case insensitive", "Acme ACME acme Soda", "Acme Soda"},
		{"whitespace collapsed", "a  b\t\nc", "a b c"},
		{"keeps first occurrence", "Zero zero Cola ZERO", "Zero Cola"},
		{"merged passes", "Acme Soda 12oz SODA can", "Acme Soda 12oz can"},
	}
	for _, tt := range tests {
		if got := dedupeWords(tt.in); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}
