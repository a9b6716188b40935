package frontier

import (
	"testing"

	"github.com/cametumbling/distcrawler/internal/admission"
)

func TestSeed_DedupsAndEnqueues(t *testing.T) {
	f := New(50, admission.New(admission.Config{}))
	f.Seed([]string{"https://a.test/", "https://a.test/", "https://b.test/"})

	if f.VisitedCount() != 2 {
		t.Errorf("VisitedCount = %d, want 2", f.VisitedCount())
	}

	var got []Job
	for {
		j, ok := f.Next()
		if !ok {
			break
		}
		got = append(got, j)
	}
	if len(got) != 2 {
		t.Fatalf("got %d jobs, want 2", len(got))
	}
	if got[0].URL != "https://a.test/" || got[0].Depth != 0 {
		t.Errorf("got[0] = %+v", got[0])
	}
}

func TestTryAdmit_RejectsAlreadyVisited(t *testing.T) {
	f := New(50, admission.New(admission.Config{}))
	f.Seed([]string{"https://a.test/"})

	if f.TryAdmit("https://a.test/", 1) {
		t.Error("expected re-admission of seeded URL to be rejected")
	}
}

func TestTryAdmit_EnforcesDomainQuota(t *testing.T) {
	f := New(2, admission.New(admission.Config{}))
	f.Seed([]string{"https://c.test/"}) // consumes slot 1

	if !f.TryAdmit("https://c.test/a", 1) {
		t.Fatal("expected /a to be admitted (slot 2)")
	}
	if f.TryAdmit("https://c.test/b", 1) {
		t.Error("expected /b to be rejected: quota exhausted")
	}
	if f.TryAdmit("https://c.test/c", 1) {
		t.Error("expected /c to be rejected: quota exhausted")
	}
	if f.DomainCount("c.test") != 2 {
		t.Errorf("DomainCount = %d, want 2", f.DomainCount("c.test"))
	}
}

func TestTryAdmit_RespectsAdmissionFilter(t *testing.T) {
	f := New(50, admission.New(admission.Config{}))

	if f.TryAdmit("https://d.test/file.pdf", 1) {
		t.Error("expected .pdf to be rejected by the admission filter")
	}
}

func TestEmpty(t *testing.T) {
	f := New(50, admission.New(admission.Config{}))
	if !f.Empty() {
		t.Error("expected new frontier to be empty")
	}
	f.Seed([]string{"https://a.test/"})
	if f.Empty() {
		t.Error("expected non-empty frontier after seed")
	}
}
