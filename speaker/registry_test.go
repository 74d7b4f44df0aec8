package speaker

import "testing"

func TestRegistryFirstWinOrder(t *testing.T) {
	r := NewRegistry()

	steps := []struct {
		id   string
		want string
	}{
		{"SPEAKER_07", "Speaker 1"},
		{"SPEAKER_02", "Speaker 2"},
		{"SPEAKER_07", "Speaker 1"},
		{"SPEAKER_00", "Speaker 3"},
		{"SPEAKER_02", "Speaker 2"},
	}
	for _, s := range steps {
		if got := r.Resolve(s.id); got != s.want {
			t.Errorf("Resolve(%q) = %q, want %q", s.id, got, s.want)
		}
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}

	labels := r.Labels()
	wantIDs := []string{"SPEAKER_07", "SPEAKER_02", "SPEAKER_00"}
	for i, a := range labels {
		if a.ID != wantIDs[i] {
			t.Errorf("Labels()[%d].ID = %q, want %q", i, a.ID, wantIDs[i])
		}
	}
}

func TestRegistryLabelFormat(t *testing.T) {
	r := NewRegistry(WithLabelFormat("发言者%d"))
	if got := r.Resolve("A"); got != "发言者1" {
		t.Errorf("got %q", got)
	}

	r = NewRegistry(WithLabelFormat(""))
	if got := r.Resolve("A"); got != "Speaker 1" {
		t.Errorf("empty format should keep default, got %q", got)
	}
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Lookup("A"); ok {
		t.Fatal("Lookup must not assign labels")
	}
	r.Resolve("A")
	if label, ok := r.Lookup("A"); !ok || label != "Speaker 1" {
		t.Errorf("Lookup(A) = %q, %v", label, ok)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistriesAreIndependent(t *testing.T) {
	first := NewRegistry()
	first.Resolve("X")
	first.Resolve("Y")

	second := NewRegistry()
	if got := second.Resolve("Y"); got != "Speaker 1" {
		t.Errorf("fresh registry should start at 1, got %q", got)
	}
}

func TestLabelsReturnsCopy(t *testing.T) {
	r := NewRegistry()
	r.Resolve("A")
	labels := r.Labels()
	labels[0].Label = "changed"
	if got, _ := r.Lookup("A"); got != "Speaker 1" {
		t.Errorf("Labels() leaked internal state, got %q", got)
	}
	if r.Labels()[0].Label != "Speaker 1" {
		t.Error("Labels() leaked internal slice")
	}
}
