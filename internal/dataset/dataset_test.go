package dataset

import (
	"slices"
	"testing"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("entries are lowercased trimmed and deduplicated", func(t *testing.T) {
		t.Parallel()

		ds := New([]string{" Scholarships.GOV.in ", "scholarships.gov.in", "", "   "}, []string{"Scam.XYZ"})

		if !slices.Equal(ds.VerifiedDomains, []string{"scholarships.gov.in"}) {
			t.Errorf("unexpected verified domains: %v", ds.VerifiedDomains)
		}
		if !slices.Equal(ds.KnownScamDomains, []string{"scam.xyz"}) {
			t.Errorf("unexpected scam domains: %v", ds.KnownScamDomains)
		}
	})

	t.Run("nil input yields empty non-nil lists", func(t *testing.T) {
		t.Parallel()

		ds := New(nil, nil)
		if ds.VerifiedDomains == nil || ds.KnownScamDomains == nil {
			t.Error("expected non-nil lists")
		}
		if ds.Len() != 0 {
			t.Errorf("expected 0 entries, got %d", ds.Len())
		}
	})
}

func TestEmpty(t *testing.T) {
	t.Parallel()

	ds := Empty()
	if ds.Len() != 0 {
		t.Errorf("expected empty dataset, got %d entries", ds.Len())
	}
	if ds.IsVerified("example.com") {
		t.Error("empty dataset should not verify anything")
	}
	if ds.IsKnownScam("example.com") {
		t.Error("empty dataset should not flag anything")
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	ds, err := Default()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ds.VerifiedDomains) == 0 {
		t.Error("bundled dataset should contain verified domains")
	}
	if len(ds.KnownScamDomains) == 0 {
		t.Error("bundled dataset should contain scam domains")
	}
	if !ds.IsVerified("scholarships.gov.in") {
		t.Error("expected scholarships.gov.in to be verified")
	}
}

func TestIsVerified(t *testing.T) {
	t.Parallel()

	ds := New([]string{"gov.in", "fulbright.org"}, nil)

	tests := []struct {
		name   string
		domain string
		want   bool
	}{
		{name: "exact match", domain: "fulbright.org", want: true},
		{name: "subdomain", domain: "apply.fulbright.org", want: true},
		{name: "suffix without label boundary", domain: "fakegov.in", want: true},
		{name: "unrelated domain", domain: "example.com", want: false},
		{name: "prefix only", domain: "fulbright.org.xyz", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ds.IsVerified(tt.domain); got != tt.want {
				t.Errorf("IsVerified(%q) = %v, want %v", tt.domain, got, tt.want)
			}
		})
	}
}

func TestIsKnownScam(t *testing.T) {
	t.Parallel()

	ds := New(nil, []string{"scam.xyz"})

	tests := []struct {
		name   string
		domain string
		want   bool
	}{
		{name: "exact match", domain: "scam.xyz", want: true},
		{name: "subdomain", domain: "apply.scam.xyz", want: true},
		{name: "suffix without label boundary", domain: "notscam.xyz", want: false},
		{name: "unrelated domain", domain: "example.com", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ds.IsKnownScam(tt.domain); got != tt.want {
				t.Errorf("IsKnownScam(%q) = %v, want %v", tt.domain, got, tt.want)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	t.Run("merges and deduplicates", func(t *testing.T) {
		t.Parallel()

		a := New([]string{"a.gov.in"}, []string{"x.xyz"})
		b := New([]string{"a.gov.in", "b.edu"}, []string{"y.top"})

		merged := a.Merge(b)

		if !slices.Equal(merged.VerifiedDomains, []string{"a.gov.in", "b.edu"}) {
			t.Errorf("unexpected verified domains: %v", merged.VerifiedDomains)
		}
		if !slices.Equal(merged.KnownScamDomains, []string{"x.xyz", "y.top"}) {
			t.Errorf("unexpected scam domains: %v", merged.KnownScamDomains)
		}
		if len(a.VerifiedDomains) != 1 {
			t.Error("merge must not modify the receiver")
		}
	})

	t.Run("nil other returns a copy", func(t *testing.T) {
		t.Parallel()

		a := New([]string{"a.gov.in"}, nil)
		merged := a.Merge(nil)
		if merged == a {
			t.Error("expected a new dataset")
		}
		if merged.Len() != 1 {
			t.Errorf("expected 1 entry, got %d", merged.Len())
		}
	})
}
