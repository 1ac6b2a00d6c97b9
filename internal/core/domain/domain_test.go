package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"artist":        RoleArtist,
		" Normal_User ": RoleNormalUser,
		"ADMIN":         RoleAdmin,
	}
	for in, want := range cases {
		got, err := ParseRole(in)
		if err != nil {
			t.Fatalf("ParseRole(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseRole(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := ParseRole("artsit"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for typo, got %v", err)
	}
}

func TestRoleCapabilities(t *testing.T) {
	if !RoleArtist.Can(CapSellArtwork) {
		t.Fatal("artist should sell artwork")
	}
	if RoleNormalUser.Can(CapSellArtwork) || RoleNormalUser.Can(CapHostEvent) {
		t.Fatal("normal user has no elevated capabilities")
	}
	if !RoleAdmin.Can(CapModerate) || RoleArtist.Can(CapModerate) {
		t.Fatal("only admin moderates")
	}
}

func TestIdentityCanModify(t *testing.T) {
	owner := Identity{SubjectID: "a", Role: RoleArtist}
	other := Identity{SubjectID: "b", Role: RoleArtist}
	admin := Identity{SubjectID: "c", Role: RoleAdmin}

	if !owner.CanModify("a") {
		t.Error("owner must be able to modify")
	}
	if other.CanModify("a") {
		t.Error("non-owner must not modify")
	}
	if !admin.CanModify("a") {
		t.Error("admin must be able to modify")
	}
	if (Identity{}).CanModify("") {
		t.Error("anonymous identity must not match an empty owner")
	}
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{ErrInvalidCredentials, KindUnauthenticated},
		{ErrArtworkNotFound, KindNotFound},
		{ErrEmailTaken, KindConflict},
		{Invalid("title is required"), KindValidation},
		{StorageFailure("insert", errors.New("socket closed")), KindStorage},
		{errors.New("boom"), KindInternal},
	}
	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Errorf("KindOf(%v) = %s, want %s", tc.err, got, tc.want)
		}
	}
}

func TestStorageFailureKeepsKnownKinds(t *testing.T) {
	err := StorageFailure("update", ErrArtworkNotFound)
	if !errors.Is(err, ErrNotFound) || errors.Is(err, ErrStorage) {
		t.Fatalf("expected not-found to pass through untouched, got %v", err)
	}
}

func TestArtworkDraftValidate(t *testing.T) {
	err := ArtworkDraft{Price: "Rs. 1000"}.Validate()
	if !errors.Is(err, ErrValidation) || !strings.Contains(err.Error(), "title") {
		t.Fatalf("expected missing title, got %v", err)
	}
	if err := (ArtworkDraft{Title: "Sunset", Price: "Rs. 1000"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestArtworkPatchNormalize(t *testing.T) {
	blank, title := "  ", "Dawn"
	p := ArtworkPatch{Title: &title, Price: &blank}.Normalize()
	if p.Price != nil {
		t.Error("blank price should be dropped")
	}
	if p.Title == nil || *p.Title != "Dawn" {
		t.Error("title should survive normalization")
	}
	if (ArtworkPatch{}).IsEmpty() != true {
		t.Error("zero patch must be empty")
	}
}

func TestPageClamp(t *testing.T) {
	p := Page{Page: 0, Limit: 500}.Clamp()
	if p.Page != 1 || p.Limit != MaxPageSize {
		t.Fatalf("unexpected clamp: %+v", p)
	}
	if got := (Page{Page: 3, Limit: 10}).Skip(); got != 20 {
		t.Fatalf("skip = %d, want 20", got)
	}
}
