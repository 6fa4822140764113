package forms

import "testing"

type sampleForm struct {
	Title    string `json:"title" validate:"notblank,max=10"`
	Slug     string `json:"slug" validate:"slug"`
	Score    int    `json:"passingScore" validate:"min=0,max=100"`
	Internal string `json:"-" validate:"omitempty"`
}

func TestStructUsesJSONNamesAndEnglish(t *testing.T) {
	v := NewValidator()
	fe := v.Struct(sampleForm{Title: "   ", Slug: "Bad Slug", Score: 101})
	if fe == nil {
		t.Fatalf("expected errors")
	}
	if got := fe.First("title"); got != "title is required" {
		t.Fatalf("title=%q", got)
	}
	if !fe.Has("slug") {
		t.Fatalf("missing slug error: %v", fe)
	}
	if got := fe.First("passingScore"); got != "passingScore must be 100 or less" {
		t.Fatalf("passingScore=%q", got)
	}
}

func TestStructValid(t *testing.T) {
	if fe := NewValidator().Struct(sampleForm{Title: "ok", Slug: "billing-team"}); fe != nil {
		t.Fatalf("unexpected errors: %v", fe)
	}
}

func TestMergeSkipsDuplicates(t *testing.T) {
	var fe FieldErrors
	fe = fe.Merge(map[string][]string{"title": {"required"}})
	fe = fe.Merge(map[string][]string{"title": {"required", "too short"}, "slug": {"taken"}})
	if len(fe["title"]) != 2 || fe.First("slug") != "taken" {
		t.Fatalf("fe=%v", fe)
	}
	if got := fe.Fields(); len(got) != 2 || got[0] != "slug" {
		t.Fatalf("fields=%v", got)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Billing Team":      "billing-team",
		"  Tech / Support ": "tech-support",
		"A--B":              "a-b",
		"":                  "",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q)=%q want %q", in, got, want)
		}
	}
}
