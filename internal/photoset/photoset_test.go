package photoset

import (
	"slices"
	"testing"
)

func TestEncode(t *testing.T) {
	t.Run("empty is nil", func(t *testing.T) {
		if got := Encode(nil); got != nil {
			t.Errorf("expected nil, got %q", *got)
		}
		if got := Encode([]string{}); got != nil {
			t.Errorf("expected nil, got %q", *got)
		}
	})

	t.Run("single is bare uri", func(t *testing.T) {
		got := Encode([]string{"http://x/y.jpg"})
		if got == nil || *got != "http://x/y.jpg" {
			t.Errorf("expected bare uri, got %v", got)
		}
	})

	t.Run("many is json array", func(t *testing.T) {
		got := Encode([]string{"a", "b"})
		if got == nil || *got != `["a","b"]` {
			t.Errorf("expected json array, got %v", got)
		}
	})

	t.Run("ampersand not escaped", func(t *testing.T) {
		got := Encode([]string{"http://x/a.jpg?w=1&h=2", "http://x/b.jpg"})
		want := `["http://x/a.jpg?w=1&h=2","http://x/b.jpg"]`
		if got == nil || *got != want {
			t.Errorf("expected %s, got %v", want, got)
		}
	})

	t.Run("single empty string uses array form", func(t *testing.T) {
		got := Encode([]string{""})
		if got == nil || *got != `[""]` {
			t.Errorf("expected [\"\"], got %v", got)
		}
	})

	t.Run("single uri that looks like an array uses array form", func(t *testing.T) {
		got := Encode([]string{`["a","b"]`})
		want := `["[\"a\",\"b\"]"]`
		if got == nil || *got != want {
			t.Errorf("expected %s, got %v", want, got)
		}
	})

	t.Run("single uri starting with bracket that is not json stays bare", func(t *testing.T) {
		got := Encode([]string{"[draft] photo.jpg"})
		if got == nil || *got != "[draft] photo.jpg" {
			t.Errorf("expected bare value, got %v", got)
		}
	})
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		value *string
		want  []string
	}{
		{"nil", nil, []string{}},
		{"empty string", Ptr(""), []string{}},
		{"legacy uri", Ptr("http://x/y.jpg"), []string{"http://x/y.jpg"}},
		{"json array", Ptr(`["a","b","c"]`), []string{"a", "b", "c"}},
		{"json array of one", Ptr(`["a"]`), []string{"a"}},
		{"empty json array", Ptr(`[]`), []string{}},
		{"malformed json", Ptr(`["a","b"`), []string{`["a","b"`}},
		{"array of numbers", Ptr(`[1,2]`), []string{`[1,2]`}},
		{"json object", Ptr(`{"a":1}`), []string{`{"a":1}`}},
		{"json null literal", Ptr("null"), []string{"null"}},
		{"json string literal", Ptr(`"a"`), []string{`"a"`}},
		{"array with null element", Ptr(`["a",null]`), []string{`["a",null]`}},
		{"array of null", Ptr(`[null]`), []string{`[null]`}},
		{"array of empty string", Ptr(`[""]`), []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode(tt.value)
			if got == nil {
				t.Fatal("Decode must never return nil")
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Decode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	cases := [][]string{
		{},
		{"http://x/y.jpg"},
		{"a", "b"},
		{"a", "a", "b"},
		{""},
		{"", ""},
		{`["nested"]`},
		{"[not json"},
		{`["a",null]`},
		{"http://x/a.jpg?q=1&r=<2>", "file:///photos/ü.jpg", "c"},
	}

	for _, seq := range cases {
		got := Decode(Encode(seq))
		if !slices.Equal(got, seq) {
			t.Errorf("Decode(Encode(%q)) = %q", seq, got)
		}
	}
}

func TestCountAndFirst(t *testing.T) {
	if n := Count(nil); n != 0 {
		t.Errorf("Count(nil) = %d, want 0", n)
	}
	if n := Count(Ptr("u")); n != 1 {
		t.Errorf("Count(single) = %d, want 1", n)
	}
	if n := Count(Ptr(`["a","b","c"]`)); n != 3 {
		t.Errorf("Count(many) = %d, want 3", n)
	}

	if _, ok := First(nil); ok {
		t.Error("First(nil) should report no photo")
	}
	if f, ok := First(Ptr(`["a","b"]`)); !ok || f != "a" {
		t.Errorf("First(many) = %q, %v", f, ok)
	}
}

func TestAddPhotos(t *testing.T) {
	t.Run("single to many", func(t *testing.T) {
		got := Decode(AddPhotos(Encode([]string{"a"}), "b", "c"))
		if !slices.Equal(got, []string{"a", "b", "c"}) {
			t.Errorf("got %q", got)
		}
	})

	t.Run("nil to single keeps bare form", func(t *testing.T) {
		got := AddPhotos(nil, "a")
		if got == nil || *got != "a" {
			t.Errorf("expected bare 'a', got %v", got)
		}
	})

	t.Run("nothing added", func(t *testing.T) {
		if got := AddPhotos(nil); got != nil {
			t.Errorf("expected nil, got %q", *got)
		}
	})
}

func TestRemovePhoto(t *testing.T) {
	t.Run("missing uri is a no-op", func(t *testing.T) {
		value := Ptr(`["a","b"]`)
		got := RemovePhoto(value, "zzz")
		if got == nil || *got != *value {
			t.Errorf("expected %s unchanged, got %v", *value, got)
		}
	})

	t.Run("removes only first occurrence", func(t *testing.T) {
		got := Decode(RemovePhoto(Ptr(`["a","b","a"]`), "a"))
		if !slices.Equal(got, []string{"b", "a"}) {
			t.Errorf("got %q", got)
		}
	})

	t.Run("many to single collapses to bare uri", func(t *testing.T) {
		got := RemovePhoto(Ptr(`["a","b"]`), "a")
		if got == nil || *got != "b" {
			t.Errorf("expected bare 'b', got %v", got)
		}
	})

	t.Run("last photo gives nil", func(t *testing.T) {
		if got := RemovePhoto(Ptr("a"), "a"); got != nil {
			t.Errorf("expected nil, got %q", *got)
		}
	})

	t.Run("does not mutate original set", func(t *testing.T) {
		s := New("a", "b", "c")
		_ = s.Remove("b")
		if !slices.Equal(s.URIs(), []string{"a", "b", "c"}) {
			t.Errorf("original set changed: %q", s.URIs())
		}
	})
}

func TestKind(t *testing.T) {
	tests := []struct {
		set  Set
		want Kind
	}{
		{Set{}, KindEmpty},
		{New("a"), KindSingle},
		{New("a", "b"), KindMany},
		{Parse(Ptr(`["a"]`)), KindSingle},
	}
	for _, tt := range tests {
		if got := tt.set.Kind(); got != tt.want {
			t.Errorf("Kind() = %s, want %s", got, tt.want)
		}
	}
}
