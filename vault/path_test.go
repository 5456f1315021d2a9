package vault

import "testing"

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"/", "", false},
		{".", "", false},
		{"a/b", "a/b", false},
		{"/a/b/", "a/b", false},
		{`a\b`, "a/b", false},
		{"a//b", "a/b", false},
		{"a/./b", "a/b", false},
		{"a/../b", "b", false},
		{"..", "", true},
		{"../x", "", true},
		{"a/../../b", "", true},
	}

	for _, c := range cases {
		got, err := NormalizePath(c.in)
		if c.wantErr {
			if err != ErrInvalidPath {
				t.Errorf("NormalizePath(%q): expected ErrInvalidPath, got %v", c.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizePath(%q): unexpected error %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValidName(t *testing.T) {
	valid := []string{"file.txt", "2024-AC-XY", "a b"}
	for _, name := range valid {
		if !ValidName(name) {
			t.Errorf("ValidName(%q) should be true", name)
		}
	}

	invalid := []string{"", ".", "..", "a/b", `a\b`}
	for _, name := range invalid {
		if ValidName(name) {
			t.Errorf("ValidName(%q) should be false", name)
		}
	}
}

func TestClassifyPath(t *testing.T) {
	year, company, assembly := classifyPath("2024-AC-XY/2D-Drawing")
	if year != "2024" || company != "AC" || assembly != "XY" {
		t.Errorf("unexpected classification %q %q %q", year, company, assembly)
	}

	// Extra dashes belong to the assembly part.
	_, _, assembly = classifyPath("2024-AC-XY-V2")
	if assembly != "XY-V2" {
		t.Errorf("expected assembly XY-V2, got %q", assembly)
	}

	for _, p := range []string{"", "plain", "a-b", "-AC-XY"} {
		year, company, assembly := classifyPath(p)
		if year != "" || company != "" || assembly != "" {
			t.Errorf("classifyPath(%q) should yield empty fields, got %q %q %q", p, year, company, assembly)
		}
	}
}
