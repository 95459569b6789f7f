package sanitize

import "testing"

func TestText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"<b>bold</b> name", "bold name"},
		{"  padded  ", "padded"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;", "alert(1)"},
		{"Иван <script>alert(1)</script> Петров", "Иван alert(1) Петров"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := Text(tc.in); got != tc.want {
			t.Fatalf("Text(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
