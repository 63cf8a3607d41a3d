package output

import "testing"

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"plain text untouched",
			"  Operate heavy equipment on winter roads.  ",
			"Operate heavy equipment on winter roads.",
		},
		{
			"paragraphs become lines",
			"<p>First paragraph.</p><p>Second   paragraph.</p>",
			"First paragraph.\nSecond paragraph.",
		},
		{
			"list items get dashes",
			"<p>Requirements:</p><ul><li>Class AZ licence</li><li>WHMIS</li></ul>",
			"Requirements:\n- Class AZ licence\n- WHMIS",
		},
		{
			"inline markup collapsed",
			"<p>Must hold a <strong>valid</strong> licence.</p>",
			"Must hold a valid licence.",
		},
		{
			"empty string",
			"",
			"",
		},
		{
			"markup without block elements",
			"<b>Urgent</b> start",
			"Urgent start",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTMLToText(tt.in); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
