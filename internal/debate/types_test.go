package debate

import "testing"

func TestParseSide(t *testing.T) {
	cases := map[string]Side{
		"PRO":         SidePro,
		"pro":         SidePro,
		" Aff ":       SidePro,
		"negative":    SideCon,
		"CON":         SideCon,
		"":            SideUnspecified,
		"both":        SideUnspecified,
		"affirmation": SideUnspecified,
	}
	for in, want := range cases {
		if got := ParseSide(in); got != want {
			t.Errorf("ParseSide(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSideLabel(t *testing.T) {
	if SidePro.Label() != "PRO" {
		t.Errorf("expected PRO, got %q", SidePro.Label())
	}
	if SideUnspecified.Label() != Unspecified {
		t.Errorf("expected placeholder, got %q", SideUnspecified.Label())
	}
}

func TestParseUploadFormat(t *testing.T) {
	cases := map[string]UploadFormat{
		"card format": CardFormat,
		"Card_Format": CardFormat,
		"card":        CardFormat,
		"plaintext":   Plaintext,
		"":            Plaintext,
		"markdown":    Plaintext,
	}
	for in, want := range cases {
		if got := ParseUploadFormat(in); got != want {
			t.Errorf("ParseUploadFormat(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTopic(t *testing.T) {
	if Topic("  ") != Unspecified {
		t.Errorf("expected placeholder for blank topic")
	}
	if Topic(" AI should be regulated ") != "AI should be regulated" {
		t.Errorf("expected trimmed topic, got %q", Topic(" AI should be regulated "))
	}
}
