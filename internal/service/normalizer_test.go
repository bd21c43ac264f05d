package service

import "testing"

func TestNormalizeTruth_RecognizesSynonyms(t *testing.T) {
	cases := []struct {
		in   string
		want Truth
	}{
		{"Vrai", TruthTrue},
		{"vrai", TruthTrue},
		{"  TRUE  ", TruthTrue},
		{"a", TruthTrue},
		{"Faux", TruthFalse},
		{"false", TruthFalse},
		{"B", TruthFalse},
		{"", TruthUnrecognized},
		{"banana", TruthUnrecognized},
		{"oui", TruthUnrecognized},
		{"vrai ou faux", TruthUnrecognized},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := NormalizeTruth(tc.in); got != tc.want {
				t.Fatalf("NormalizeTruth(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestTruthLabel_CollapsesUnrecognizedToFalse(t *testing.T) {
	if got := TruthLabel(TruthTrue); got != "Vrai" {
		t.Fatalf("TruthLabel(TruthTrue) = %q", got)
	}
	if got := TruthLabel(TruthFalse); got != "Faux" {
		t.Fatalf("TruthLabel(TruthFalse) = %q", got)
	}
	if got := TruthLabel(TruthUnrecognized); got != "Faux" {
		t.Fatalf("TruthLabel(TruthUnrecognized) = %q", got)
	}
}

func TestParseOptionIndex_BoundsChecked(t *testing.T) {
	if idx, ok := ParseOptionIndex("2", 4); !ok || idx != 2 {
		t.Fatalf("ParseOptionIndex(2, 4) = %d, %v", idx, ok)
	}
	if idx, ok := ParseOptionIndex(" 0 ", 2); !ok || idx != 0 {
		t.Fatalf("ParseOptionIndex(0, 2) = %d, %v", idx, ok)
	}
	for _, in := range []string{"4", "-1", "banana", "", "1.5"} {
		if _, ok := ParseOptionIndex(in, 4); ok {
			t.Fatalf("ParseOptionIndex(%q, 4) unexpectedly ok", in)
		}
	}
}
