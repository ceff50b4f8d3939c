package figure

import "testing"

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		kind ValueKind
		num  float64
		den  float64
		unit string
		text string
	}{
		{"32°", ValueNumeric, 32, 0, "°", "32°"},
		{"45 degrees", ValueNumeric, 45, 0, "°", "45°"},
		{"5 cm", ValueNumeric, 5, 0, "cm", "5 cm"},
		{"12.5", ValueNumeric, 12.5, 0, "", "12.5"},
		{"-3", ValueNumeric, -3, 0, "", "-3"},
		{"3:4", ValueRatio, 3, 4, "", "3:4"},
		{"1.5 : 2", ValueRatio, 1.5, 2, "", "1.5:2"},
		{"x", ValueSymbolic, 0, 0, "", "x"},
		{"2x+10", ValueSymbolic, 0, 0, "", "2x+10"},
		{" y° ", ValueSymbolic, 0, 0, "", "y°"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v := ParseValue(tt.in)
			if v.Kind != tt.kind || v.Num != tt.num || v.Den != tt.den || v.Unit != tt.unit {
				t.Errorf("ParseValue(%q) = %+v", tt.in, v)
			}
			if got := v.Text(); got != tt.text {
				t.Errorf("Text() = %q, want %q", got, tt.text)
			}
		})
	}
}

func TestValueFraction(t *testing.T) {
	if got := ParseValue("3:4").Fraction(); got != 3.0/7.0 {
		t.Errorf("Fraction(3:4) = %v, want 3/7", got)
	}
	if got := ParseValue("5").Fraction(); got != 0 {
		t.Errorf("Fraction of a number = %v, want 0", got)
	}
}

func TestRatioAndScale(t *testing.T) {
	if f, ok := RatioFraction("1:1"); !ok || f != 0.5 {
		t.Errorf("RatioFraction(1:1) = %v, %v", f, ok)
	}
	if _, ok := RatioFraction("1.5"); ok {
		t.Error("RatioFraction(1.5) should be rejected")
	}
	if f, ok := ScaleFactor("1:2"); !ok || f != 2 {
		t.Errorf("ScaleFactor(1:2) = %v, %v", f, ok)
	}
	if _, ok := ScaleFactor("0"); ok {
		t.Error("ScaleFactor(0) should be rejected")
	}
}

func TestNames(t *testing.T) {
	if got := NormalizeKey(" ∠ T A B "); got != "TAB" {
		t.Errorf("NormalizeKey = %q", got)
	}
	if got := NormalizeKey("angle APB"); got != "APB" {
		t.Errorf("NormalizeKey = %q", got)
	}
	if !MatchesAngle("∠BAT", "A", "T", "B") {
		t.Error("BAT should match the angle at A between T and B")
	}

	vals := NewValues("∠TAB", "32°", "AB", "5 cm")
	if v, ok := vals.LookupAngle("A", "B", "T"); !ok || v != "32°" {
		t.Errorf("LookupAngle = %q, %v", v, ok)
	}
	if v, ok := vals.Lookup("BAT"); !ok || v != "32°" {
		t.Errorf("Lookup(BAT) = %q, %v", v, ok)
	}
	if _, ok := vals.Lookup("BA"); ok {
		t.Error("two-letter names are not reversed")
	}

	parts, ok := SplitName("A1B1", []string{"A", "A1", "B", "B1"})
	if !ok || len(parts) != 2 || parts[0] != "A1" || parts[1] != "B1" {
		t.Errorf("SplitName = %v, %v", parts, ok)
	}
	if _, ok := SplitName("AZ", []string{"A", "B"}); ok {
		t.Error("SplitName should fail on unknown ids")
	}
}
