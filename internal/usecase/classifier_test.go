package usecase

import "testing"

func TestClassifyOptionValues(t *testing.T) {
	testCases := []struct {
		name   string
		values []string
		want   OptionKind
	}{
		{
			name:   "majority mm values classify thickness",
			values: []string{"5mm", "8mm", "Default Title"},
			want:   KindThickness,
		},
		{
			name:   "all thickness",
			values: []string{"4mm", "6mm"},
			want:   KindThickness,
		},
		{
			name: "majority is over all values, not matching values",
			// 1 of 3 matches: below the 50% threshold even though 100%
			// of matching values agree.
			values: []string{"5mm", "Purple", "Ocean"},
			want:   KindColor,
		},
		{
			name:   "pair values classify dimensions",
			values: []string{"183cm x 61cm", "200cm x 66cm"},
			want:   KindDimensions,
		},
		{
			name:   "diameter keywords with digits",
			values: []string{"60cm diameter", "70cm diameter"},
			want:   KindDiameter,
		},
		{
			name:   "length keywords with digits",
			values: []string{`Standard 71"`, `Long 79"`, "Extended 85in"},
			want:   KindLength,
		},
		{
			name:   "color names default",
			values: []string{"Ocean Blue", "Deep Purple", "Black"},
			want:   KindColor,
		},
		{
			name:   "empty set is unknown",
			values: nil,
			want:   KindUnknown,
		},
		{
			name:   "exactly half carries the vote",
			values: []string{"5mm", "Purple"},
			want:   KindThickness,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyOptionValues(tc.values); got != tc.want {
				t.Errorf("ClassifyOptionValues(%v) = %v, want %v", tc.values, got, tc.want)
			}
		})
	}
}

func TestIsColorOptionName(t *testing.T) {
	testCases := []struct {
		name string
		want bool
	}{
		{"Color", true},
		{"colour", true},
		{"Color/Pattern", true},
		{"Mat Color", true},
		{"Yoga Towel Colour", true},
		{"Sock Colors", true},
		{"Size", false},
		{"Thickness", false},
		{"Colorado Edition", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsColorOptionName(tc.name); got != tc.want {
				t.Errorf("IsColorOptionName(%q) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}

func TestOptionNameSuggestsDimensions(t *testing.T) {
	for name, want := range map[string]bool{
		"Size":          true,
		"Dimensions":    true,
		"Thickness":     true,
		"Diameter":      true,
		"Select Length": true,
		"Width":         true,
		"Round":         true,
		"Color":         false,
		"Material":      false,
	} {
		if got := OptionNameSuggestsDimensions(name); got != want {
			t.Errorf("OptionNameSuggestsDimensions(%q) = %v, want %v", name, got, want)
		}
	}
}
