package domain

import "testing"

func TestRef(t *testing.T) {
	tests := []struct {
		name      string
		kind      PileKind
		index     int
		want      PileRef
		wantValid bool
	}{
		{name: "WasteIndexDropped", kind: PileWaste, index: 1, want: Waste(), wantValid: true},
		{name: "StockIndexDropped", kind: PileStock, index: -3, want: Stock(), wantValid: true},
		{name: "FoundationKept", kind: PileFoundation, index: 3, want: Foundation(3), wantValid: true},
		{name: "TableauOutOfRange", kind: PileTableau, index: 7, want: Tableau(7), wantValid: false},
		{name: "UnknownKind", kind: "hand", index: 0, want: PileRef{Kind: "hand"}, wantValid: false},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			got := Ref(test.kind, test.index)
			if got != test.want {
				t.Fatalf("Ref(%q, %d) = %+v, want %+v", test.kind, test.index, got, test.want)
			}
			if got.Valid() != test.wantValid {
				t.Fatalf("Ref(%q, %d).Valid() = %t, want %t", test.kind, test.index, got.Valid(), test.wantValid)
			}
		})
	}
}
