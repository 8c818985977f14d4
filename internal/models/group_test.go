package models

import (
	"encoding/json"
	"testing"
)

func TestGroupUnmarshal_SimplifyDebtsDefault(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"absent", `{"id": "g1", "name": "Trip"}`, true},
		{"on", `{"id": "g1", "name": "Trip", "simplify_debts": true}`, true},
		{"off", `{"id": "g1", "name": "Trip", "simplify_debts": false}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g Group
			if err := json.Unmarshal([]byte(tt.in), &g); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if g.Name != "Trip" || g.SimplifyDebts != tt.want {
				t.Errorf("got %+v, want SimplifyDebts %v", g, tt.want)
			}
		})
	}
}
