package models

import "testing"

func TestDealIsClosed(t *testing.T) {
	tests := []struct {
		stage string
		want  bool
	}{
		{StageProspect, false},
		{StageQualified, false},
		{StageProposal, false},
		{StageNegotiation, false},
		{StageClosedWon, true},
		{StageClosedLost, true},
		{"", false},
	}
	for _, tt := range tests {
		if got := (Deal{Stage: tt.stage}).IsClosed(); got != tt.want {
			t.Fatalf("IsClosed(%q)=%v want=%v", tt.stage, got, tt.want)
		}
	}
}
