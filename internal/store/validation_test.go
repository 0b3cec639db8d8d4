package store

import (
	"errors"
	"strings"
	"testing"

	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/community"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"c0001", false},
		{"run-3f2a.c0001", false},
		{"550e8400-e29b-41d4-a716-446655440000", false},
		{"", true},
		{".hidden", true},
		{"a/b", true},
		{"../x", true},
		{"has space", true},
		{strings.Repeat("a", 129), true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := ValidateID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidID) {
				t.Errorf("ValidateID(%q) error = %v, want ErrInvalidID", tt.id, err)
			}
		})
	}
}

func TestValidateRecord(t *testing.T) {
	p := community.DefaultParams()
	tests := []struct {
		name    string
		rec     *Record
		wantErr bool
	}{
		{"nil", nil, true},
		{"valid", &Record{ID: "ok", Params: p, Edges: map[int][]int{0: {1, 2}}}, false},
		{"no edges", &Record{ID: "ok", Params: p}, false},
		{"zero nodes", &Record{ID: "ok", Params: community.Params{}}, true},
		{"source out of range", &Record{ID: "ok", Params: p, Edges: map[int][]int{100: {1}}}, true},
		{"target out of range", &Record{ID: "ok", Params: p, Edges: map[int][]int{0: {-1}}}, true},
		{"self loop", &Record{ID: "ok", Params: p, Edges: map[int][]int{4: {4}}}, true},
		{"duplicate", &Record{ID: "ok", Params: p, Edges: map[int][]int{0: {1, 1}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecord(tt.rec)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRecord() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
