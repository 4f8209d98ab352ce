package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

const validProfile = `{
  "name": "강현준",
  "core_info": {"persona": {"personality_rules": "무뚝뚝함", "speech_style": "반말"}},
  "image_prompt_template": {},
  "psychology": {"mental_health": "안정", "emotional_stats": {"trust": "50", "fear": 20}}
}`

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		wantErr  string
	}{
		{name: "valid profile", filename: "student_1.json", content: validProfile},
		{
			name:     "profile missing psychology",
			filename: "student_2.json",
			content:  `{"name": "x", "core_info": {"persona": {"personality_rules": "a", "speech_style": "b"}}, "image_prompt_template": {}}`,
			wantErr:  "psychology",
		},
		{
			name:     "profile value out of range",
			filename: "student_3.json",
			content:  strings.Replace(validProfile, `"fear": 20`, `"fear": 120`, 1),
			wantErr:  "outside 0-100",
		},
		{
			name:     "valid map",
			filename: "corridor_config.json",
			content:  `{"map_name": "corridor", "walkable_areas": [[10, 10, 790, 590]], "start_position": [100, 100]}`,
		},
		{
			name:     "map name mismatch",
			filename: "science_room_config.json",
			content:  `{"map_name": "lab", "walkable_areas": [], "start_position": [100, 100]}`,
			wantErr:  "does not match",
		},
		{
			name:     "map start not walkable",
			filename: "library_config.json",
			content:  `{"map_name": "library", "walkable_areas": [[10, 10, 50, 50]], "start_position": [100, 100]}`,
			wantErr:  "not walkable",
		},
		{
			name:     "map unknown field",
			filename: "library_config.json",
			content:  `{"map_name": "library", "walkable_areas": [], "start_position": [1, 1], "zoom": 2}`,
			wantErr:  "strict",
		},
		{
			name:     "map area too small",
			filename: "library_config.json",
			content:  `{"map_name": "library", "walkable_areas": [[0, 0, 5, 100]], "start_position": [1, 1]}`,
			wantErr:  "smaller than",
		},
		{
			name:     "valid world",
			filename: "world.yaml",
			content:  "start_location: 복도\nlocations:\n  - name: 복도\n    map: corridor\nroster:\n  강현준: 1\n",
		},
		{
			name:     "world maps shared",
			filename: "world.yaml",
			content:  "locations:\n  - name: 복도\n    map: corridor\n  - name: 운동장\n    map: corridor\nroster:\n  강현준: 1\n",
			wantErr:  "share map",
		},
		{name: "unrecognized name", filename: "notes.txt", content: "hi", wantErr: "unrecognized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.filename, tt.content)
			v := &Validator{}
			err := v.validateFile(path)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Expected valid file, got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateFile_Missing(t *testing.T) {
	v := &Validator{}
	if err := v.validateFile(filepath.Join(t.TempDir(), "student_1.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}
