package parser

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantName    string
		wantAlt     string
		wantAltNil  bool
		wantSci     string
		wantDesc    string
	}{
		{
			name: "well formed response",
			input: "Common Name: Pothos\n" +
				"Alternative Name: Devil's Ivy\n" +
				"Scientific Name: Epipremnum aureum\n" +
				"Description: A trailing vine.",
			wantName: "Pothos",
			wantAlt:  "Devil's Ivy",
			wantSci:  "Epipremnum aureum",
			wantDesc: "A trailing vine.",
		},
		{
			name: "none sentinel stores absent alternative name",
			input: "Common Name: Pothos\n" +
				"Alternative Name: None\n" +
				"Scientific Name: Epipremnum aureum\n" +
				"Description: A trailing vine.",
			wantName:   "Pothos",
			wantAltNil: true,
			wantSci:    "Epipremnum aureum",
			wantDesc:   "A trailing vine.",
		},
		{
			name: "value containing colons is preserved whole",
			input: "Common Name: Snake Plant\n" +
				"Alternative Name: None\n" +
				"Scientific Name: Dracaena trifasciata\n" +
				"Description: Grows to 2: heights vary",
			wantName:   "Snake Plant",
			wantAltNil: true,
			wantSci:    "Dracaena trifasciata",
			wantDesc:   "Grows to 2: heights vary",
		},
		{
			name: "duplicate labels last write wins",
			input: "Common Name: A\n" +
				"Common Name: B\n" +
				"Alternative Name: None\n" +
				"Scientific Name: X\n" +
				"Description: Y",
			wantName:   "B",
			wantAltNil: true,
			wantSci:    "X",
			wantDesc:   "Y",
		},
		{
			name: "unrecognized labels and chatter are ignored",
			input: "Sure! Here is the identification.\n" +
				"\n" +
				"Common Name: Monstera\n" +
				"Family: Araceae\n" +
				"Alternative Name: Swiss Cheese Plant\n" +
				"Scientific Name: Monstera deliciosa\n" +
				"Description: Large split leaves.\n" +
				"Hope that helps!",
			wantName: "Monstera",
			wantAlt:  "Swiss Cheese Plant",
			wantSci:  "Monstera deliciosa",
			wantDesc: "Large split leaves.",
		},
		{
			name: "labels and values are trimmed",
			input: "  Common Name  :   Aloe Vera  \n" +
				"Alternative Name: None\n" +
				"Scientific Name:Aloe barbadensis miller\n" +
				"Description:  Succulent with fleshy leaves.  ",
			wantName:   "Aloe Vera",
			wantAltNil: true,
			wantSci:    "Aloe barbadensis miller",
			wantDesc:   "Succulent with fleshy leaves.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			if record.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", record.Name, tt.wantName)
			}
			if record.ScientificName != tt.wantSci {
				t.Errorf("ScientificName = %q, want %q", record.ScientificName, tt.wantSci)
			}
			if record.Description != tt.wantDesc {
				t.Errorf("Description = %q, want %q", record.Description, tt.wantDesc)
			}

			if tt.wantAltNil {
				if record.AlternativeName != nil {
					t.Errorf("AlternativeName = %q, want absent", *record.AlternativeName)
				}
			} else {
				if record.AlternativeName == nil {
					t.Fatalf("AlternativeName absent, want %q", tt.wantAlt)
				}
				if *record.AlternativeName != tt.wantAlt {
					t.Errorf("AlternativeName = %q, want %q", *record.AlternativeName, tt.wantAlt)
				}
			}
		})
	}
}

func TestParseMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantMissing []string
	}{
		{
			name:        "empty response",
			input:       "",
			wantMissing: []string{"Common Name", "Scientific Name", "Description"},
		},
		{
			name: "missing description",
			input: "Common Name: Pothos\n" +
				"Scientific Name: Epipremnum aureum",
			wantMissing: []string{"Description"},
		},
		{
			name:        "no colons at all",
			input:       "I could not identify the plant in this image",
			wantMissing: []string{"Common Name", "Scientific Name", "Description"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatal("Parse() expected error, got nil")
			}

			var malformed *MalformedResponseError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected *MalformedResponseError, got %T", err)
			}

			if len(malformed.Missing) != len(tt.wantMissing) {
				t.Fatalf("Missing = %v, want %v", malformed.Missing, tt.wantMissing)
			}
			for i, label := range tt.wantMissing {
				if malformed.Missing[i] != label {
					t.Errorf("Missing[%d] = %q, want %q", i, malformed.Missing[i], label)
				}
			}
		})
	}
}

func TestParseLenient(t *testing.T) {
	record := ParseLenient("Common Name: Pothos")

	if record.Name != "Pothos" {
		t.Errorf("Name = %q, want %q", record.Name, "Pothos")
	}
	if record.ScientificName != "" {
		t.Errorf("ScientificName = %q, want empty", record.ScientificName)
	}
	if record.Description != "" {
		t.Errorf("Description = %q, want empty", record.Description)
	}
	if record.AlternativeName != nil {
		t.Errorf("AlternativeName = %q, want absent", *record.AlternativeName)
	}
}

func TestParseEmptyValueIsPresentButEmpty(t *testing.T) {
	// A present-but-blank label still counts as assigned; only a label
	// that never appears is reported missing.
	record, err := Parse("Common Name: Fern\n" +
		"Alternative Name: Ladder Fern\n" +
		"Scientific Name: Nephrolepis exaltata\n" +
		"Description:")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if record.Description != "" {
		t.Errorf("Description = %q, want empty string", record.Description)
	}
}
