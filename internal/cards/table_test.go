package cards

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()

	if table.Len() != 52 {
		t.Errorf("Len() = %d, want 52", table.Len())
	}

	result := table.Validate()
	if !result.Valid() {
		t.Errorf("Validate() errors = %v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Validate() warnings = %v", result.Warnings)
	}
}

func TestTable_Decode(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name    string
		frame   string
		wantID  string
		want    CardState
		wantErr error
	}{
		{
			name:   "12-char identifier in 14-byte frame",
			frame:  "4628F22E1791\r\n",
			wantID: "4628F22E1791",
			want:   CardState{SuitHearts, RankFive},
		},
		{
			name:   "13-char identifier in 15-byte frame",
			frame:  "4E42BF22E1790\r\n",
			wantID: "4E42BF22E1790",
			want:   CardState{SuitClubs, RankAce},
		},
		{
			name:   "trailer bytes are not validated",
			frame:  "4B1EF22E1790xx",
			wantID: "4B1EF22E1790",
			want:   CardState{SuitHearts, RankKing},
		},
		{
			name:    "unknown identifier",
			frame:   "000000000000\r\n",
			wantID:  "000000000000",
			want:    Unknown,
			wantErr: ErrUnknownIdentifier,
		},
		{
			name:    "frame with only trailer",
			frame:   "\r\n",
			want:    Unknown,
			wantErr: ErrFrameTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.Decode([]byte(tt.frame))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Decode() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}

			if got.Identifier != tt.wantID {
				t.Errorf("Identifier = %q, want %q", got.Identifier, tt.wantID)
			}
			if got.State != tt.want {
				t.Errorf("State = %+v, want %+v", got.State, tt.want)
			}
		})
	}
}

func TestTable_DecodeUnknownCode(t *testing.T) {
	table := NewTable(map[string]string{"ABCDEF012345": "4Z"})

	got, err := table.Decode([]byte("ABCDEF012345\r\n"))
	if !errors.Is(err, ErrUnknownCode) {
		t.Fatalf("Decode() error = %v, want ErrUnknownCode", err)
	}
	if got.Code != "4Z" {
		t.Errorf("Code = %q, want %q", got.Code, "4Z")
	}
	if got.State.Suit != SuitHearts || got.State.Rank != RankUnknown {
		t.Errorf("State = %+v, want HEARTS/UNKNOWN", got.State)
	}
	if got.State.Known() {
		t.Error("State.Known() = true for unknown rank")
	}
}

func TestTable_WithOverrides(t *testing.T) {
	base := DefaultTable()

	t.Run("adds and replaces entries", func(t *testing.T) {
		table, err := base.WithOverrides(map[string]string{
			" 4abcdef012345 ": "2d",
			"4628F22E1791":    "11",
		})
		if err != nil {
			t.Fatalf("WithOverrides() error = %v", err)
		}

		if code, ok := table.Lookup("4ABCDEF012345"); !ok || code != "2D" {
			t.Errorf("Lookup(new) = %q, %v; want 2D, true", code, ok)
		}
		if code, _ := table.Lookup("4628F22E1791"); code != "11" {
			t.Errorf("Lookup(replaced) = %q, want 11", code)
		}
		if table.Len() != 53 {
			t.Errorf("Len() = %d, want 53", table.Len())
		}
	})

	t.Run("does not modify the base table", func(t *testing.T) {
		if _, err := base.WithOverrides(map[string]string{"4628F22E1791": "11"}); err != nil {
			t.Fatalf("WithOverrides() error = %v", err)
		}
		if code, _ := base.Lookup("4628F22E1791"); code != "45" {
			t.Errorf("base Lookup() = %q, want 45", code)
		}
	})

	t.Run("rejects codes that do not decode", func(t *testing.T) {
		_, err := base.WithOverrides(map[string]string{"4ABCDEF012345": "5X"})
		if err == nil {
			t.Fatal("WithOverrides() expected error for bad code")
		}
		if !strings.Contains(err.Error(), "4ABCDEF012345") {
			t.Errorf("error %q does not name the identifier", err)
		}
	})

	t.Run("rejects empty identifier", func(t *testing.T) {
		if _, err := base.WithOverrides(map[string]string{"  ": "11"}); err == nil {
			t.Fatal("WithOverrides() expected error for empty identifier")
		}
	})
}

func TestTable_Validate(t *testing.T) {
	t.Run("duplicate card is a warning", func(t *testing.T) {
		table, err := DefaultTable().WithOverrides(map[string]string{"4ABCDEF012345": "45"})
		if err != nil {
			t.Fatalf("WithOverrides() error = %v", err)
		}

		result := table.Validate()
		if !result.Valid() {
			t.Errorf("Validate() errors = %v", result.Errors)
		}
		if len(result.Warnings) != 1 {
			t.Errorf("Validate() warnings = %v, want 1", result.Warnings)
		}
	})

	t.Run("missing cards and bad codes are errors", func(t *testing.T) {
		table := NewTable(map[string]string{
			"A": "11",
			"B": "99",
		})

		result := table.Validate()
		// 51 missing cards plus one undecodable code.
		if len(result.Errors) != 52 {
			t.Errorf("Validate() errors = %d, want 52", len(result.Errors))
		}
		if !slices.Contains(result.Errors, "KING of SPADES has no tag (code 2D)") {
			t.Errorf("Validate() errors missing code hint: %v", result.Errors)
		}
	})
}

func TestTable_Identifiers(t *testing.T) {
	table := NewTable(map[string]string{"B": "11", "A": "12", "C": "13"})

	ids := table.Identifiers()
	want := []string{"A", "B", "C"}
	if strings.Join(ids, ",") != strings.Join(want, ",") {
		t.Errorf("Identifiers() = %v, want %v", ids, want)
	}
}
