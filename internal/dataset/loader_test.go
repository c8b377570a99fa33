package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSemicolonDelimited(t *testing.T) {
	path := writeFile(t, "students.csv",
		"G1;G2;G3;absences;famsup\n10;11;12;4;yes\n5;6;7;20;no\n")

	records, err := NewLoader(zerolog.Nop()).Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	if records[0]["G2"] != 11.0 {
		t.Errorf("G2 = %v (%T), want 11.0", records[0]["G2"], records[0]["G2"])
	}
	if records[1]["famsup"] != "no" {
		t.Errorf("famsup = %v, want \"no\"", records[1]["famsup"])
	}
}

func TestLoadCommaDelimited(t *testing.T) {
	path := writeFile(t, "students.csv",
		"G1,G2,absences\n10,11,4\n")

	records, err := NewLoader(zerolog.Nop()).Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0]["absences"] != 4.0 {
		t.Errorf("absences = %v, want 4.0", records[0]["absences"])
	}
}

func TestLoadQuotedStrings(t *testing.T) {
	path := writeFile(t, "students.csv",
		"G2;absences;famsup\n\"11\";\"4\";\"yes\"\n")

	records, err := NewLoader(zerolog.Nop()).Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0]["G2"] != 11.0 {
		t.Errorf("quoted numeric cell should coerce, got %v (%T)", records[0]["G2"], records[0]["G2"])
	}
	if records[0]["famsup"] != "yes" {
		t.Errorf("famsup = %v, want \"yes\"", records[0]["famsup"])
	}
}

func TestLoadEmptyCellsAreNil(t *testing.T) {
	path := writeFile(t, "students.csv",
		"G2;absences;G3\n11;4;\n")

	records, err := NewLoader(zerolog.Nop()).Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0]["G3"] != nil {
		t.Errorf("empty cell should load as nil, got %v", records[0]["G3"])
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader(zerolog.Nop()).Load(filepath.Join(t.TempDir(), "absent.csv"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadHeaderOnly(t *testing.T) {
	path := writeFile(t, "students.csv", "G2;absences\n")

	_, err := NewLoader(zerolog.Nop()).Load(path)
	if err == nil {
		t.Fatal("expected an error for a dataset with no rows")
	}
}
