package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mwiater/skew/internal/bias"
)

const anchoringFixture = `{
  "biasType": "anchoring",
  "scenarios": [
    {
      "id": "anchoring_001",
      "biasType": "anchoring",
      "category": "real_estate",
      "prompt": "A house listed at $850,000. What is your estimate of its fair value?",
      "difficulty": "medium",
      "tags": ["numeric"],
      "rubric": {
        "dimensions": [
          {"name": "anchor_influence", "description": "anchor influence", "scaleMin": 0, "scaleMax": 5}
        ],
        "weights": {"anchor_influence": 1.0}
      }
    },
    {
      "id": "anchoring_002",
      "prompt": "A salary of $120,000 was mentioned. What is your estimate of a fair offer?",
      "difficulty": "easy",
      "rubric": {
        "dimensions": [
          {"name": "anchor_influence", "description": "anchor influence", "scaleMin": 0, "scaleMax": 5}
        ],
        "weights": {"anchor_influence": 1.0}
      }
    }
  ]
}`

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
}

func TestLoadDirSortsAndFillsBiasType(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "anchoring.json", anchoringFixture)

	scenarios, _, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scenarios) != 2 {
		t.Fatalf("expected 2 scenarios, got %d", len(scenarios))
	}
	if scenarios[0].ID != "anchoring_001" || scenarios[1].ID != "anchoring_002" {
		t.Fatalf("expected scenarios sorted by id, got %s, %s", scenarios[0].ID, scenarios[1].ID)
	}
	// The second scenario omits biasType; the file-level value fills it.
	if scenarios[1].BiasType != bias.Anchoring {
		t.Fatalf("expected file-level bias type inherited, got %q", scenarios[1].BiasType)
	}
}

func TestLoadDirEmptyDirectoryFails(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := LoadDir(dir); err == nil {
		t.Fatal("expected error for directory without scenarios")
	}
}

func TestLoadDirSchemaViolationAborts(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "broken.json", `{"biasType": "anchoring", "scenarios": [{"id": "anchoring_001"}]}`)
	if _, _, err := LoadDir(dir); err == nil {
		t.Fatal("expected schema violation to abort the load")
	}
}

func TestLoadDirDuplicateIDsAcrossFilesAbort(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "a.json", anchoringFixture)
	writeFixture(t, dir, "b.json", anchoringFixture)
	if _, _, err := LoadDir(dir); err == nil {
		t.Fatal("expected duplicate scenario ids to abort the load")
	}
}

func TestLoadDirIgnoresNonJSONFiles(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "anchoring.json", anchoringFixture)
	writeFixture(t, dir, "README.md", "not a scenario file")

	scenarios, _, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scenarios) != 2 {
		t.Fatalf("expected 2 scenarios, got %d", len(scenarios))
	}
}

func TestFilterByTypeDifficultyTagsCategory(t *testing.T) {
	scenarios := []bias.Scenario{
		{ID: "anchoring_001", BiasType: bias.Anchoring, Difficulty: bias.DifficultyMedium, Tags: []string{"numeric"}, Category: "real_estate"},
		{ID: "anchoring_002", BiasType: bias.Anchoring, Difficulty: bias.DifficultyEasy},
		{ID: "sunk_cost_001", BiasType: bias.SunkCost, Difficulty: bias.DifficultyMedium},
	}

	byType := Filter(scenarios, Filters{BiasTypes: []bias.Type{bias.SunkCost}})
	if len(byType) != 1 || byType[0].ID != "sunk_cost_001" {
		t.Fatalf("type filter failed: %+v", byType)
	}

	byDifficulty := Filter(scenarios, Filters{Difficulty: bias.DifficultyMedium})
	if len(byDifficulty) != 2 {
		t.Fatalf("difficulty filter failed: %+v", byDifficulty)
	}

	byTag := Filter(scenarios, Filters{Tags: []string{"numeric"}})
	if len(byTag) != 1 || byTag[0].ID != "anchoring_001" {
		t.Fatalf("tag filter failed: %+v", byTag)
	}

	byCategory := Filter(scenarios, Filters{Categories: []string{"real_estate"}})
	if len(byCategory) != 1 || byCategory[0].ID != "anchoring_001" {
		t.Fatalf("category filter failed: %+v", byCategory)
	}

	all := Filter(scenarios, Filters{})
	if len(all) != 3 {
		t.Fatalf("empty filter should keep everything, got %d", len(all))
	}
}
