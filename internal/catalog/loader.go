package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/p-n-ai/pai-planner/internal/lesson"
)

// record is one activity as authored in a catalog YAML file.
type record struct {
	ID          string          `yaml:"id"`
	Phase       string          `yaml:"phase"`
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	Duration    string          `yaml:"duration"`
	Subject     string          `yaml:"subject"`
	YearGroup   string          `yaml:"year_group"`
	Theme       string          `yaml:"theme"`
	Keywords    []string        `yaml:"keywords"`
	Details     *lesson.Details `yaml:"details"`
}

type file struct {
	Activities []yaml.Node `yaml:"activities"`
}

// LoadDir reads every *.yaml / *.yml file under dir. Invalid files and
// records are skipped with a warning; later duplicates of an id are dropped.
func LoadDir(dir string) ([]lesson.Activity, error) {
	var out []lesson.Activity
	seen := make(map[string]string)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
			return nil
		}

		acts, err := loadFile(path)
		if err != nil {
			return err
		}
		for _, a := range acts {
			if first, dup := seen[a.ID]; dup {
				slog.Warn("skipping duplicate activity", "id", a.ID, "path", path, "first", first)
				continue
			}
			seen[a.ID] = path
			out = append(out, a)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	slog.Info("catalog loaded", "dir", dir, "activities", len(out))
	return out, nil
}

func loadFile(path string) ([]lesson.Activity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		slog.Warn("skipping invalid catalog YAML", "path", path, "error", err)
		return nil, nil
	}

	var out []lesson.Activity
	for i := range f.Activities {
		act, err := decodeRecord(&f.Activities[i])
		if err != nil {
			slog.Warn("skipping invalid activity", "path", path, "index", i, "error", err)
			continue
		}
		out = append(out, act)
	}
	return out, nil
}

func decodeRecord(node *yaml.Node) (lesson.Activity, error) {
	var doc any
	if err := node.Decode(&doc); err != nil {
		return lesson.Activity{}, err
	}
	if err := validateRecord(doc); err != nil {
		return lesson.Activity{}, err
	}

	var r record
	if err := node.Decode(&r); err != nil {
		return lesson.Activity{}, err
	}
	return r.activity()
}

func (r record) activity() (lesson.Activity, error) {
	phase, err := lesson.ParsePhase(r.Phase)
	if err != nil {
		return lesson.Activity{}, err
	}
	minutes, err := lesson.ParseDurationMinutes(r.Duration)
	if err != nil {
		return lesson.Activity{}, err
	}
	return lesson.NewActivity(phase, lesson.Activity{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		DurationMinutes: minutes,
		Subject:         r.Subject,
		YearGroup:       r.YearGroup,
		Theme:           r.Theme,
		Keywords:        r.Keywords,
		Details:         r.Details,
	})
}
