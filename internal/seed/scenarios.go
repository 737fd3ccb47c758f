package seed

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"
)

//go:embed scenarios/*.yaml
var scenarioFS embed.FS

const scenarioExt = ".yaml"

// ListScenarios returns the names of the built-in fixtures.
func ListScenarios() ([]string, error) {
	paths, err := fs.Glob(scenarioFS, "scenarios/*"+scenarioExt)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		names = append(names, strings.TrimSuffix(path.Base(p), scenarioExt))
	}
	slices.Sort(names)
	return names, nil
}

// LoadScenario reads a built-in fixture by name.
func LoadScenario(name string) (Fixture, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return Fixture{}, fmt.Errorf("invalid scenario name %q", name)
	}
	data, err := scenarioFS.ReadFile("scenarios/" + name + scenarioExt)
	if err != nil {
		return Fixture{}, fmt.Errorf("read scenario %q: %w", name, err)
	}
	fixture, err := Parse(data)
	if err != nil {
		return Fixture{}, fmt.Errorf("scenario %q: %w", name, err)
	}
	if fixture.Name == "" {
		fixture.Name = name
	}
	return fixture, nil
}

// LoadFile reads a fixture from disk.
func LoadFile(filePath string) (Fixture, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	fixture, err := Parse(data)
	if err != nil {
		return Fixture{}, fmt.Errorf("%s: %w", filePath, err)
	}
	if fixture.Name == "" {
		fixture.Name = strings.TrimSuffix(path.Base(filePath), path.Ext(filePath))
	}
	return fixture, nil
}
