// Package batch runs a YAML manifest of single-image conversion jobs,
// modeled one-for-one on imageset-packer's internal/cli build.go multi-project
// runner (internal/cli/build.go's parsePackProjects/filterProjects), but
// retargeted at this repo's single-image encode/decode jobs instead of
// atlas packing.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"

	"github.com/grit-engine/luaimg-go/internal/imageio"
)

// Job is one manifest entry: load Input, optionally apply a colour key,
// and save as Output in the format named by Format (or Output's
// extension default, if Format is empty).
type Job struct {
	Name     string `yaml:"name"`
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Format   string `yaml:"format" default:""`
	AlphaKey string `yaml:"alpha_key" default:""`
}

// Manifest is the top-level YAML document: a list of jobs, optionally
// wrapped in a "jobs" key (mirroring imageset-packer's bare-list-or-wrapped
// config tolerance in parsePackProjects).
type Manifest struct {
	Jobs []Job `yaml:"jobs"`
}

// ParseManifest parses data as either {jobs: [...]} or a bare job list.
func ParseManifest(data []byte) ([]Job, error) {
	var doc Manifest
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Jobs) > 0 {
		return doc.Jobs, nil
	}

	var list []Job
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// LoadManifest reads and parses a manifest file, applying field defaults
// and resolving relative input/output paths against the manifest's own
// directory.
func LoadManifest(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %q: %w", path, err)
	}
	jobs, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %q: %w", path, err)
	}
	baseDir := filepath.Dir(path)
	for i := range jobs {
		if err := defaults.Set(&jobs[i]); err != nil {
			return nil, fmt.Errorf("applying defaults to job %d: %w", i, err)
		}
		jobs[i].Input = resolveRelative(baseDir, jobs[i].Input)
		jobs[i].Output = resolveRelative(baseDir, jobs[i].Output)
	}
	return jobs, nil
}

func resolveRelative(baseDir, path string) string {
	if strings.TrimSpace(path) == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// RunJobs executes jobs in order, stopping at the first failing job (the
// encoder commits no partial output; see imageio.Save, which encodes in
// memory and writes through a temp file and rename). It returns
// the index of the first failing job (or -1 if all succeeded) and the
// error that stopped it.
func RunJobs(jobs []Job) (int, error) {
	for i, job := range jobs {
		if err := RunJob(job); err != nil {
			return i, fmt.Errorf("job %d (%s): %w", i, jobName(job), err)
		}
	}
	return -1, nil
}

func jobName(j Job) string {
	if j.Name != "" {
		return j.Name
	}
	return j.Input
}

// RunJob loads Input, optionally applies a colour key, and saves Output.
func RunJob(job Job) error {
	if strings.TrimSpace(job.Input) == "" {
		return fmt.Errorf("job has no input path")
	}
	if strings.TrimSpace(job.Output) == "" {
		return fmt.Errorf("job has no output path")
	}

	img, err := imageio.Load(job.Input)
	if err != nil {
		return err
	}

	if job.AlphaKey != "" {
		rgb, err := imageio.ParseHexRGB(job.AlphaKey)
		if err != nil {
			return fmt.Errorf("invalid alpha_key: %w", err)
		}
		img = imageio.ApplyColorKey(img, rgb)
	}

	return imageio.Save(job.Output, img, job.Format)
}

// RunManifest loads and runs every job in a manifest file.
func RunManifest(path string) error {
	jobs, err := LoadManifest(path)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no jobs found in %q", path)
	}
	if _, err := RunJobs(jobs); err != nil {
		return err
	}
	return nil
}
