package modelregistry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"

	"govintel/internal/modelregistry/booster"
	"govintel/pkg/platform/sentinel"
)

// Domain names a model family and its artifact directory.
type Domain string

const (
	DemandForecasting Domain = "demand_forecasting"
	CrisisPrediction  Domain = "crisis_prediction"
)

// Domains lists every model family served.
var Domains = []Domain{DemandForecasting, CrisisPrediction}

// categoricalFields lists the encoders each domain's feature encoder reads.
// An artifact set missing one cannot serve any request.
var categoricalFields = map[Domain][]string{
	DemandForecasting: {"district", "service_type"},
	CrisisPrediction:  {"district"},
}

const (
	manifestFile = "manifest.yaml"
	modelFile    = "model.json"
	encodersFile = "encoders.json"
	featuresFile = "features.json"
)

// Manifest describes a trained artifact set. It is optional; absent fields
// fall back to empty values.
type Manifest struct {
	Version     string `yaml:"version"`
	ModelType   string `yaml:"model_type"`
	Performance string `yaml:"performance"`
	Objective   string `yaml:"objective"`
	TrainedAt   string `yaml:"trained_at"`
}

// ArtifactSet is everything needed to serve one domain. Immutable after load.
type ArtifactSet struct {
	Domain   Domain
	Manifest Manifest
	Model    *booster.Booster
	columns  []string
	codes    map[string]map[string]int
}

// Columns returns a copy of the training-time feature order.
func (a *ArtifactSet) Columns() []string {
	return append([]string(nil), a.columns...)
}

// CategoryCode maps value to its training-time code for field.
func (a *ArtifactSet) CategoryCode(field, value string) (int, error) {
	vocab, ok := a.codes[field]
	if !ok {
		return 0, &UnknownCategoryError{Domain: a.Domain, Field: field, Value: value}
	}
	code, ok := vocab[value]
	if !ok {
		return 0, &UnknownCategoryError{Domain: a.Domain, Field: field, Value: value}
	}
	return code, nil
}

// LoadArtifactSet reads and validates the artifacts under fsys/<domain>.
func LoadArtifactSet(fsys fs.FS, domain Domain) (*ArtifactSet, error) {
	dir := string(domain)
	set := &ArtifactSet{Domain: domain}

	if raw, err := fs.ReadFile(fsys, path.Join(dir, manifestFile)); err == nil {
		if err := yaml.Unmarshal(raw, &set.Manifest); err != nil {
			return nil, fmt.Errorf("parse %s: %w", manifestFile, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", manifestFile, err)
	}

	var columns []string
	if err := readJSON(fsys, path.Join(dir, featuresFile), &columns); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%s: feature list is empty", featuresFile)
	}
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if seen[c] {
			return nil, fmt.Errorf("%s: duplicate column %q", featuresFile, c)
		}
		seen[c] = true
	}
	set.columns = columns

	var classes map[string][]string
	if err := readJSON(fsys, path.Join(dir, encodersFile), &classes); err != nil {
		return nil, err
	}
	set.codes = make(map[string]map[string]int, len(classes))
	for field, values := range classes {
		vocab := make(map[string]int, len(values))
		for i, v := range values {
			if _, dup := vocab[v]; dup {
				return nil, fmt.Errorf("%s: duplicate class %q for %s", encodersFile, v, field)
			}
			vocab[v] = i
		}
		set.codes[field] = vocab
	}
	for _, field := range categoricalFields[domain] {
		if len(set.codes[field]) == 0 {
			return nil, fmt.Errorf("%s: no classes for required field %q", encodersFile, field)
		}
	}

	raw, err := fs.ReadFile(fsys, path.Join(dir, modelFile))
	if err != nil {
		return nil, artifactReadError(modelFile, err)
	}
	model, err := booster.Parse(raw, columns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", modelFile, err)
	}
	if set.Manifest.Objective != "" && booster.Objective(set.Manifest.Objective) != model.Objective() {
		return nil, fmt.Errorf("manifest objective %q does not match model objective %q",
			set.Manifest.Objective, model.Objective())
	}
	set.Model = model
	return set, nil
}

func readJSON(fsys fs.FS, name string, v any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return artifactReadError(path.Base(name), err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse %s: %w", path.Base(name), err)
	}
	return nil
}

func artifactReadError(name string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", name, sentinel.ErrNotFound)
	}
	return fmt.Errorf("read %s: %w", name, err)
}
