package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// File is the on-disk layout of a dataset file:
//
//	datasets:
//	  - compound: cyclohexane
//	    trial: run-1
//	    temperature_scale: celsius
//	    pressure_unit: mbar
//	    measurements:
//	      - {temperature: 20.0, pressure: -907.1}
//	      - {temperature: 30.0, pressure: -849.6}
type File struct {
	Datasets []Dataset `yaml:"datasets"`
}

// LoadFile reads and parses a dataset YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or holds an invalid dataset.
func LoadFile(path string) ([]Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}
	datasets, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return datasets, nil
}

// Decode parses datasets from YAML, rejecting unknown fields, and resolves
// per-dataset scale/unit defaults into each measurement.
func Decode(r io.Reader) ([]Dataset, error) {
	var f File
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty dataset file")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(f.Datasets) == 0 {
		return nil, errors.New("no datasets defined")
	}

	out := make([]Dataset, 0, len(f.Datasets))
	for i, d := range f.Datasets {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("datasets[%d] (%s): %w", i, d.Compound, err)
		}
		nd, err := d.Normalize()
		if err != nil {
			return nil, fmt.Errorf("datasets[%d] (%s): %w", i, d.Compound, err)
		}
		out = append(out, nd)
	}
	return out, nil
}

// Encode writes datasets as a dataset YAML file.
func Encode(w io.Writer, datasets []Dataset) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(File{Datasets: datasets}); err != nil {
		return fmt.Errorf("failed to encode datasets: %w", err)
	}
	return enc.Close()
}

// FindFiles returns the .yaml/.yml files under dir in sorted order.
func FindFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ext := filepath.Ext(path); !info.IsDir() && (ext == ".yaml" || ext == ".yml") {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// LoadPaths loads every dataset from the given files or directories, in
// argument order.
func LoadPaths(paths []string) ([]Dataset, error) {
	var all []Dataset
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("dataset path: %w", err)
		}
		files := []string{p}
		if info.IsDir() {
			if files, err = FindFiles(p); err != nil {
				return nil, fmt.Errorf("scanning %s: %w", p, err)
			}
			if len(files) == 0 {
				return nil, fmt.Errorf("no dataset files found in %s", p)
			}
		}
		for _, f := range files {
			ds, err := LoadFile(f)
			if err != nil {
				return nil, err
			}
			all = append(all, ds...)
		}
	}
	return all, nil
}
