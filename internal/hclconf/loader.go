package hclconf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/tensorgridgo/internal/config"
	"github.com/vk/tensorgridgo/internal/ctxlog"
	"github.com/vk/tensorgridgo/internal/fsutil"
	"github.com/vk/tensorgridgo/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot decodes all possible top-level blocks from any file, so graphs
// and settings can live in one file or be split across several.
type fileRoot struct {
	Graphs      []*schema.Graph     `hcl:"graph,block"`
	Partitioner *schema.Partitioner `hcl:"partitioner,block"`
	Backends    []*schema.Backend   `hcl:"backend,block"`
	Remain      hcl.Body            `hcl:",remain"`
}

// Load parses every .hcl file reachable from the given paths and merges the
// discovered blocks into one model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	model := &config.Model{
		Backends: make(map[string]*config.BackendDefinition),
	}

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, g := range root.Graphs {
			def, err := translateGraph(g)
			if err != nil {
				return nil, fmt.Errorf("in %s: %w", file, err)
			}
			model.Graphs = append(model.Graphs, def)
		}
		if root.Partitioner != nil {
			if model.Partitioner != nil {
				return nil, fmt.Errorf("duplicate partitioner block in %s", file)
			}
			model.Partitioner = translatePartitioner(root.Partitioner)
		}
		for _, b := range root.Backends {
			model.Backends[b.Type] = &config.BackendDefinition{
				Type:         b.Type,
				SupportedOps: b.SupportedOps,
			}
		}
	}

	logger.Debug("HCL loading complete.", "graphs", len(model.Graphs), "backends", len(model.Backends))
	return model, nil
}

// findAllHCLFiles expands the given paths into a deduplicated flat list of
// .hcl files.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(file string) {
		if _, dup := seen[file]; !dup {
			allFiles = append(allFiles, file)
			seen[file] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue // A configured path that doesn't exist is not an error.
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if info.IsDir() {
			found, err := fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, err
			}
			for _, f := range found {
				add(f)
			}
		} else if filepath.Ext(path) == ".hcl" {
			add(path)
		}
	}
	return allFiles, nil
}
