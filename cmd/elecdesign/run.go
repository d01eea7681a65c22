package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"elecdesign/internal/models"
	"elecdesign/internal/norms"
	"elecdesign/internal/services"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type calcOptions struct {
	normsPath string
	outPath   string
	ruleSet   string
	verbose   bool
}

// loadProject reads a pipeline request from a YAML project file.
func loadProject(path string) (*models.PipelineRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project: %w", err)
	}
	var req models.PipelineRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parsing project %s: %w", path, err)
	}
	return &req, nil
}

func runCalc(ctx context.Context, projectPath string, opts calcOptions, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logr := zap.NewNop()
	if opts.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer func() { _ = l.Sync() }()
		logr = l
	}

	req, err := loadProject(projectPath)
	if err != nil {
		return err
	}

	normsSvc, err := services.NewStaticNormsService(opts.normsPath, opts.ruleSet, logr, nil)
	if err != nil {
		return fmt.Errorf("loading norms: %w", err)
	}
	design := services.NewDesignService(normsSvc, logr, nil)

	resp, err := design.RunPipeline(ctx, req)
	if err != nil {
		return err
	}

	out := stdout
	if opts.outPath != "" {
		f, err := os.Create(opts.outPath)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func runTables(normsPath string, stdout io.Writer) error {
	params, tables := norms.DefaultParams(), norms.DefaultTables()
	if normsPath != "" {
		var err error
		params, tables, err = norms.LoadFile(normsPath)
		if err != nil {
			return err
		}
	}

	data, err := norms.Marshal(params, tables)
	if err != nil {
		return err
	}
	_, err = stdout.Write(data)
	return err
}
