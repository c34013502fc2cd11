// Command millpath generates a machining program from a YAML project
// document: validate, expand, filter, generate, and write the output
// bundle plus an SVG preview.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spindleworks/millpath/pkg/bundle"
	"github.com/spindleworks/millpath/pkg/gcode"
	"github.com/spindleworks/millpath/pkg/ops"
	"github.com/spindleworks/millpath/pkg/preview"
	"github.com/spindleworks/millpath/pkg/project"
)

func main() {
	var (
		projectPath = flag.String("project", "", "project YAML document (required)")
		outDir      = flag.String("out", ".", "output directory for the program bundle")
		writeZip    = flag.Bool("zip", false, "also write a zip archive of the bundle")
		writeSVG    = flag.Bool("svg", true, "write an SVG preview next to the bundle")
		previewMode = flag.String("preview-mode", "toolpath", "preview geometry: feature or toolpath")
		ppi         = flag.Float64("ppi", 40, "preview resolution in pixels per inch")
	)
	flag.Parse()

	if *projectPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*projectPath, *outDir, *writeZip, *writeSVG, *previewMode, *ppi); err != nil {
		log.Fatal(err)
	}
}

func run(projectPath, outDir string, writeZip, writeSVG bool, previewMode string, ppi float64) error {
	doc, err := project.Load(projectPath)
	if err != nil {
		return err
	}

	bounds := ops.Bounds{MaxX: doc.Settings.MaxX, MaxY: doc.Settings.MaxY}
	if errs := ops.Validate(doc.Operations, bounds); len(errs) > 0 {
		for _, e := range errs {
			log.Printf("validation: %v", e)
		}
		return fmt.Errorf("%d validation error(s)", len(errs))
	}

	drillParams, err := doc.DrillParams()
	if err != nil {
		return err
	}
	cutParams, err := doc.CutParams()
	if err != nil {
		return err
	}

	expanded := ops.Expand(doc.Operations)

	drillRadius := 0.0
	if doc.Drill != nil {
		drillRadius = doc.Drill.Size / 2
	}
	expanded, report := doc.Material.FilterVoid(expanded, doc.TubeVoidSkip, drillRadius)
	for _, w := range report.Warnings {
		log.Printf("warning: %s", w)
	}

	gen := gcode.NewGenerator(doc.Settings, doc.Name, doc.Material.Depth())
	result, err := gen.Generate(expanded, drillParams, cutParams)
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		log.Printf("warning: %s", w)
	}

	manifest, err := bundle.New().Write(context.Background(), outDir, result, writeZip)
	if err != nil {
		return err
	}
	log.Printf("wrote %s", manifest.MainURL)
	for _, u := range manifest.SubroutineURLs {
		log.Printf("wrote %s", u)
	}
	if manifest.ArchiveURL != "" {
		log.Printf("wrote %s", manifest.ArchiveURL)
	}

	if writeSVG {
		if err := writePreview(doc, expanded, cutParams, outDir, result.ProjectName, previewMode, ppi); err != nil {
			return err
		}
	}
	return nil
}

func writePreview(doc *project.Document, expanded ops.Expanded, cutParams *gcode.ToolParams, outDir, projectName, mode string, ppi float64) error {
	opts := preview.Options{
		Mode:     preview.ModeToolpath,
		MachineW: doc.Settings.MaxX,
		MachineH: doc.Settings.MaxY,
		Material: &doc.Material,
	}
	if mode == "feature" {
		opts.Mode = preview.ModeFeature
	}
	if cutParams != nil {
		opts.ToolDiameter = cutParams.ToolDiameter
	}

	scene, err := preview.Build(expanded, opts)
	if err != nil {
		return err
	}

	path := filepath.Join(outDir, projectName+".svg")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	preview.WriteSVG(f, scene, ppi)
	log.Printf("wrote %s", path)
	return nil
}
