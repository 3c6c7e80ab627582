package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/Tmtan95/GenAI-demo/pkg/extractor"
	"github.com/Tmtan95/GenAI-demo/pkg/ollama"
)

// runCheck verifies the pieces a session needs: a reachable server, the
// configured models, and a documents folder with PDFs in it. It never
// starts a server itself.
func runCheck(ctx context.Context, a *app) error {
	passed := 0
	total := 3

	color.Cyan("Checking local setup...\n")

	if a.manager.Probe(ctx) == ollama.StatusRunning {
		color.Green("✓ Ollama server is reachable at %s", a.cfg.LLM.BaseURL)
		passed++

		names, err := a.manager.ListModels(ctx)
		if err != nil {
			color.Red("✗ Could not list models: %v", err)
		} else {
			missing := false
			for _, want := range []string{a.cfg.LLM.Model, a.cfg.Embedding.Model} {
				if !ollama.HasModel(names, want) {
					color.Red("✗ Model %q is not pulled (try: ollama pull %s)", want, want)
					missing = true
				}
			}
			if !missing {
				color.Green("✓ Models %q and %q are available", a.cfg.LLM.Model, a.cfg.Embedding.Model)
				passed++
			}
		}
	} else {
		color.Red("✗ Ollama server is not reachable at %s", a.cfg.LLM.BaseURL)
		color.Yellow("  Start it with: ollama serve")
	}

	paths, err := extractor.FindPDFs(a.cfg.Documents.Folder)
	switch {
	case err != nil:
		color.Red("✗ Documents folder %q cannot be read: %v", a.cfg.Documents.Folder, err)
	case len(paths) == 0:
		color.Yellow("! Documents folder %q contains no PDF files", a.cfg.Documents.Folder)
	default:
		color.Green("✓ Found %d PDF file(s) in %q", len(paths), a.cfg.Documents.Folder)
		passed++
	}

	fmt.Println()
	if passed != total {
		color.Yellow("Results: %d/%d checks passed", passed, total)
		return fmt.Errorf("setup is not ready")
	}
	color.Green("Results: %d/%d checks passed", passed, total)
	return nil
}
