package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/Tmtan95/GenAI-demo/pkg/extractor"
)

func runDocs(ctx context.Context, a *app) error {
	runDocsLoop(ctx, a, newInputReader(os.Stdin))
	return nil
}

func runDocsLoop(ctx context.Context, a *app, in *inputReader) {
	color.Cyan("\n📚 Document Analysis")

	count, ok := ingestDocuments(ctx, a)
	if !ok {
		return
	}
	color.Green("✓ Documents ready: %d chunks indexed", count)

	prompt := color.New(color.FgGreen).PrintfFunc()
	color.Cyan("\nAsk questions about your documents. Type 'quit' to return.")

	for {
		if ctx.Err() != nil {
			return
		}

		prompt("\nYour Question: ")
		line, ok := in.ReadLine(ctx)
		if !ok {
			return
		}

		question := strings.TrimSpace(line)
		if question == "" {
			continue
		}
		if isQuit(question) {
			return
		}

		spinner := getSpinner("🔍 Searching documents...")
		answer := a.rag.Answer(ctx, question)
		spinner.Finish()
		fmt.Print("\r")

		fmt.Printf("\nAnswer:\n%s\n", answer)
	}
}

// ingestDocuments feeds every PDF in the configured folder into the
// orchestrator and reports the reason when nothing can be indexed.
func ingestDocuments(ctx context.Context, a *app) (int, bool) {
	folder := a.cfg.Documents.Folder

	paths, err := extractor.FindPDFs(folder)
	if err != nil {
		color.Red("Could not read documents folder: %v", err)
		return 0, false
	}
	if len(paths) == 0 {
		color.Red("No PDF files found in %q.", folder)
		color.Yellow("Add PDF files to the folder and try again.")
		return 0, false
	}

	fmt.Printf("Found %d PDF file(s):\n", len(paths))
	for i, path := range paths {
		fmt.Printf("   %d. %s\n", i+1, filepath.Base(path))
	}

	count, err := a.rag.Ingest(ctx, paths)
	if err != nil {
		color.Red("Failed to process documents: %v", err)
		return 0, false
	}
	return count, true
}

func runAsk(ctx context.Context, a *app, question string) error {
	if _, ok := ingestDocuments(ctx, a); !ok {
		return fmt.Errorf("no documents available")
	}

	answer := a.rag.Answer(ctx, question)
	fmt.Printf("\n%s\n", answer)
	return nil
}
