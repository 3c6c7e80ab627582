package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

func runMenu(ctx context.Context, a *app) error {
	in := newInputReader(os.Stdin)
	prompt := color.New(color.FgGreen).PrintfFunc()

	for {
		if ctx.Err() != nil {
			return nil
		}

		color.Cyan("\n==================================================")
		color.Cyan("GenAI Demo - Choose an option:")
		fmt.Println("1. Interactive Chat")
		fmt.Println("2. Document Analysis")
		fmt.Println("3. Exit")

		prompt("\nEnter your choice (1-3): ")
		choice, ok := in.ReadLine(ctx)
		if !ok {
			return nil
		}

		switch strings.TrimSpace(choice) {
		case "1":
			runChatLoop(ctx, a, in)
		case "2":
			runDocsLoop(ctx, a, in)
		case "3":
			color.Green("\nGoodbye!")
			return nil
		default:
			color.Red("Invalid choice. Please enter 1, 2, or 3.")
		}
	}
}
