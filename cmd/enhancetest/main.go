package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"cvbuilder-backend/internal/enhance"
	"cvbuilder-backend/internal/shared/config"
)

// enhancetest runs one enhancement request against the configured provider so
// prompt changes can be checked without going through the API.
func main() {
	cfg := config.Load()

	kind := flag.String("kind", "bullet", "enhancement kind (summary, bullet, skills)")
	text := flag.String("text", "", "text to enhance")
	file := flag.String("file", "", "path to a file with the text to enhance (overrides -text)")
	role := flag.String("role", "", "target role for context (optional)")
	provider := flag.String("provider", cfg.EnhanceProvider, "AI provider")
	model := flag.String("model", cfg.EnhanceModel, "AI model")
	flag.Parse()

	input := enhance.EnhanceInput{
		Kind: enhance.Kind(strings.TrimSpace(*kind)),
		Text: strings.TrimSpace(*text),
		Role: strings.TrimSpace(*role),
	}
	if !enhance.ValidKind(input.Kind) {
		exitErr(fmt.Sprintf("unknown kind %q", *kind))
	}
	if strings.TrimSpace(*file) != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			exitErr(fmt.Sprintf("read file: %v", err))
		}
		input.Text = strings.TrimSpace(string(data))
	}
	if input.Text == "" {
		exitErr("text is required (use -text or -file)")
	}

	client, err := buildClient(*provider, *model)
	if err != nil {
		exitErr(err.Error())
	}

	out, err := client.Enhance(context.Background(), input)
	if err != nil {
		exitErr(fmt.Sprintf("enhance: %v", err))
	}
	fmt.Println(out)
}

func buildClient(provider, model string) (enhance.Client, error) {
	switch strings.TrimSpace(provider) {
	case "openai":
		return enhance.NewOpenAIClient(os.Getenv("OPENAI_API_KEY"), model)
	case "", "placeholder":
		return enhance.PlaceholderClient{}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}

func exitErr(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
