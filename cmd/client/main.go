package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/bgeneto/flux-image-gen/pkg/client"
)

func main() {
	urlFlag := flag.String("url", "http://localhost:8080", "server url")
	tokenFlag := flag.String("token", "", "server token")

	modelFlag := flag.String("model", "", "model id")
	outputFlag := flag.String("output", "", "output file")

	flag.Parse()

	ctx := context.Background()

	options := []client.RequestOption{}

	if *tokenFlag != "" {
		options = append(options, client.WithToken(*tokenFlag))
	}

	c := client.New(*urlFlag, options...)

	prompt := strings.Join(flag.Args(), " ")

	if prompt == "" {
		listModels(ctx, c)
		return
	}

	render(ctx, c, *modelFlag, prompt, *outputFlag)
}

func listModels(ctx context.Context, c *client.Client) {
	models, err := c.Models.List(ctx)

	if err != nil {
		panic(err)
	}

	for _, m := range models {
		fmt.Println(m.ID)
	}
}

func render(ctx context.Context, c *client.Client, model, prompt, output string) {
	rendering, err := c.Renderings.New(ctx, client.RenderingRequest{
		Model: model,

		Input: prompt,
	})

	if err != nil {
		panic(err)
	}

	if output == "" {
		output = "GeneratedImage." + extension(rendering.ContentType)
	}

	if err := os.WriteFile(output, rendering.Content, 0644); err != nil {
		panic(err)
	}

	fmt.Println(output)
}

func extension(contentType string) string {
	if _, val, ok := strings.Cut(contentType, "image/"); ok && val != "" {
		ext, _, _ := strings.Cut(val, ";")
		return ext
	}

	return "png"
}
