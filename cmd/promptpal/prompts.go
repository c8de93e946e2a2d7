package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/promptpal/promptpal-go/pkg/gateway"
	"github.com/promptpal/promptpal-go/pkg/prompts"
)

func (a *app) cmdPrompts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("prompts", flag.ContinueOnError)
	page := fs.Int("page", 1, "page number")
	perPage := fs.Int("per-page", 20, "results per page")
	search := fs.String("search", "", "free-text search")
	tags := fs.String("tags", "", "comma-separated tag filter")
	sort := fs.String("sort", prompts.SortNewest, "sort order: newest, oldest or popular")
	id := fs.String("id", "", "show a single prompt instead of listing")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client := prompts.New(a.creds, prompts.WithBaseURL(a.apiURL), prompts.WithLogger(a.logger))

	if *id != "" {
		return a.showPrompt(ctx, client, *id)
	}

	params := prompts.ListParams{
		Page:    *page,
		PerPage: *perPage,
		Search:  *search,
		Sort:    *sort,
	}
	if *tags != "" {
		params.Tags = strings.Split(*tags, ",")
	}

	result, err := client.List(ctx, params)
	if err != nil {
		return errors.New(gateway.ErrorMessage(err))
	}

	if len(result.Items) == 0 {
		fmt.Println("no prompts found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tTAGS\tLIKES")
	for _, p := range result.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", p.ID, p.Title, strings.Join(p.Tags, ","), p.Likes)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\npage %d of %d (%d prompts)\n", result.Page, result.TotalPages, result.TotalItems)
	return nil
}

func (a *app) showPrompt(ctx context.Context, client *prompts.Client, id string) error {
	prompt, err := client.Get(ctx, id)
	if err != nil {
		if errors.Is(err, prompts.ErrNotFound) {
			return fmt.Errorf("no prompt with id %q", id)
		}
		return errors.New(gateway.ErrorMessage(err))
	}

	fmt.Println(prompt.Title)
	if prompt.Description != "" {
		fmt.Println(prompt.Description)
	}
	if len(prompt.Tags) > 0 {
		fmt.Println("tags: " + strings.Join(prompt.Tags, ", "))
	}
	fmt.Println()
	fmt.Println(prompt.Content)
	return nil
}
