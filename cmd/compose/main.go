// Command compose is a terminal composer for iambic posts. Lines typed at
// the prompt are appended to the draft; commands start with a colon.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"iambic/apiclient"
	"iambic/composer"
	"iambic/config"
	"iambic/iambic"
	"iambic/logger"
)

const help = `:send    submit the draft
:check   validate the draft
:list    fetch posts
:show    print the draft
:clear   discard the draft
:dismiss hide the error banner
:quit    exit`

func main() {
	configPath := flag.String("config", "", "path to composer yaml config")
	flag.Parse()

	cfg := config.MustLoadComposer(*configPath)
	logger.InitializeTo(os.Stderr, cfg.LogLevel, false)

	store := composer.NewStore(apiclient.New(cfg.BaseURL, cfg.RequestTimeout), composer.Options{
		ErrorDisplay:     cfg.ErrorDisplay,
		ValidateDebounce: cfg.ValidateDebounce,
	})
	defer store.Close()

	updates, unsubscribe := store.Subscribe()
	defer unsubscribe()
	go render(os.Stdout, store, updates)

	logger.Log.Info("composer started", "component", "compose", "base_url", cfg.BaseURL)
	fmt.Println(help)
	repl(os.Stdin, os.Stdout, store)
}

func repl(in io.Reader, out io.Writer, store *composer.Store) {
	ctx := context.Background()
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		switch strings.TrimSpace(line) {
		case ":quit":
			return
		case ":send":
			task := store.SubmitPost(ctx)
			go func() {
				if task.Wait(ctx) == nil {
					store.FetchPosts(ctx)
				}
			}()
		case ":check":
			if store.ValidatePost(ctx).Skipped() {
				fmt.Fprintln(out, "draft already checked")
			}
		case ":list":
			store.FetchPosts(ctx)
		case ":show":
			fmt.Fprintln(out, store.Snapshot().WorkingPost.Body)
		case ":clear":
			store.UpdateBody("")
		case ":dismiss":
			store.ClearError()
		case ":help":
			fmt.Fprintln(out, help)
		default:
			body := store.Snapshot().WorkingPost.Body
			if body != "" {
				body += "\n"
			}
			store.UpdateBody(body + line)
		}
	}
}

// render prints what changed between consecutive snapshots.
func render(out io.Writer, store *composer.Store, updates <-chan struct{}) {
	var prev composer.State
	for range updates {
		cur := store.Snapshot()
		if cur.WorkingPost.Loading != prev.WorkingPost.Loading {
			if cur.WorkingPost.Loading {
				fmt.Fprintln(out, "sending...")
			} else {
				fmt.Fprintln(out, "sent")
			}
		}
		if cur.Banner != prev.Banner && cur.Banner.Message != "" {
			fmt.Fprintf(out, "! %s\n", cur.Banner.Message)
		}
		if cur.WorkingPost.LastValidatedBody != prev.WorkingPost.LastValidatedBody ||
			!slices.Equal(cur.WorkingPost.ValidationErrors, prev.WorkingPost.ValidationErrors) {
			printResults(out, cur.WorkingPost)
		}
		if !slices.Equal(cur.Posts, prev.Posts) {
			for _, p := range cur.Posts {
				fmt.Fprintf(out, "#%d %s\n%s\n\n", p.ID, p.CreatedAt.Format("2006-01-02 15:04"), p.Body)
			}
		}
		prev = cur
	}
}

func printResults(out io.Writer, wp composer.WorkingPost) {
	lines := strings.Split(strings.TrimSpace(strings.ReplaceAll(wp.LastValidatedBody, "\r\n", "\n")), "\n")
	for i, r := range wp.ValidationErrors {
		text := ""
		if i < len(lines) {
			text = lines[i]
		}
		if r.OK {
			fmt.Fprintf(out, "  ok  %s\n", text)
			continue
		}
		fmt.Fprintf(out, "  %s  %s (at %d)\n", mark(r), text, r.At)
	}
}

func mark(r iambic.ValidationResult) string {
	if r.Reason == iambic.ReasonUnknownWord {
		return "??"
	}
	return "xx"
}
