// Command lci-mcp starts the code-intelligence MCP server over stdio,
// indexing one or more repos up front and serving search/find/read/
// resolve_imports tool calls until the process is signalled to stop.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/localcode/lci/internal/config"
	"github.com/localcode/lci/internal/mcpserver"
	"github.com/localcode/lci/internal/repo"
)

func main() {
	var rootsFlag string
	flag.StringVar(&rootsFlag, "repo", "", "comma-separated name=path repo entries to index at startup (default: cwd as \"default\")")
	flag.Parse()

	if err := run(rootsFlag); err != nil {
		log.Fatalf("lci-mcp: %v", err)
	}
}

func run(rootsFlag string) error {
	servers := repo.NewServer(nil)

	entries, err := parseRepoFlag(rootsFlag)
	if err != nil {
		return err
	}
	for _, e := range entries {
		cfg, err := config.LoadKDL(e.root)
		if err != nil {
			return fmt.Errorf("loading config for repo %q: %w", e.name, err)
		}
		if _, err := servers.AddRepo(e.name, e.root, cfg); err != nil {
			return fmt.Errorf("indexing repo %q at %s: %w", e.name, e.root, err)
		}
		log.Printf("lci-mcp: indexed repo %q at %s", e.name, e.root)
	}

	mcpSrv := mcpserver.NewServer(servers)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("lci-mcp: starting MCP server on stdio")
		errChan <- mcpSrv.Start(ctx)
	}()

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		log.Printf("lci-mcp: received %v, shutting down", sig)
		cancel()

		shutdownTimer := time.NewTimer(2 * time.Second)
		defer shutdownTimer.Stop()

		select {
		case <-errChan:
			log.Printf("lci-mcp: server stopped")
			return nil
		case <-shutdownTimer.C:
			log.Printf("lci-mcp: shutdown timed out, exiting anyway")
			return nil
		}
	}
}

type repoEntry struct {
	name string
	root string
}

// parseRepoFlag parses "name=path,name=path" entries. With no flag given,
// it indexes the current working directory as repo "default".
func parseRepoFlag(raw string) ([]repoEntry, error) {
	if strings.TrimSpace(raw) == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving cwd: %w", err)
		}
		return []repoEntry{{name: "default", root: cwd}}, nil
	}

	var out []repoEntry
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, root, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("invalid -repo entry %q, want name=path", part)
		}
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolving path for repo %q: %w", name, err)
		}
		out = append(out, repoEntry{name: name, root: abs})
	}
	return out, nil
}
