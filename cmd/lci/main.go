// Command lci is the command-line front end over the same search, find,
// read, and resolve-imports operations the MCP server exposes, plus an
// mcp subcommand that starts the stdio server in-process.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/localcode/lci/internal/config"
	"github.com/localcode/lci/internal/mcpserver"
	"github.com/localcode/lci/internal/repo"
	"github.com/localcode/lci/internal/search"
)

func main() {
	app := &cli.App{
		Name:  "lci",
		Usage: "local code-intelligence: search, find, read, and resolve-imports over an indexed repo",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "repo root to index (default: current directory)",
				Value:   ".",
			},
		},
		Commands: []*cli.Command{
			searchCommand(),
			findCommand(),
			readCommand(),
			resolveImportsCommand(),
			listCommand(),
			mcpCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadRepo indexes the root flag's directory as the sole repo in a fresh
// server, the shape every one-shot CLI subcommand needs before it can
// call into internal/repo.
func loadRepo(c *cli.Context) (*repo.Repo, error) {
	root, err := filepath.Abs(c.String("root"))
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	cfg, err := config.LoadKDL(root)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	servers := repo.NewServer(nil)
	return servers.AddRepo("default", root, cfg)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "rank indexed files and modules by filename/path match",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "file-limit", Value: 20},
			&cli.IntFlag{Name: "module-limit", Value: 10},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("usage: lci search <query>")
			}
			r, err := loadRepo(c)
			if err != nil {
				return err
			}
			query := strings.Join(c.Args().Slice(), " ")
			results, err := search.Search(query, r.FileRecords(), r.ModuleRecords(), c.Int("file-limit"), c.Int("module-limit"))
			if err != nil {
				return err
			}
			return printJSON(results)
		},
	}
}

func findCommand() *cli.Command {
	return &cli.Command{
		Name:  "find",
		Usage: "unified name+content search, blending filename match with grep relevance",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "file-limit", Value: 20},
			&cli.StringFlag{Name: "mode", Value: "any", Usage: "all, any, exact, regex"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("usage: lci find <query>")
			}
			r, err := loadRepo(c)
			if err != nil {
				return err
			}
			query := strings.Join(c.Args().Slice(), " ")
			files, modules, err := r.Find(repo.FindOptions{
				Query:     query,
				Mode:      repo.MatchMode(c.String("mode")),
				FileLimit: c.Int("file-limit"),
			})
			if err != nil {
				return err
			}
			return printJSON(map[string]interface{}{"files": files, "modules": modules})
		},
	}
}

func readCommand() *cli.Command {
	return &cli.Command{
		Name:  "read",
		Usage: "allocate a token/char budget across the given paths",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "budget", Value: 8000},
			&cli.StringFlag{Name: "unit", Value: "tokens"},
			&cli.StringFlag{Name: "query", Value: ""},
		},
		Action: func(c *cli.Context) error {
			paths := c.Args().Slice()
			if len(paths) == 0 {
				return fmt.Errorf("usage: lci read <path> [path...]")
			}
			r, err := loadRepo(c)
			if err != nil {
				return err
			}
			sess := repo.NewSession()
			files, summary, err := r.ReadContext(paths, c.Int("budget"), c.String("unit"), c.String("query"), sess)
			if err != nil {
				return err
			}
			return printJSON(map[string]interface{}{"files": files, "summary": summary})
		},
	}
}

func resolveImportsCommand() *cli.Command {
	return &cli.Command{
		Name:  "resolve-imports",
		Usage: "look up a file's import-graph neighbors",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "direction", Value: "both", Usage: "imports, imported_by, or both"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("usage: lci resolve-imports <path>")
			}
			r, err := loadRepo(c)
			if err != nil {
				return err
			}
			result := r.ResolveImports(c.Args().First(), repo.Direction(c.String("direction")))
			return printJSON(result)
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "show indexed file and module counts for the root repo",
		Action: func(c *cli.Context) error {
			r, err := loadRepo(c)
			if err != nil {
				return err
			}
			return printJSON(map[string]interface{}{
				"name":    r.Name,
				"root":    r.Root,
				"files":   len(r.FileRecords()),
				"modules": len(r.ModuleRecords()),
			})
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "start the MCP server over stdio, indexing root as the default repo",
		Action: func(c *cli.Context) error {
			root, err := filepath.Abs(c.String("root"))
			if err != nil {
				return fmt.Errorf("resolving root: %w", err)
			}
			cfg, err := config.LoadKDL(root)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			servers := repo.NewServer(nil)
			if _, err := servers.AddRepo("default", root, cfg); err != nil {
				return fmt.Errorf("indexing %s: %w", root, err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigChan
				cancel()
			}()

			return mcpserver.NewServer(servers).Start(ctx)
		},
	}
}
