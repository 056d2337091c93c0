package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// LoadKDL loads .lci.kdl from projectRoot if present, overlaying it on top
// of Default(projectRoot). A missing file is not an error: it returns
// Default(projectRoot) unchanged.
func LoadKDL(projectRoot string) (*Config, error) {
	kdlPath := filepath.Join(projectRoot, ".lci.kdl")

	if _, err := os.Stat(kdlPath); os.IsNotExist(err) {
		return Default(projectRoot), nil
	}

	content, err := os.ReadFile(kdlPath)
	if err != nil {
		log.Printf("config: failed to read %s, using defaults: %v", kdlPath, err)
		return Default(projectRoot), nil
	}

	cfg := Default(projectRoot)
	doc, err := kdl.Parse(strings.NewReader(string(content)))
	if err != nil {
		log.Printf("config: failed to parse %s, using defaults: %v", kdlPath, err)
		return cfg, nil
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children {
				assignSimpleString(cn, "root", func(v string) { cfg.Project.Root = v })
				assignSimpleString(cn, "name", func(v string) { cfg.Project.Name = v })
			}
		case "scan":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "dirs":
					cfg.Scan.ScanDirs = collectStringArgs(cn)
				case "skip_dirs":
					cfg.Scan.SkipDirs = collectStringArgs(cn)
				case "extensions":
					cfg.Scan.Extensions = collectStringArgs(cn)
				case "noise_dirs":
					cfg.Scan.NoiseDirs = collectStringArgs(cn)
				}
			}
		case "budget":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "default_tokens":
					if v, ok := firstIntArg(cn); ok {
						cfg.Budget.DefaultTokens = v
					}
				case "unit":
					if s, ok := firstStringArg(cn); ok {
						cfg.Budget.Unit = s
					}
				}
			}
		}
	}

	if cfg.Project.Root == "" {
		cfg.Project.Root = projectRoot
	}
	if !filepath.IsAbs(cfg.Project.Root) {
		cfg.Project.Root = filepath.Clean(filepath.Join(projectRoot, cfg.Project.Root))
	}

	return cfg, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) != target {
		return
	}
	if s, ok := firstStringArg(n); ok {
		set(s)
		return
	}
	if len(n.Arguments) > 0 {
		set(fmt.Sprint(n.Arguments[0].Value))
	}
}
