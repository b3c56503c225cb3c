// Command legislice fetches legislative provisions, renders selected
// passages, and compares the text of citations.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mscarey/legislice-sub000/core/provision"
	"github.com/mscarey/legislice-sub000/internal/cache"
	"github.com/mscarey/legislice-sub000/internal/client"
	"github.com/mscarey/legislice-sub000/internal/logging"
	"github.com/mscarey/legislice-sub000/internal/schema"
	"github.com/mscarey/legislice-sub000/internal/uslm"
)

const version = "0.1.0"

// CLI defines the command-line interface for legislice.
var CLI struct {
	// Global flags
	Verbose bool `help:"Enable debug logging" short:"v"`
	LogJSON bool `name:"log-json" help:"Emit logs as JSON"`

	Provision ProvisionGroup `cmd:"" help:"Provision operations (fetch, show, compare, cite)"`
	Cache     CacheGroup     `cmd:"" help:"Response cache management"`
	Version   VersionCmd     `cmd:"" help:"Print version information"`
}

// ProvisionGroup contains provision operations.
type ProvisionGroup struct {
	Fetch   FetchCmd   `cmd:"" help:"Fetch a provision record from the API"`
	Show    ShowCmd    `cmd:"" help:"Render a provision's selected text"`
	Compare CompareCmd `cmd:"" help:"Compare the selected text of two provisions"`
	Cite    CiteCmd    `cmd:"" help:"Render a CSL-JSON citation for a provision record"`
}

// CacheGroup contains response cache operations.
type CacheGroup struct {
	Purge CachePurgeCmd `cmd:"" help:"Delete all cached responses"`
}

// apiFlags are shared by commands that may hit the network.
type apiFlags struct {
	APIRoot   string `name:"api-root" env:"LEGISLICE_API_ROOT" default:"${api_root}" help:"Base URL of the legislation API"`
	Token     string `env:"LEGISLICE_API_TOKEN" help:"API token"`
	CachePath string `name:"cache" env:"LEGISLICE_CACHE" type:"path" help:"SQLite response cache path"`
}

func (f *apiFlags) client() (*client.Client, func(), error) {
	c := client.New(f.APIRoot, f.Token)
	cleanup := func() {}
	if f.CachePath != "" {
		store, err := cache.Open(f.CachePath)
		if err != nil {
			return nil, nil, err
		}
		c.Cache = store
		cleanup = func() { store.Close() }
	}
	return c, cleanup, nil
}

// FetchCmd downloads a provision record and prints it as JSON.
type FetchCmd struct {
	apiFlags
	Path string `arg:"" help:"Citation path, e.g. /us/usc/t17/s103"`
	Date string `help:"ISO date of the desired version (default: most recent)"`
}

func (cmd *FetchCmd) Run() error {
	c, cleanup, err := cmd.client()
	if err != nil {
		return err
	}
	defer cleanup()
	raw, err := c.Fetch(context.Background(), cmd.Path, cmd.Date)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// ShowCmd renders the selected text of a provision from a local file or
// the API, optionally narrowed by quote selectors.
type ShowCmd struct {
	apiFlags
	Path   string   `arg:"" help:"Citation path, or a local .json/.yaml/.xml record file"`
	Date   string   `help:"ISO date of the desired version (default: most recent)"`
	Quotes []string `short:"q" help:"Quote selectors in prefix|exact|suffix form"`
}

func (cmd *ShowCmd) Run() error {
	passage, err := cmd.load()
	if err != nil {
		return err
	}
	if len(cmd.Quotes) > 0 {
		quotes := make([]provision.QuoteSelector, len(cmd.Quotes))
		for i, text := range cmd.Quotes {
			quotes[i] = parseQuote(text)
		}
		passage, err = passage.Provision().SelectQuotes(quotes...)
		if err != nil {
			return err
		}
	}
	fmt.Println(passage.SelectedText())
	return nil
}

func (cmd *ShowCmd) load() (*provision.ProvisionPassage, error) {
	if _, err := os.Stat(cmd.Path); err == nil {
		raw, err := loadRecordFile(cmd.Path, cmd.Date)
		if err != nil {
			return nil, err
		}
		return schema.ReadPassage(raw)
	}
	c, cleanup, err := cmd.client()
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return c.ReadPassage(context.Background(), cmd.Path, cmd.Date)
}

// CompareCmd reports whether one provision record's selected text means
// or implies another's.
type CompareCmd struct {
	Left  string `arg:"" help:"Left record file"`
	Right string `arg:"" help:"Right record file"`
}

func (cmd *CompareCmd) Run() error {
	left, err := loadPassageFile(cmd.Left)
	if err != nil {
		return err
	}
	right, err := loadPassageFile(cmd.Right)
	if err != nil {
		return err
	}
	fmt.Printf("means: %v\n", left.Means(right))
	fmt.Printf("implies: %v\n", left.Implies(right))
	fmt.Printf("implied by: %v\n", right.Implies(left))
	return nil
}

// CiteCmd prints a CSL-JSON citation for a record file.
type CiteCmd struct {
	File string `arg:"" help:"Record file to cite"`
}

func (cmd *CiteCmd) Run() error {
	raw, err := loadRecordFile(cmd.File, "")
	if err != nil {
		return err
	}
	p, err := schema.ReadProvision(raw)
	if err != nil {
		return err
	}
	cite, err := p.AsCitation()
	if err != nil {
		return err
	}
	out, err := cite.CSLJSON()
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// CachePurgeCmd deletes all cached responses.
type CachePurgeCmd struct {
	CachePath string `name:"cache" env:"LEGISLICE_CACHE" type:"path" required:"" help:"SQLite response cache path"`
}

func (cmd *CachePurgeCmd) Run() error {
	store, err := cache.Open(cmd.CachePath)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Purge()
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (cmd *VersionCmd) Run() error {
	fmt.Printf("legislice %s\n", version)
	return nil
}

// loadRecordFile reads a record from a JSON, YAML or USLM XML file.
// USLM carries no validity dates, so startDate is recorded on every
// node of an XML record.
func loadRecordFile(path, startDate string) (schema.RawProvision, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.RawProvision{}, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return schema.DecodeYAML(data)
	case ".xml":
		return uslm.Parse(strings.NewReader(string(data)), startDate)
	default:
		return schema.DecodeJSON(data)
	}
}

func loadPassageFile(path string) (*provision.ProvisionPassage, error) {
	raw, err := loadRecordFile(path, "")
	if err != nil {
		return nil, err
	}
	return schema.ReadPassage(raw)
}

// parseQuote splits a prefix|exact|suffix shorthand; a bare phrase is an
// exact quote.
func parseQuote(text string) provision.QuoteSelector {
	parts := strings.Split(text, "|")
	if len(parts) == 3 {
		return provision.QuoteSelector{Prefix: parts[0], Exact: parts[1], Suffix: parts[2]}
	}
	return provision.QuoteSelector{Exact: text}
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("legislice"),
		kong.Description("Fetch, select and compare passages of legislation."),
		kong.Vars{"api_root": client.DefaultAPIRoot},
		kong.UsageOnError(),
	)

	level := slog.LevelInfo
	if CLI.Verbose {
		level = slog.LevelDebug
	}
	format := logging.FormatText
	if CLI.LogJSON {
		format = logging.FormatJSON
	}
	logging.Init(level, format)

	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "legislice: %v\n", err)
		os.Exit(1)
	}
}
