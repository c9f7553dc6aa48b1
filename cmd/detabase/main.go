package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/suparena/detabase"
	"github.com/suparena/detabase/base"
)

var (
	versionFlag  = flag.Bool("version", false, "Show version information")
	vFlag        = flag.Bool("v", false, "Show version information (short)")
	profileFlag  = flag.String("profile", "", "Path to a YAML profile file")
	baseFlag     = flag.String("base", "", "Base name (overrides profile)")
	dataKeyFlag  = flag.String("data-key", "", "Data key (overrides profile and environment)")
	endpointFlag = flag.String("endpoint", "", "Service endpoint (overrides profile and environment)")
	timeoutFlag  = flag.Duration("timeout", 30*time.Second, "Request timeout")
)

// profile is the optional YAML configuration file.
type profile struct {
	DataKey  string `yaml:"dataKey"`
	Base     string `yaml:"base"`
	Endpoint string `yaml:"endpoint"`
}

func main() {
	flag.Usage = usage
	flag.Parse()

	// Handle version flag
	if *versionFlag || *vFlag {
		info := detabase.GetVersionInfo()
		fmt.Printf("detabase version %s\n", info.Version)
		fmt.Printf("Git commit: %s\n", info.GitCommit)
		fmt.Printf("Build date: %s\n", info.BuildDate)
		fmt.Printf("Go version: %s\n", info.GoVersion)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := loadProfile(*profileFlag)
	if err != nil {
		log.Fatalf("load profile: %v", err)
	}

	dataKey := firstNonEmpty(*dataKeyFlag, cfg.DataKey,
		os.Getenv(detabase.EnvDataKey), os.Getenv(detabase.EnvProjectKey))
	if dataKey == "" {
		log.Fatalf("no data key: set -data-key, the profile, or %s", detabase.EnvDataKey)
	}
	baseName := firstNonEmpty(*baseFlag, cfg.Base)
	if baseName == "" {
		log.Fatal("no base name: set -base or the profile")
	}
	endpoint := firstNonEmpty(*endpointFlag, cfg.Endpoint, os.Getenv(detabase.EnvEndpoint))

	opts := []base.Option{base.WithTimeout(*timeoutFlag)}
	if endpoint != "" {
		opts = append(opts, base.WithEndpoint(endpoint))
	}

	client, err := detabase.New(dataKey, opts...)
	if err != nil {
		log.Fatalf("create client: %v", err)
	}
	b, err := client.Base(baseName)
	if err != nil {
		log.Fatalf("open base: %v", err)
	}

	ctx := context.Background()
	switch cmd, rest := args[0], args[1:]; cmd {
	case "get":
		runGet(ctx, b, rest)
	case "insert":
		runInsert(ctx, b, rest)
	case "put":
		runPut(ctx, b, rest)
	case "delete":
		runDelete(ctx, b, rest)
	case "query":
		runQuery(ctx, b, rest)
	default:
		usage()
		log.Fatalf("unknown command %q", cmd)
	}
}

func runGet(ctx context.Context, b *base.Base, args []string) {
	if len(args) != 1 {
		log.Fatal("usage: detabase get <key>")
	}

	item, err := b.Get(ctx, args[0])
	if err != nil {
		log.Fatalf("get: %v", err)
	}
	if item == nil {
		fmt.Fprintf(os.Stderr, "key %q not found\n", args[0])
		os.Exit(1)
	}
	printJSON(item)
}

func runInsert(ctx context.Context, b *base.Base, args []string) {
	fs := flag.NewFlagSet("insert", flag.ExitOnError)
	expireIn := fs.Duration("expire-in", 0, "Expire the item after this duration")
	expireAt := fs.String("expire-at", "", "Expire the item at this RFC3339 time")
	fs.Parse(args)

	if fs.NArg() != 1 {
		log.Fatal("usage: detabase insert [flags] <item json | - | @file>")
	}
	data, err := readPayload(fs.Arg(0))
	if err != nil {
		log.Fatalf("read item: %v", err)
	}
	var item base.Item
	if err := json.Unmarshal(data, &item); err != nil {
		log.Fatalf("parse item: %v", err)
	}

	created, err := b.Insert(ctx, item, writeOptions(*expireIn, *expireAt)...)
	if err != nil {
		log.Fatalf("insert: %v", err)
	}
	printJSON(created)
}

func runPut(ctx context.Context, b *base.Base, args []string) {
	fs := flag.NewFlagSet("put", flag.ExitOnError)
	expireIn := fs.Duration("expire-in", 0, "Expire the items after this duration")
	expireAt := fs.String("expire-at", "", "Expire the items at this RFC3339 time")
	concurrency := fs.Int("concurrency", 1, "Number of chunks to send in parallel")
	fs.Parse(args)

	if fs.NArg() != 1 {
		log.Fatal("usage: detabase put [flags] <items json | - | @file>")
	}
	data, err := readPayload(fs.Arg(0))
	if err != nil {
		log.Fatalf("read items: %v", err)
	}
	items, err := parseItems(data)
	if err != nil {
		log.Fatalf("parse items: %v", err)
	}

	opts := writeOptions(*expireIn, *expireAt)
	if *concurrency > 1 {
		opts = append(opts, base.WithConcurrency(*concurrency))
	}

	processed, err := b.Put(ctx, items, opts...)
	if err != nil {
		log.Fatalf("put: %v", err)
	}
	fmt.Fprintf(os.Stderr, "stored %d of %d items\n", len(processed), len(items))
	printJSON(processed)
}

func runDelete(ctx context.Context, b *base.Base, args []string) {
	if len(args) != 1 {
		log.Fatal("usage: detabase delete <key>")
	}

	if err := b.Delete(ctx, args[0]); err != nil {
		log.Fatalf("delete: %v", err)
	}
	fmt.Printf("deleted %q\n", args[0])
}

func runQuery(ctx context.Context, b *base.Base, args []string) {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	limit := fs.Int("limit", 0, "Maximum items per page (default 1000)")
	last := fs.String("last", "", "Continuation cursor from a previous page")
	all := fs.Bool("all", false, "Follow pagination to the end")
	fs.Parse(args)

	if fs.NArg() > 1 {
		log.Fatal("usage: detabase query [flags] [query json | - | @file]")
	}
	var q base.Query
	if fs.NArg() == 1 {
		data, err := readPayload(fs.Arg(0))
		if err != nil {
			log.Fatalf("read query: %v", err)
		}
		q, err = parseQuery(data)
		if err != nil {
			log.Fatalf("parse query: %v", err)
		}
	}

	var opts []base.QueryOption
	if *limit > 0 {
		opts = append(opts, base.WithLimit(*limit))
	}

	if *all {
		items, err := b.QueryAll(ctx, q, opts...)
		if err != nil {
			log.Fatalf("query: %v", err)
		}
		fmt.Fprintf(os.Stderr, "%d items\n", len(items))
		printJSON(items)
		return
	}

	if *last != "" {
		opts = append(opts, base.WithLast(*last))
	}
	res, err := b.Query(ctx, q, opts...)
	if err != nil {
		log.Fatalf("query: %v", err)
	}
	fmt.Fprintf(os.Stderr, "%d items\n", res.Count)
	if res.Last != "" {
		fmt.Fprintf(os.Stderr, "more available, continue with -last %q\n", res.Last)
	}
	printJSON(res.Items)
}

func loadProfile(path string) (profile, error) {
	var cfg profile
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func writeOptions(expireIn time.Duration, expireAt string) []base.WriteOption {
	var opts []base.WriteOption
	if expireIn > 0 {
		opts = append(opts, base.WithExpireIn(expireIn))
	}
	if expireAt != "" {
		at, err := time.Parse(time.RFC3339, expireAt)
		if err != nil {
			log.Fatalf("parse -expire-at: %v", err)
		}
		opts = append(opts, base.WithExpireAt(at))
	}
	return opts
}

// readPayload resolves a payload argument: "-" reads stdin, "@path" reads
// a file, anything else is taken as literal JSON.
func readPayload(arg string) ([]byte, error) {
	switch {
	case arg == "-":
		return io.ReadAll(os.Stdin)
	case strings.HasPrefix(arg, "@"):
		return os.ReadFile(strings.TrimPrefix(arg, "@"))
	}
	return []byte(arg), nil
}

// parseItems accepts either a JSON array of items or a single item object.
func parseItems(data []byte) ([]base.Item, error) {
	var items []base.Item
	if err := json.Unmarshal(data, &items); err == nil {
		return items, nil
	}
	var item base.Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, err
	}
	return []base.Item{item}, nil
}

// parseQuery accepts either a JSON array of condition objects or a single
// condition object.
func parseQuery(data []byte) (base.Query, error) {
	var q base.Query
	if err := json.Unmarshal(data, &q); err == nil {
		return q, nil
	}
	var c base.Condition
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return base.Query{c}, nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("encode output: %v", err)
	}
	fmt.Println(string(data))
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: detabase [flags] <command> [arguments]

Commands:
  get <key>               Fetch one item by key
  insert [flags] <item>   Insert a new item (fails on an existing key)
  put [flags] <items>     Store one or many items, overwriting existing keys
  delete <key>            Delete an item by key
  query [flags] [query]   Run a query with JSON conditions

Item and query arguments accept literal JSON, "-" for stdin, or "@file".

Flags:
`)
	flag.PrintDefaults()
}
