package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abstract-base-method/belgraph"
	"github.com/abstract-base-method/belgraph/config"
	"github.com/abstract-base-method/belgraph/filters"
	"github.com/abstract-base-method/belgraph/graphfile"
	"github.com/abstract-base-method/belgraph/memory"
	"github.com/abstract-base-method/belgraph/redis"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Command line flags
	configPath string
	logLevel   string
	graphPath  string
	predicates []string
	excludes   []string
	invert     bool

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:           "belfilter",
	Short:         "Filter the nodes of a BEL knowledge graph",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file (default: first of the search paths)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	var predicatesCmd = &cobra.Command{
		Use:   "predicates",
		Short: "List the available node predicates",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range filters.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}

	var filterCmd = &cobra.Command{
		Use:   "filter",
		Short: "Print the nodes that pass every given predicate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd.OutOrStdout())
		},
	}
	filterCmd.Flags().StringVarP(&graphPath, "graph", "g", "", "graph document to load (default: graph_file from config)")
	filterCmd.Flags().StringArrayVarP(&predicates, "predicate", "p", nil, "predicate name, repeatable")
	filterCmd.Flags().StringArrayVarP(&excludes, "exclude", "x", nil, "node reference or document id to exclude, repeatable")
	filterCmd.Flags().BoolVar(&invert, "invert", false, "print the nodes that fail instead")

	var loadCmd = &cobra.Command{
		Use:   "load",
		Short: "Store a graph document in the configured backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd.OutOrStdout())
		},
	}
	loadCmd.Flags().StringVarP(&graphPath, "graph", "g", "", "graph document to load")

	rootCmd.AddCommand(predicatesCmd, filterCmd, loadCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func setup() error {
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.Discover()
	}
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetDefault(log.NewWithOptions(os.Stderr, log.Options{
		Level:           parsed,
		ReportTimestamp: true,
		Prefix:          "belfilter",
	}))
	return nil
}

func openGraph() (belgraph.Graph, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		log.Debug("using redis backend", "db", cfg.Redis.DB)
		return redis.NewRedisGraphFromURL(cfg.Redis.URL, cfg.Redis.DB)
	default:
		return memory.NewGraph(), nil
	}
}

func loadDocument(g belgraph.Graph) (*graphfile.Result, error) {
	path := graphPath
	if path == "" {
		path = cfg.GraphFile
	}
	if path == "" {
		if cfg.Backend == config.BackendRedis {
			return &graphfile.Result{Refs: map[string]belgraph.NodeRef{}}, nil
		}
		return nil, fmt.Errorf("%w: no graph document given", belgraph.ErrInvalidArgument)
	}
	return graphfile.LoadFile(path, g)
}

func buildPredicates(result *graphfile.Result) ([]filters.Predicate, error) {
	chosen := make([]filters.Predicate, 0, len(predicates)+1)
	for _, name := range predicates {
		p, ok := filters.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown predicate %q (see belfilter predicates)", belgraph.ErrInvalidArgument, name)
		}
		chosen = append(chosen, p)
	}

	if len(excludes) > 0 {
		nodes := make([]belgraph.Canonical, 0, len(excludes))
		for _, id := range excludes {
			if ref, ok := result.Refs[id]; ok {
				nodes = append(nodes, ref)
			} else {
				nodes = append(nodes, belgraph.NodeRef(id))
			}
		}
		chosen = append(chosen, filters.NewExclusionFilter(nodes...))
	}

	if invert {
		return []filters.Predicate{filters.Not(filters.And(chosen...))}, nil
	}
	return chosen, nil
}

func runFilter(out io.Writer) error {
	g, err := openGraph()
	if err != nil {
		return err
	}
	result, err := loadDocument(g)
	if err != nil {
		return err
	}
	chosen, err := buildPredicates(result)
	if err != nil {
		return err
	}

	nodes, err := filters.FilterNodes(g, chosen...)
	if err != nil {
		return err
	}
	for _, node := range nodes {
		fmt.Fprintf(out, "%s\t%s\n", node.Ref, node)
	}
	log.Info("filter complete", "kept", len(nodes), "predicates", strings.Join(predicates, ","))
	return nil
}

func runLoad(out io.Writer) error {
	if graphPath == "" {
		return fmt.Errorf("%w: --graph is required", belgraph.ErrInvalidArgument)
	}
	g, err := openGraph()
	if err != nil {
		return err
	}
	result, err := graphfile.LoadFile(graphPath, g)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "stored %d nodes and %d edges\n", result.Nodes, result.Edges)
	return nil
}
