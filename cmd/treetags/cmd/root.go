package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/treetags/internal/adapters/treesitter"
	"github.com/corey/treetags/internal/app"
)

var (
	flagTagFile     string
	flagAppend      bool
	flagSort        bool
	flagWorkers     int
	flagExcludes    []string
	flagFields      string
	flagKinds       []string
	flagLanguages   string
	flagGrammarDirs []string
	flagLineNumbers bool
	flagQuiet       bool
)

var rootCmd = &cobra.Command{
	Use:   "treetags [paths...]",
	Short: "treetags — tree-sitter powered tag file generator",
	Long: "Generates vi-compatible tag files using tree-sitter grammars.\n" +
		"Paths may be files or directories; directories are walked recursively.\n" +
		"With no paths, the tag file's directory is scanned.",
	Args:    cobra.ArbitraryArgs,
	RunE:    runGenerate,
	Version: app.Version,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	registry, err := buildRegistry()
	if err != nil {
		return err
	}
	for _, perr := range registry.Errors() {
		fmt.Fprintf(os.Stderr, "warning: %v\n", perr)
	}

	report, err := app.Run(app.Config{
		TagFile:  flagTagFile,
		Append:   flagAppend,
		Sort:     flagSort,
		Workers:  flagWorkers,
		Excludes: flagExcludes,
		Paths:    args,
	}, registry)
	if report != nil && !flagQuiet {
		for _, warn := range report.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %v\n", warn)
		}
		for _, ferr := range report.FileErrors {
			fmt.Fprintf(os.Stderr, "warning: %v\n", ferr)
		}
	}
	return err
}

// buildRegistry assembles the language registry from the kind, field, and
// user-language flags.
func buildRegistry() (*treesitter.Registry, error) {
	cwd, _ := os.Getwd()
	cfg := treesitter.Config{
		Fields:       flagFields,
		LineNumbers:  flagLineNumbers,
		GrammarPaths: append(flagGrammarDirs, treesitter.DefaultGrammarPaths(cwd)...),
	}

	if len(flagKinds) > 0 {
		cfg.Kinds = make(map[string]string, len(flagKinds))
		for _, spec := range flagKinds {
			lang, kinds, ok := strings.Cut(spec, ":")
			if !ok || lang == "" {
				return nil, fmt.Errorf("invalid --kinds %q: expected <language>:<spec>", spec)
			}
			cfg.Kinds[strings.ToLower(lang)] = kinds
		}
	}

	if flagLanguages != "" {
		users, err := treesitter.LoadUserLanguages(flagLanguages)
		if err != nil {
			return nil, err
		}
		cfg.UserLanguages = users
	}

	return treesitter.NewRegistry(cfg), nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().StringVarP(&flagTagFile, "tag-file", "f", "tags", "output tag file, or - for stdout")
	rootCmd.Flags().BoolVarP(&flagAppend, "append", "a", false, "merge into the existing tag file instead of replacing it")
	rootCmd.Flags().BoolVar(&flagSort, "sort", true, "sort tags byte-wise by name")
	rootCmd.Flags().IntVar(&flagWorkers, "workers", app.DefaultWorkers, "parser worker count")
	rootCmd.Flags().StringArrayVar(&flagExcludes, "exclude", nil, "glob of files to skip (repeatable)")
	rootCmd.Flags().StringVar(&flagFields, "fields", "", "extension fields to emit, e.g. +e or line,signature")
	rootCmd.Flags().StringArrayVar(&flagKinds, "kinds", nil, "per-language kind spec as <language>:<spec> (repeatable)")
	rootCmd.Flags().StringVar(&flagLanguages, "languages", "", "JSON file registering extra grammars")
	rootCmd.Flags().StringArrayVar(&flagGrammarDirs, "grammar-dir", nil, "directory searched for grammar shared libraries (repeatable)")
	rootCmd.Flags().BoolVarP(&flagLineNumbers, "line-numbers", "n", false, "use line numbers instead of search patterns for tag addresses")
	rootCmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress per-file warnings")

	rootCmd.AddCommand(languagesCmd)
}
