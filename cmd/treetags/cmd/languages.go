package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages",
	Long:  "Lists every language profile the current configuration would load, with its extensions and enabled kinds.",
	Args:  cobra.NoArgs,
	RunE:  runLanguages,
}

func runLanguages(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	registry, err := buildRegistry()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LANGUAGE\tEXTENSIONS\tKINDS\tSOURCE")
	for _, p := range registry.Profiles() {
		kinds := make([]string, 0, len(p.Spec.EnabledKinds))
		for code, on := range p.Spec.EnabledKinds {
			if on {
				kinds = append(kinds, code)
			}
		}
		sort.Strings(kinds)
		source := "builtin"
		if p.UserDefined {
			source = "user"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			p.Name, strings.Join(p.Extensions, ","), strings.Join(kinds, ""), source)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, perr := range registry.Errors() {
		fmt.Fprintf(os.Stderr, "warning: %v\n", perr)
	}
	return nil
}
