package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/jotdown/pkg/jdast"
	"github.com/yaklabco/jotdown/pkg/jotdown"
	"github.com/yaklabco/jotdown/pkg/treedump"
)

type tokensFlags struct {
	format  string
	emitted bool
}

func newTokensCommand(globals *globalFlags) *cobra.Command {
	flags := &tokensFlags{}

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a document",
		Long: `Scan and parse a document and print the tokens the parser consumed.

Use - to read the document from standard input. With --emitted, every token
the scanner produced is printed, including the empty ones the parser skips.`,
		Example: `  jotdown tokens notes.jd
  jotdown tokens notes.jd --format json
  echo '!!bold!!' | jotdown tokens -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := inspectFormat(flags.format, treedump.FormatText, treedump.FormatJSON)
			if err != nil {
				return err
			}
			doc, err := inspectDocument(cmd, globals, args[0])
			if err != nil {
				return err
			}
			tokens := doc.ParsedTokens()
			if flags.emitted {
				tokens = doc.EmittedTokens()
			}
			return writeTokens(cmd, format, tokens)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().BoolVar(&flags.emitted, "emitted", false, "print every scanned token")
	return cmd
}

func writeTokens(cmd *cobra.Command, format treedump.Format, tokens []jdast.Token) error {
	if err := treedump.Tokens(cmd.OutOrStdout(), format, tokens); err != nil {
		return fmt.Errorf("write tokens: %w", err)
	}
	return nil
}

type treeFlags struct {
	format string
}

func newTreeCommand(globals *globalFlags) *cobra.Command {
	flags := &treeFlags{}

	cmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Dump the parsed tree of a document",
		Long: `Parse a document and dump its tree.

The text format prints an indented outline of node kinds, values and source
ranges. The json, yaml and litter formats dump every node field. Use - to read
the document from standard input.`,
		Example: `  jotdown tree notes.jd
  jotdown tree notes.jd --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := inspectFormat(flags.format,
				treedump.FormatText, treedump.FormatJSON, treedump.FormatYAML, treedump.FormatLitter)
			if err != nil {
				return err
			}
			doc, err := inspectDocument(cmd, globals, args[0])
			if err != nil {
				return err
			}
			if err := treedump.Tree(cmd.OutOrStdout(), format, doc.Tree()); err != nil {
				return fmt.Errorf("write tree: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, yaml, litter")
	return cmd
}

// inspectFormat parses name and checks it is one of allowed.
func inspectFormat(name string, allowed ...treedump.Format) (treedump.Format, error) {
	format, err := treedump.ParseFormat(name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}
	for _, f := range allowed {
		if f == format {
			return format, nil
		}
	}
	return "", fmt.Errorf("%w: format %q is not supported here", ErrInvalidUsage, name)
}

// inspectDocument parses the single document named by arg.
func inspectDocument(cmd *cobra.Command, globals *globalFlags, arg string) (*jotdown.Document, error) {
	sess, err := newSession(cmd, globals, nil)
	if err != nil {
		return nil, err
	}
	opts, err := sess.runOptions()
	if err != nil {
		return nil, err
	}

	source, err := sess.readSource(arg)
	if err != nil {
		return nil, err
	}
	doc, err := jotdown.Parse(source, opts.Document)
	if err != nil {
		return nil, sess.reportParseFailure(arg, source, err)
	}
	return doc, nil
}
