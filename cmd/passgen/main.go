// Package main provides the command line entrypoint for passgen.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vaultpass/passgen/internal/config"
	"github.com/vaultpass/passgen/internal/crypto"
	"github.com/vaultpass/passgen/internal/i18n"
	"github.com/vaultpass/passgen/internal/service"
)

const defaultConfigPath = "passgen.toml"

var (
	passwordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	tierStyles    = map[crypto.Tier]lipgloss.Style{
		crypto.TierUnknown: mutedStyle,
		crypto.TierWeak:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
		crypto.TierMedium:  lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")),
		crypto.TierStrong:  lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")),
	}
)

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	locale     string
	color      bool
}

func newRootCmd() *cobra.Command {
	rf := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:          "passgen",
		Short:        "Random password generator",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&rf.configPath, "config", defaultConfigPath, "TOML config file")
	rootCmd.PersistentFlags().StringVar(&rf.locale, "locale", "", "display language (zh, en)")
	rootCmd.PersistentFlags().BoolVar(&rf.color, "color", false, "force colored output")

	rootCmd.AddCommand(newGenerateCmd(rf))
	rootCmd.AddCommand(newStrengthCmd(rf))

	return rootCmd
}

// load reads the config file and resolves the display locale, letting the
// --locale flag win over the file.
func (rf *rootFlags) load() (config.FileConfig, i18n.Locale, error) {
	fileCfg, err := config.LoadFile(rf.configPath)
	if err != nil {
		return config.FileConfig{}, "", fmt.Errorf("failed to load config: %w", err)
	}

	l := fileCfg.DefaultLocale()
	if rf.locale != "" {
		l, _ = i18n.Resolve(rf.locale)
	}
	return fileCfg, l, nil
}

type generateFlags struct {
	length         int
	uppercase      bool
	lowercase      bool
	numbers        bool
	symbols        bool
	excludeSimilar bool
	requireAll     bool
	pronounceable  bool
	titleCase      bool
	count          int
	copy           bool
	source         string
}

func newGenerateCmd(rf *rootFlags) *cobra.Command {
	gf := &generateFlags{}
	defaults := crypto.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate passwords",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, rf, gf)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&gf.length, "length", "l", defaults.Length, "password length (0-128)")
	f.BoolVar(&gf.uppercase, "upper", defaults.Uppercase, "include uppercase letters")
	f.BoolVar(&gf.lowercase, "lower", defaults.Lowercase, "include lowercase letters")
	f.BoolVar(&gf.numbers, "numbers", defaults.Numbers, "include digits")
	f.BoolVar(&gf.symbols, "symbols", defaults.Symbols, "include symbols")
	f.BoolVar(&gf.excludeSimilar, "exclude-similar", defaults.ExcludeSimilar, "leave out 0 O o 1 l I")
	f.BoolVar(&gf.requireAll, "require-all", defaults.RequireAll, "include at least one character of each selected set")
	f.BoolVar(&gf.pronounceable, "pronounceable", defaults.Pronounceable, "alternate consonants and vowels")
	f.BoolVar(&gf.titleCase, "title-case", defaults.TitleCase, "capitalize the first character and end with a digit")
	f.IntVarP(&gf.count, "count", "n", 1, "number of passwords")
	f.BoolVarP(&gf.copy, "copy", "c", false, "copy the last password to the clipboard")
	f.StringVar(&gf.source, "source", crypto.SourceChaCha20, "random source (chacha20, system)")

	return cmd
}

func runGenerate(cmd *cobra.Command, rf *rootFlags, gf *generateFlags) error {
	fileCfg, l, err := rf.load()
	if err != nil {
		return err
	}

	opts := gf.options(cmd, fileCfg.Options(crypto.DefaultOptions()))
	if opts.Length < 0 || opts.Length > crypto.MaxLength {
		return fmt.Errorf("length must be between 0 and %d", crypto.MaxLength)
	}
	if gf.count < 1 {
		return fmt.Errorf("count must be at least 1")
	}

	rng, err := crypto.NewSource(gf.source)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	color := shouldUseColor(out, rf.color)

	var last string
	for i := 0; i < gf.count; i++ {
		password, err := crypto.Generate(opts, rng)
		if err != nil && !errors.Is(err, crypto.ErrNoCharsetSelected) {
			return err
		}
		last = password

		if color {
			fmt.Fprintln(out, renderPassword(password, l))
		} else {
			fmt.Fprintln(out, password)
		}
	}

	if gf.copy && last != "" {
		if err := copyToClipboard(last); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s (%v)\n", l.Label(i18n.CopyFailed), err)
			return nil
		}
		fmt.Fprintln(cmd.ErrOrStderr(), l.Label(i18n.Copied))
	}

	return nil
}

// options applies the flags the user actually set on top of base.
func (gf *generateFlags) options(cmd *cobra.Command, base crypto.GeneratorOptions) crypto.GeneratorOptions {
	flags := cmd.Flags()
	if flags.Changed("length") {
		base.Length = gf.length
	}
	applyBoolFlag(cmd, "upper", &base.Uppercase, gf.uppercase)
	applyBoolFlag(cmd, "lower", &base.Lowercase, gf.lowercase)
	applyBoolFlag(cmd, "numbers", &base.Numbers, gf.numbers)
	applyBoolFlag(cmd, "symbols", &base.Symbols, gf.symbols)
	applyBoolFlag(cmd, "exclude-similar", &base.ExcludeSimilar, gf.excludeSimilar)
	applyBoolFlag(cmd, "require-all", &base.RequireAll, gf.requireAll)
	applyBoolFlag(cmd, "pronounceable", &base.Pronounceable, gf.pronounceable)
	applyBoolFlag(cmd, "title-case", &base.TitleCase, gf.titleCase)
	return base
}

func applyBoolFlag(cmd *cobra.Command, name string, target *bool, value bool) {
	if cmd.Flags().Changed(name) {
		*target = value
	}
}

func newStrengthCmd(rf *rootFlags) *cobra.Command {
	var hints []string

	cmd := &cobra.Command{
		Use:   "strength <password>",
		Short: "Rate the strength of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, l, err := rf.load()
			if err != nil {
				return err
			}
			return printStrength(cmd.OutOrStdout(), args[0], hints, l, shouldUseColor(cmd.OutOrStdout(), rf.color))
		},
	}

	cmd.Flags().StringSliceVar(&hints, "hint", nil, "words the password should not be built from, e.g. a username")

	return cmd
}

func printStrength(w io.Writer, password string, hints []string, l i18n.Locale, color bool) error {
	st := crypto.Evaluate(password)
	label := l.Label(service.TierKey(st.Tier))
	if color {
		label = tierStyles[st.Tier].Render(label)
	}

	if _, err := fmt.Fprintf(w, "%s (%.2f)\n", label, st.Score); err != nil {
		return err
	}

	if password == "" {
		return nil
	}

	est := crypto.EstimateGuessability(password, hints)
	_, err := fmt.Fprintf(w, "zxcvbn: %d/4, %.1f bits, %s\n", est.Score, est.Entropy, est.CrackTime)
	return err
}

func renderPassword(password string, l i18n.Locale) string {
	st := crypto.Evaluate(password)
	label := tierStyles[st.Tier].Render(l.Label(service.TierKey(st.Tier)))

	if password == "" {
		return mutedStyle.Render(l.Label(i18n.Placeholder)) + "  " + label
	}
	return passwordStyle.Render(password) + "  " + label
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
