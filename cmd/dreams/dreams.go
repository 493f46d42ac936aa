package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/dreamjournal/pkg/dreams"
	"github.com/unowned-ai/dreamjournal/pkg/journal"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Analyze a dream without saving it",
	Long:  `Runs the rule-based analysis on the given text, or on stdin when no argument is given, and prints the result as JSON.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		text, err := textArg(cmd, args)
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			return journal.ErrEmptyDream
		}
		res := a.svc.Analyze(text)
		if plain, _ := cmd.Flags().GetBool("text"); plain {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), res.Interpretation)
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	}),
}

var recordCmd = &cobra.Command{
	Use:   "record [text]",
	Short: "Analyze, illustrate and save a dream",
	Long: `Records a dream from the given text, or from stdin when no argument is given.
The dream is analyzed, illustrated by the configured image provider and appended to the history.
Use --audio to transcribe a WAV or MP3 recording instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		in, err := recordInputFromFlags(cmd)
		if err != nil {
			return err
		}

		var rec dreams.Record
		if audio, _ := cmd.Flags().GetString("audio"); audio != "" {
			rec, err = a.svc.RecordAudio(cmd.Context(), audio, in)
		} else {
			in.Text, err = textArg(cmd, args)
			if err != nil {
				return err
			}
			rec, err = a.svc.Record(cmd.Context(), in)
		}
		if err != nil {
			return fmt.Errorf("failed to record dream: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Dream recorded successfully:")
		return printJSON(cmd.OutOrStdout(), rec)
	}),
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [audio-file]",
	Short: "Transcribe a spoken dream without saving it",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		text, err := a.svc.Transcribe(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	}),
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded dreams",
	Long:  `Lists dreams with their index, optionally filtered by dream type and declared emotion.`,
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		opts, err := listOptionsFromFlags(cmd)
		if err != nil {
			return err
		}
		entries := a.svc.List(cmd.Context(), opts)
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No dreams found.")
			return nil
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(cmd.OutOrStdout(), entries)
		}
		printEntries(cmd.OutOrStdout(), entries)
		return nil
	}),
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search dreams by title, text, symbol or emotion",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		entries := a.svc.List(cmd.Context(), journal.ListOptions{Query: args[0]})
		if len(entries) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No dreams match %q.\n", args[0])
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d dream(s) found:\n", len(entries))
		printEntries(cmd.OutOrStdout(), entries)
		return nil
	}),
}

var showCmd = &cobra.Command{
	Use:   "show [index]",
	Short: "Show a dream and its analysis",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index: %w", err)
		}
		rec, err := a.svc.Get(cmd.Context(), index)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), rec)
	}),
}

var deleteCmd = &cobra.Command{
	Use:   "delete [index]",
	Short: "Delete a dream and its local image",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index: %w", err)
		}
		ok, err := a.svc.Delete(cmd.Context(), index)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "Dream %d not found.\n", index)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Dream %d deleted successfully.\n", index)
		return nil
	}),
}

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "List dreams whose illustration is still available",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		recs := a.svc.Gallery(cmd.Context())
		if len(recs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No images yet.")
			return nil
		}
		for _, r := range recs {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", r.DisplayDate(), r.Title, r.ImagePath)
		}
		return nil
	}),
}

func textArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read dream from stdin: %w", err)
	}
	return string(b), nil
}

func recordInputFromFlags(cmd *cobra.Command) (journal.RecordInput, error) {
	f := cmd.Flags()
	var in journal.RecordInput
	in.Title, _ = f.GetString("title")
	in.SkipImage, _ = f.GetBool("no-image")
	in.Metadata.DreamType, _ = f.GetString("type")
	in.Metadata.Style, _ = f.GetString("style")
	in.Metadata.Mood, _ = f.GetString("mood")
	emotions, _ := f.GetStringSlice("emotion")
	in.Metadata.Emotions = emotions

	if f.Changed("sleep") {
		v, _ := f.GetInt("sleep")
		in.Metadata.SleepQuality = dreams.IntPtr(v)
	}
	if f.Changed("clarity") {
		v, _ := f.GetInt("clarity")
		in.Metadata.DreamClarity = dreams.IntPtr(v)
	}
	if t := in.Metadata.DreamType; t != "" && !contains(dreams.DreamTypes, t) {
		return in, fmt.Errorf("unknown dream type %q (want one of: %s)", t, strings.Join(dreams.DreamTypes, ", "))
	}
	return in, nil
}

func listOptionsFromFlags(cmd *cobra.Command) (journal.ListOptions, error) {
	f := cmd.Flags()
	sortStr, _ := f.GetString("sort")
	order, err := dreams.ParseSortOrder(sortStr)
	if err != nil {
		return journal.ListOptions{}, err
	}
	dreamType, _ := f.GetString("type")
	emotion, _ := f.GetString("emotion")
	query, _ := f.GetString("query")
	return journal.ListOptions{
		Query:  query,
		Filter: dreams.FilterOptions{DreamType: dreamType, Emotion: emotion},
		Sort:   order,
	}, nil
}

func printEntries(w io.Writer, entries []journal.Entry) {
	for _, e := range entries {
		fmt.Fprintf(w, "[%d] %s (%s)\n", e.Index, e.Record.Title, e.Record.DisplayDate())
		fmt.Fprintf(w, "    %s\n", e.Record.Summary())
		if len(e.Record.Analysis.Symbols) > 0 {
			fmt.Fprintf(w, "    symboles: %s\n", strings.Join(e.Record.Analysis.Symbols, ", "))
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func initDreamCmds() {
	analyzeCmd.Flags().Bool("text", false, "Print only the interpretation text")

	rf := recordCmd.Flags()
	rf.StringP("title", "t", "", "Title of the dream (default: the date)")
	rf.String("audio", "", "Transcribe this WAV/MP3 file instead of reading text")
	rf.Int("sleep", 0, "Sleep quality from 1 to 10")
	rf.Int("clarity", 0, "Dream clarity from 1 to 10")
	rf.StringSliceP("emotion", "e", nil, "Felt emotion (repeatable or comma-separated)")
	rf.String("type", "", fmt.Sprintf("Dream type (%s)", strings.Join(dreams.DreamTypes, ", ")))
	rf.String("style", "", fmt.Sprintf("Image style (%s)", strings.Join(dreams.Styles, ", ")))
	rf.String("mood", "", fmt.Sprintf("Image mood (%s)", strings.Join(dreams.Moods, ", ")))
	rf.Bool("no-image", false, "Do not generate an illustration")

	lf := listCmd.Flags()
	lf.String("type", "", "Only dreams of this type ('Non spécifié' for none)")
	lf.String("emotion", "", "Only dreams with this declared emotion")
	lf.StringP("query", "q", "", "Only dreams matching this text")
	lf.String("sort", string(dreams.SortDateDesc), "Sort order: date-desc, date-asc or title")
	lf.Bool("json", false, "Print entries as JSON")

	rootCmd.AddCommand(analyzeCmd, recordCmd, transcribeCmd, listCmd, searchCmd, showCmd, deleteCmd, galleryCmd)
}
