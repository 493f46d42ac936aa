package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var emotionLogCmd = &cobra.Command{
	Use:   "emotion-log",
	Short: "Manage the flat CSV emotion log",
	Long:  `The emotion log is a simple CSV (Rêve,Emotion,Image) where each dream gets one mood: heureux, stressant or neutre.`,
}

var emotionLogAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Detect the mood of a dream and append it to the log",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		text, err := textArg(cmd, args)
		if err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return fmt.Errorf("dream text is empty")
		}
		image, _ := cmd.Flags().GetString("image")
		entry, err := a.emotionLog.Record(cmd.Context(), text, image)
		if err != nil {
			return fmt.Errorf("failed to append to emotion log: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Mood: %s\n", entry.Emotion)
		return nil
	}),
}

var emotionLogListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the emotion log",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		entries, err := a.emotionLog.Load()
		if err != nil {
			return fmt.Errorf("failed to read emotion log: %w", err)
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "The emotion log is empty.")
			return nil
		}
		return printJSON(cmd.OutOrStdout(), entries)
	}),
}

func initEmotionLogCmds() {
	emotionLogAddCmd.Flags().String("image", "", "Image reference stored with the entry")
	emotionLogCmd.AddCommand(emotionLogAddCmd, emotionLogListCmd)
	rootCmd.AddCommand(emotionLogCmd)
}
