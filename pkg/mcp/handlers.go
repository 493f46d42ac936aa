package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/unowned-ai/dreamjournal/pkg/dreams"
	"github.com/unowned-ai/dreamjournal/pkg/journal"
)

const defaultKeywordLimit = 10

// RegisterPingTool registers the simple ping tool.
func RegisterPingTool(s *server.MCPServer) {
	pingTool := mcp.NewTool("ping",
		mcp.WithDescription("Responds with 'pong' to check if the dream journal MCP server is alive."),
	)
	s.AddTool(pingTool, pingHandler)
}

func pingHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("pong_dreams"), nil
}

// RegisterAnalyzeDreamTool registers analyze_dream, which runs the analysis
// without recording anything.
func RegisterAnalyzeDreamTool(s *server.MCPServer, svc *journal.Service) {
	tool := mcp.NewTool("analyze_dream",
		mcp.WithDescription("Analyzes a dream narrative (French) and returns symbols, emotions, themes, complexity and an interpretation. Nothing is saved."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The dream narrative.")),
	)
	s.AddTool(tool, analyzeDreamHandler(svc))
}

func analyzeDreamHandler(svc *journal.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text := stringArg(request, "text")
		if text == "" {
			return mcp.NewToolResultError("'text' parameter is required and must be a non-empty string."), nil
		}
		return jsonResult(svc.Analyze(text))
	}
}

func withRecordOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("title", mcp.Description("Optional title. Defaults to the date.")),
		mcp.WithNumber("sleep_quality", mcp.Description("Optional sleep quality from 1 to 10.")),
		mcp.WithNumber("dream_clarity", mcp.Description("Optional dream clarity from 1 to 10.")),
		mcp.WithString("emotions", mcp.Description("Optional comma-separated list of felt emotions (e.g. Joie, Peur).")),
		mcp.WithString("dream_type", mcp.Description("Optional dream type: Rêve normal, Cauchemar, Rêve lucide, Rêve récurrent or Rêve prémonitoire.")),
		mcp.WithString("style", mcp.Description("Optional image style: réaliste, artistique, surréaliste, minimaliste or fantasy.")),
		mcp.WithString("mood", mcp.Description("Optional image mood: mystérieuse, colorée, sombre, lumineuse or onirique.")),
		mcp.WithBoolean("skip_image", mcp.Description("Record without generating an illustration.")),
	}
}

func recordInput(request mcp.CallToolRequest) (journal.RecordInput, error) {
	in := journal.RecordInput{
		Title: stringArg(request, "title"),
		Text:  stringArg(request, "text"),
		Metadata: dreams.Metadata{
			Emotions:  splitList(stringArg(request, "emotions")),
			DreamType: stringArg(request, "dream_type"),
			Style:     stringArg(request, "style"),
			Mood:      stringArg(request, "mood"),
		},
	}
	in.SkipImage, _ = request.Params.Arguments["skip_image"].(bool)

	for name, dst := range map[string]**int{
		"sleep_quality": &in.Metadata.SleepQuality,
		"dream_clarity": &in.Metadata.DreamClarity,
	} {
		v, ok, err := intArg(request, name)
		if err != nil {
			return in, err
		}
		if ok {
			*dst = dreams.IntPtr(v)
		}
	}
	return in, nil
}

// RegisterRecordDreamTool registers record_dream.
func RegisterRecordDreamTool(s *server.MCPServer, svc *journal.Service) {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Analyzes a dream, generates an illustration and saves it to the journal. Returns the saved record."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The dream narrative.")),
	}, withRecordOptions()...)
	s.AddTool(mcp.NewTool("record_dream", opts...), recordDreamHandler(svc))
}

func recordDreamHandler(svc *journal.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		in, err := recordInput(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if in.Text == "" {
			return mcp.NewToolResultError("'text' parameter is required and must be a non-empty string."), nil
		}
		rec, err := svc.Record(ctx, in)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to record dream: %v", err)), nil
		}
		return jsonResult(rec)
	}
}

// RegisterRecordAudioDreamTool registers record_audio_dream.
func RegisterRecordAudioDreamTool(s *server.MCPServer, svc *journal.Service) {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Transcribes an audio file of a spoken dream, then analyzes, illustrates and saves it."),
		mcp.WithString("audio_path", mcp.Required(), mcp.Description("Path to a WAV or MP3 file readable by the server.")),
	}, withRecordOptions()...)
	s.AddTool(mcp.NewTool("record_audio_dream", opts...), recordAudioDreamHandler(svc))
}

func recordAudioDreamHandler(svc *journal.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := stringArg(request, "audio_path")
		if path == "" {
			return mcp.NewToolResultError("'audio_path' parameter is required."), nil
		}
		in, err := recordInput(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		rec, err := svc.RecordAudio(ctx, path, in)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to record audio dream: %v", err)), nil
		}
		return jsonResult(rec)
	}
}

// RegisterListDreamsTool registers list_dreams.
func RegisterListDreamsTool(s *server.MCPServer, svc *journal.Service) {
	tool := mcp.NewTool("list_dreams",
		mcp.WithDescription("Lists recorded dreams with their index, optionally filtered and sorted."),
		mcp.WithString("query", mcp.Description("Optional text to search in titles, texts, symbols and emotions.")),
		mcp.WithString("dream_type", mcp.Description("Optional dream type filter. 'Non spécifié' selects dreams without a type.")),
		mcp.WithString("emotion", mcp.Description("Optional declared emotion filter.")),
		mcp.WithString("sort", mcp.DefaultString(string(dreams.SortDateDesc)),
			mcp.Enum(string(dreams.SortDateDesc), string(dreams.SortDateAsc), string(dreams.SortTitle)),
			mcp.Description("Sort order.")),
	)
	s.AddTool(tool, listDreamsHandler(svc))
}

func listDreamsHandler(svc *journal.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		order, err := dreams.ParseSortOrder(stringArg(request, "sort"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		entries := svc.List(ctx, journal.ListOptions{
			Query: stringArg(request, "query"),
			Filter: dreams.FilterOptions{
				DreamType: stringArg(request, "dream_type"),
				Emotion:   stringArg(request, "emotion"),
			},
			Sort: order,
		})
		return jsonResult(entries)
	}
}

// RegisterGetDreamTool registers get_dream.
func RegisterGetDreamTool(s *server.MCPServer, svc *journal.Service) {
	tool := mcp.NewTool("get_dream",
		mcp.WithDescription("Retrieves a recorded dream by its index in the history."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based index as returned by list_dreams.")),
	)
	s.AddTool(tool, getDreamHandler(svc))
}

func getDreamHandler(svc *journal.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		index, ok, err := intArg(request, "index")
		if err != nil || !ok {
			return mcp.NewToolResultError("'index' parameter is required and must be a whole number."), nil
		}
		rec, err := svc.Get(ctx, index)
		if errors.Is(err, journal.ErrDreamNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("Dream %d not found.", index)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(journal.Entry{Index: index, Record: rec})
	}
}

// RegisterSearchDreamsTool registers search_dreams.
func RegisterSearchDreamsTool(s *server.MCPServer, svc *journal.Service) {
	tool := mcp.NewTool("search_dreams",
		mcp.WithDescription("Case-insensitive search over titles, texts, detected symbols and declared emotions. An empty query returns every dream."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Text to search for.")),
	)
	s.AddTool(tool, searchDreamsHandler(svc))
}

func searchDreamsHandler(svc *journal.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entries := svc.List(ctx, journal.ListOptions{Query: stringArg(request, "query"), Sort: dreams.SortDateDesc})
		return jsonResult(entries)
	}
}

// RegisterDeleteDreamTool registers delete_dream.
func RegisterDeleteDreamTool(s *server.MCPServer, svc *journal.Service) {
	tool := mcp.NewTool("delete_dream",
		mcp.WithDescription("Deletes the dream at the given index along with its local image."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based index as returned by list_dreams.")),
	)
	s.AddTool(tool, deleteDreamHandler(svc))
}

func deleteDreamHandler(svc *journal.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		index, ok, err := intArg(request, "index")
		if err != nil || !ok {
			return mcp.NewToolResultError("'index' parameter is required and must be a whole number."), nil
		}
		deleted, err := svc.Delete(ctx, index)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to delete dream %d: %v", index, err)), nil
		}
		if !deleted {
			return mcp.NewToolResultText(fmt.Sprintf("Dream %d not found, nothing to delete.", index)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Dream %d deleted successfully.", index)), nil
	}
}

// RegisterStatisticsTool registers dream_statistics.
func RegisterStatisticsTool(s *server.MCPServer, svc *journal.Service) {
	tool := mcp.NewTool("dream_statistics",
		mcp.WithDescription("Aggregate statistics over the whole journal: averages, distributions and dream frequency."),
	)
	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(svc.Statistics(ctx))
	})
}

// RegisterInsightsTool registers dream_insights.
func RegisterInsightsTool(s *server.MCPServer, svc *journal.Service) {
	tool := mcp.NewTool("dream_insights",
		mcp.WithDescription("Temporal patterns: most active weekday and hour, sleep/clarity correlation and emotion evolution."),
	)
	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(svc.Insights(ctx))
	})
}

// RegisterKeywordsTool registers dream_keywords.
func RegisterKeywordsTool(s *server.MCPServer, svc *journal.Service) {
	tool := mcp.NewTool("dream_keywords",
		mcp.WithDescription("Most frequent meaningful words across all dream narratives."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of keywords. Defaults to 10.")),
	)
	s.AddTool(tool, keywordsHandler(svc))
}

func keywordsHandler(svc *journal.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit, ok, err := intArg(request, "limit")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !ok || limit <= 0 {
			limit = defaultKeywordLimit
		}
		return jsonResult(svc.Keywords(ctx, limit))
	}
}

// RegisterExportDreamsTool registers export_dreams.
func RegisterExportDreamsTool(s *server.MCPServer, svc *journal.Service) {
	tool := mcp.NewTool("export_dreams",
		mcp.WithDescription("Writes the whole journal as a JSON array to a file on the server."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Destination file path.")),
	)
	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := stringArg(request, "path")
		if path == "" {
			return mcp.NewToolResultError("'path' parameter is required."), nil
		}
		n, err := svc.Export(ctx, path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to export dreams: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Exported %d dreams to %s.", n, path)), nil
	})
}

// RegisterImportDreamsTool registers import_dreams.
func RegisterImportDreamsTool(s *server.MCPServer, svc *journal.Service) {
	tool := mcp.NewTool("import_dreams",
		mcp.WithDescription("Merges dreams from a JSON export file, skipping ones already present (same date and opening text)."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Source file path.")),
	)
	s.AddTool(tool, importDreamsHandler(svc))
}

func importDreamsHandler(svc *journal.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := stringArg(request, "path")
		if path == "" {
			return mcp.NewToolResultError("'path' parameter is required."), nil
		}
		n, err := svc.Import(ctx, path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to import dreams: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Imported %d new dreams.", n)), nil
	}
}
