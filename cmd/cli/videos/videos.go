package videos

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/streamdesk/streamdesk/cmd/cli/config"
	"github.com/streamdesk/streamdesk/cmd/cli/output"
	"github.com/streamdesk/streamdesk/internal/models"
)

// InitVideos registers the videos subcommands on the root command.
func InitVideos(rootCmd *cobra.Command) {
	videosCmd := &cobra.Command{
		Use:   "videos",
		Short: "Manage videos",
	}

	videosCmd.AddCommand(listVideosCmd(), deleteVideoCmd())
	rootCmd.AddCommand(videosCmd)
}

func listVideosCmd() *cobra.Command {
	var limit int
	var lastID string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List videos, newest first",
		Run: func(cmd *cobra.Command, args []string) {
			token, err := config.LoadToken()
			if err != nil {
				fmt.Println("Please login first")
				return
			}

			q := url.Values{}
			q.Set("limit", fmt.Sprint(limit))
			if lastID != "" {
				q.Set("lastId", lastID)
			}

			req, _ := http.NewRequest("GET", config.APIURL()+"/api/admin/videos?"+q.Encode(), nil)
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				color.Red("request failed: %v", err)
				return
			}
			defer resp.Body.Close()

			var out struct {
				Videos  []models.Video `json:"videos"`
				HasMore bool           `json:"hasMore"`
				LastID  *string        `json:"lastId"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				color.Red("decode failed: %v", err)
				return
			}

			if asJSON {
				b, _ := json.MarshalIndent(out, "", "  ")
				fmt.Println(string(b))
				return
			}

			rows := make([][]interface{}, 0, len(out.Videos))
			for _, v := range out.Videos {
				rows = append(rows, []interface{}{v.ID, v.Title, v.Duration, v.Views, v.Published})
			}
			output.RenderTable([]string{"ID", "Title", "Duration", "Views", "Published"}, rows)
			if out.HasMore && out.LastID != nil {
				fmt.Printf("More available: rerun with --last-id %s\n", *out.LastID)
			}
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "page size")
	cmd.Flags().StringVar(&lastID, "last-id", "", "cursor from the previous page")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

func deleteVideoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a video (undoable for 24 hours)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			token, err := config.LoadToken()
			if err != nil {
				fmt.Println("Please login first")
				return
			}

			req, _ := http.NewRequest("DELETE",
				config.APIURL()+"/api/admin/videos?id="+url.QueryEscape(args[0]), nil)
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				color.Red("request failed: %v", err)
				return
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusOK {
				color.Green("Video deleted")
			} else {
				var out map[string]string
				_ = json.NewDecoder(resp.Body).Decode(&out)
				color.Red("Failed to delete video: %s", out["error"])
			}
		},
	}
}
