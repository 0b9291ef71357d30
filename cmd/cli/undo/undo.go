package undo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/streamdesk/streamdesk/cmd/cli/config"
	"github.com/streamdesk/streamdesk/cmd/cli/output"
	"github.com/streamdesk/streamdesk/internal/models"
)

// InitUndo registers the undo subcommands on the root command.
func InitUndo(rootCmd *cobra.Command) {
	undoCmd := &cobra.Command{
		Use:   "undo",
		Short: "List and replay recent operations",
	}

	undoCmd.AddCommand(listUndoCmd(), applyUndoCmd())
	rootCmd.AddCommand(undoCmd)
}

func listUndoCmd() *cobra.Command {
	var table string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List operations that can still be undone",
		Run: func(cmd *cobra.Command, args []string) {
			token, err := config.LoadToken()
			if err != nil {
				fmt.Println("Please login first")
				return
			}

			path := fmt.Sprintf("/api/admin/undo?limit=%d", limit)
			if table != "" {
				path += "&table_name=" + table
			}
			req, _ := http.NewRequest("GET", config.APIURL()+path, nil)
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				color.Red("request failed: %v", err)
				return
			}
			defer resp.Body.Close()

			var out struct {
				Logs []models.OperationLogEntry `json:"logs"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				color.Red("decode failed: %v", err)
				return
			}

			rows := make([][]interface{}, 0, len(out.Logs))
			for _, l := range out.Logs {
				rows = append(rows, []interface{}{
					l.ID, l.TableName, l.OperationType, l.RecordID,
					l.CreatedAt.Format("2006-01-02 15:04:05"),
				})
			}
			output.RenderTable([]string{"Log ID", "Table", "Operation", "Record", "When"}, rows)
		},
	}

	cmd.Flags().StringVar(&table, "table", "", "filter to one table")
	cmd.Flags().IntVar(&limit, "limit", 10, "max entries")
	return cmd
}

func applyUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply [log-id]",
		Short: "Replay one logged operation",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			token, err := config.LoadToken()
			if err != nil {
				fmt.Println("Please login first")
				return
			}

			body, _ := json.Marshal(map[string]string{"log_id": args[0]})
			req, _ := http.NewRequest("POST", config.APIURL()+"/api/admin/undo", bytes.NewReader(body))
			req.Header.Set("Authorization", "Bearer "+token)
			req.Header.Set("Content-Type", "application/json")

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				color.Red("request failed: %v", err)
				return
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusOK {
				color.Green("Operation undone")
			} else {
				var out map[string]string
				_ = json.NewDecoder(resp.Body).Decode(&out)
				color.Red("Undo failed: %s", out["error"])
			}
		},
	}
}
