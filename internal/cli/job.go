package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/drc/internal/adapters/gateway"
	"github.com/trebuchet-org/drc/internal/cli/render"
	"github.com/trebuchet-org/drc/internal/domain"
)

// NewJobCmd creates the job command
func NewJobCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "job [file]",
		Short: "Run a single job request and print the response",
		Long: `Run one job request read from a file, or from stdin when no file is given.

Formats:
  job  the request is {"id", "data"} and the output is {"status", "body"}
  v1   serverless v1 event, the output is the response body
  v2   serverless v2 gateway event, the request is carried in "body"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ctx := cmd.Context()

			switch format {
			case "job":
				var req domain.JobRequest
				if err := json.Unmarshal(raw, &req); err != nil {
					return fmt.Errorf("invalid job request: %w", err)
				}
				var werr error
				app.Runner.CreateRequest(ctx, req, func(status int, body any) {
					werr = render.WriteJSON(out, map[string]any{"status": status, "body": body})
				})
				return werr

			case "v1":
				var req domain.JobRequest
				if err := json.Unmarshal(raw, &req); err != nil {
					return fmt.Errorf("invalid job request: %w", err)
				}
				body, err := app.Runner.Handle(ctx, req)
				if err != nil {
					return err
				}
				return render.WriteJSON(out, body)

			case "v2":
				var event gateway.APIGatewayRequest
				if err := json.Unmarshal(raw, &event); err != nil {
					return fmt.Errorf("invalid gateway event: %w", err)
				}
				resp, err := app.Runner.HandleV2(ctx, event)
				if err != nil {
					return err
				}
				return render.WriteJSON(out, resp)

			default:
				return fmt.Errorf("unknown format %q (want job, v1 or v2)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "job", "Request format: job, v1 or v2")

	return cmd
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return data, nil
}
