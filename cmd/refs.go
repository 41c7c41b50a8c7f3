package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/descry-cli/api/schemas"
	"github.com/xkilldash9x/descry-cli/internal/config"
	"github.com/xkilldash9x/descry-cli/internal/observability"
	"github.com/xkilldash9x/descry-cli/internal/results"
)

// newRefsCmd creates and configures the `refs` command.
func newRefsCmd() *cobra.Command {
	refsCmd := &cobra.Command{
		Use:   "refs [url]",
		Short: "Lists the reference tokens assigned to interactive elements",
		Long: `Navigates to the target URL, snapshots the rendered document and lists
every assigned reference token with a short preview. Tokens are assigned in
document order and are stable for identical markup.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("output.path", cmd.Flags().Lookup("output")); err != nil {
				return err
			}
			return viper.BindPFlag("output.pretty", cmd.Flags().Lookup("pretty"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return fmt.Errorf("failed to finalize config: %w", err)
			}

			target := normalizeTarget(args[0])
			logger.Info("Listing element refs", zap.String("target", target))

			resolver, cleanup, err := capturePage(ctx, cfg, target, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			emitter, err := results.NewJSONEmitter(cfg.Output.Path, cfg.Output.Pretty, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := emitter.Close(); err != nil {
					logger.Error("Failed to close emitter", zap.Error(err))
				}
			}()

			envelope := &schemas.RefListEnvelope{
				CaptureID: uuid.New().String(),
				PageURL:   resolver.PageURL(),
				Timestamp: time.Now().UnixMilli(),
				Refs:      resolver.Entries(),
			}
			if err := emitter.EmitRefList(envelope); err != nil {
				return err
			}

			logger.Info("Ref listing completed",
				zap.String("captureId", envelope.CaptureID),
				zap.Int("refs", len(envelope.Refs)),
			)
			return nil
		},
	}

	refsCmd.Flags().StringP("output", "o", "", "Output file path. If unset, JSON is written to stdout.")
	refsCmd.Flags().Bool("pretty", true, "Pretty-print the JSON output")

	return refsCmd
}
