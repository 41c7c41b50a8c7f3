package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/descry-cli/api/schemas"
	"github.com/xkilldash9x/descry-cli/internal/browser"
	"github.com/xkilldash9x/descry-cli/internal/config"
	"github.com/xkilldash9x/descry-cli/internal/dom"
	"github.com/xkilldash9x/descry-cli/internal/observability"
	"github.com/xkilldash9x/descry-cli/internal/results"
)

// newDescribeCmd creates and configures the `describe` command.
func newDescribeCmd() *cobra.Command {
	describeCmd := &cobra.Command{
		Use:   "describe [url]",
		Short: "Describes referenced elements on the target page",
		Long: `Navigates to the target URL, snapshots the rendered document, resolves
each --ref token against the snapshot and emits one deterministic descriptor
per element. The page is never interacted with.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags to their Viper keys so command-line values override
			// the config file and environment variables.
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

			refs, err := cmd.Flags().GetStringArray("ref")
			if err != nil {
				return err
			}

			target := normalizeTarget(args[0])
			logger.Info("Describing elements",
				zap.String("target", target),
				zap.Strings("refs", refs),
			)

			resolver, cleanup, err := capturePage(ctx, cfg, target, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			descriptors, err := describeRefs(ctx, cfg, resolver, refs)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return fmt.Errorf("describe aborted by user signal")
				}
				return err
			}

			emitter, err := results.NewJSONEmitter(cfg.Output.Path, cfg.Output.Pretty, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := emitter.Close(); err != nil {
					logger.Error("Failed to close emitter", zap.Error(err))
				}
			}()

			envelope := schemas.NewDescribeEnvelope(resolver.PageURL(), descriptors)
			if err := emitter.EmitDescribe(envelope); err != nil {
				return err
			}

			logger.Info("Describe completed",
				zap.String("captureId", envelope.CaptureID),
				zap.Int("elements", len(envelope.Elements)),
			)
			return nil
		},
	}

	describeCmd.Flags().StringArrayP("ref", "r", nil, "Element reference token (repeatable, e.g. --ref e3 --ref e7)")
	describeCmd.Flags().StringP("output", "o", "", "Output file path. If unset, JSON is written to stdout.")
	describeCmd.Flags().Bool("pretty", true, "Pretty-print the JSON output")
	_ = describeCmd.MarkFlagRequired("ref")

	return describeCmd
}

// capturePage navigates to the target, captures a snapshot and builds a
// resolver over it. The returned cleanup closes the browser session.
func capturePage(ctx context.Context, cfg *config.Config, target string, logger *zap.Logger) (*browser.SnapshotResolver, func(), error) {
	session, err := browser.NewSession(ctx, cfg.Browser, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start browser session: %w", err)
	}

	if err := session.Navigate(ctx, target); err != nil {
		session.Close()
		return nil, nil, fmt.Errorf("failed to navigate to %s: %w", target, err)
	}

	snapshot, err := session.CaptureSnapshot(ctx)
	if err != nil {
		session.Close()
		return nil, nil, fmt.Errorf("failed to capture snapshot: %w", err)
	}

	resolver, err := browser.NewSnapshotResolver(snapshot)
	if err != nil {
		session.Close()
		return nil, nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	return resolver, session.Close, nil
}

// describeRefs resolves every ref up front, then computes descriptors
// concurrently. A single unknown ref fails the whole invocation before any
// descriptor work starts.
func describeRefs(ctx context.Context, cfg *config.Config, resolver *browser.SnapshotResolver, refs []string) ([]schemas.RefDescriptor, error) {
	nodes := make([]*refTarget, len(refs))
	for i, ref := range refs {
		node, err := resolver.Resolve(ref)
		if err != nil {
			return nil, err
		}
		nodes[i] = &refTarget{ref: ref, node: node}
	}

	items := make([]schemas.RefDescriptor, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	for i, target := range nodes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			descriptor := dom.Describe(resolver.Document(), target.node, resolver.PageURL())
			item := schemas.RefDescriptor{
				Ref:        target.ref,
				Descriptor: descriptor,
			}
			if cfg.Output.EmitCode {
				item.Code = results.InvocationCode(resolver.PageURL(), target.ref)
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

type refTarget struct {
	ref  string
	node *html.Node
}
