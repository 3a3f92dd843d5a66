package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/mrled/suns/msgsvc/internal/adapter/s3snapshot"
	"github.com/mrled/suns/msgsvc/internal/config"
)

// SnapshotFlags selects the S3 object used by export and import
type SnapshotFlags struct {
	Bucket   string
	Key      string
	Endpoint string
}

func addSnapshotFlags(cmd *cobra.Command, flags *SnapshotFlags) {
	cmd.Flags().StringVar(&flags.Bucket, "bucket", "", "S3 bucket holding the snapshot (default SNAPSHOT_BUCKET)")
	cmd.Flags().StringVar(&flags.Key, "key", "", "S3 object key of the snapshot (default SNAPSHOT_KEY)")
	cmd.Flags().StringVar(&flags.Endpoint, "endpoint", "", "S3 endpoint URL (default SNAPSHOT_ENDPOINT, else the AWS SDK default)")
}

// openSnapshot resolves the snapshot location from flags and config
func openSnapshot(ctx context.Context, flags *SnapshotFlags, cfg *config.Config, log *slog.Logger) (*s3snapshot.Snapshot, error) {
	bucket := flags.Bucket
	if bucket == "" {
		bucket = cfg.SnapshotBucket
	}
	if bucket == "" {
		return nil, &UsageError{errors.New("no snapshot bucket: pass --bucket or set SNAPSHOT_BUCKET")}
	}
	key := flags.Key
	if key == "" {
		key = cfg.SnapshotKey
	}

	endpoint := flags.Endpoint
	if endpoint == "" {
		endpoint = cfg.SnapshotEndpoint
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return s3snapshot.New(client, bucket, key, log), nil
}

func newExportCmd() *cobra.Command {
	var flags struct {
		PersistenceFlags
		SnapshotFlags
	}

	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Write every stored message to an S3 snapshot",
		GroupID: "data",
		Long: `Write all messages from the data store to a single JSON object in S3.

The object has the same layout as a --file data store, so it can be
imported into any backend later.

Examples:
  # Export the local SQLite database
  msgsvc export --sqlite ./data/app.db --bucket my-backups

  # Export DynamoDB to a specific key
  msgsvc export --dynamodb-table messages --bucket my-backups --key 2026/messages.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(&flags.PersistenceFlags)
			if err != nil {
				return err
			}
			log := cliLogger(cmd, cfg)

			snap, err := openSnapshot(ctx, &flags.SnapshotFlags, cfg, log)
			if err != nil {
				return err
			}

			svc, closeFn, err := openService(ctx, cmd, &flags.PersistenceFlags)
			if err != nil {
				return err
			}
			defer closeFn()

			all, err := svc.All(ctx)
			if err != nil {
				return err
			}
			if err := snap.Save(ctx, all); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d message(s) to %s\n", len(all), snap.Location())
			return nil
		},
	}
	addPersistenceFlags(cmd, &flags.PersistenceFlags)
	addSnapshotFlags(cmd, &flags.SnapshotFlags)
	return cmd
}

func newImportCmd() *cobra.Command {
	var flags struct {
		PersistenceFlags
		SnapshotFlags
	}

	cmd := &cobra.Command{
		Use:     "import",
		Short:   "Load messages from an S3 snapshot into storage",
		GroupID: "data",
		Long: `Read a snapshot written by export and store its messages.

Messages whose ID already exists are skipped. Properties are recomputed
and content is validated before anything is stored.

Examples:
  msgsvc import --file ./messages.json --bucket my-backups`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(&flags.PersistenceFlags)
			if err != nil {
				return err
			}
			log := cliLogger(cmd, cfg)

			snap, err := openSnapshot(ctx, &flags.SnapshotFlags, cfg, log)
			if err != nil {
				return err
			}
			msgs, err := snap.Load(ctx)
			if err != nil {
				return err
			}

			svc, closeFn, err := openService(ctx, cmd, &flags.PersistenceFlags)
			if err != nil {
				return err
			}
			defer closeFn()

			imported, skipped, err := svc.Import(ctx, msgs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d message(s) from %s, skipped %d existing\n",
				imported, snap.Location(), skipped)
			return nil
		},
	}
	addPersistenceFlags(cmd, &flags.PersistenceFlags)
	addSnapshotFlags(cmd, &flags.SnapshotFlags)
	return cmd
}
