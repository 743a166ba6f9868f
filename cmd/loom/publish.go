package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vango-dev/loom/pkg/publish"
	"github.com/vango-dev/loom/pkg/render"
	"github.com/vango-dev/loom/pkg/serve"
)

func publishCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload rendered pages to an S3 bucket",
		Long: `Render every page of the page directory and upload it to an
S3 bucket as <prefix><name>.html.

Credentials are read from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY
and AWS_SESSION_TOKEN.

Examples:
  loom publish --bucket my-site --prefix pages/ --region eu-west-1
  loom publish --bucket site --endpoint http://localhost:9000 --path-style`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPublish(cmd.Context(), nil)
		},
	}

	cmd.Flags().String("bucket", "", "Bucket name")
	cmd.Flags().String("prefix", "", "Object key prefix")
	cmd.Flags().String("region", "", "Bucket region")
	cmd.Flags().String("endpoint", "", "Custom S3 endpoint")
	cmd.Flags().Bool("path-style", false, "Use path-style bucket addressing")
	cmd.Flags().String("pages", "", "Page directory (default from loom.yaml)")
	cmd.Flags().String("preset", "", "Render preset: default, pretty, email, optimized")
	a.bind(cmd, "publish.bucket", "bucket")
	a.bind(cmd, "publish.prefix", "prefix")
	a.bind(cmd, "publish.region", "region")
	a.bind(cmd, "publish.endpoint", "endpoint")
	a.bind(cmd, "publish.path_style", "path-style")
	a.bind(cmd, "serve.pages", "pages")
	a.bind(cmd, "render.preset", "preset")

	return cmd
}

// runPublish publishes the page directory. A nil client is built from the
// publish config.
func (a *app) runPublish(ctx context.Context, client publish.PutObjectAPI) error {
	store, err := serve.NewStore(a.cfg.PagesPath(), a.logger)
	if err != nil {
		return err
	}
	cfg, err := a.cfg.RenderConfig()
	if err != nil {
		return err
	}

	pc := a.cfg.Publish
	if client == nil {
		client = publish.NewClient(publish.ClientConfig{
			Region:    pc.Region,
			Endpoint:  pc.Endpoint,
			PathStyle: pc.PathStyle,
		})
	}

	p := &publish.Publisher{
		Client:       client,
		Bucket:       pc.Bucket,
		Prefix:       pc.Prefix,
		Renderer:     render.NewRenderer(cfg, render.WithLogger(a.logger)),
		CacheControl: pc.CacheControl,
		Concurrency:  pc.Concurrency,
		Logger:       a.logger,
	}

	results, err := p.PublishAll(ctx, store)
	for _, res := range results {
		a.info("%s → s3://%s/%s (%d bytes)", res.Name, pc.Bucket, res.Key, res.Bytes)
	}
	if err != nil {
		a.errorMsg("publish failed after %d of %d pages", len(results), len(store.Names()))
		return err
	}
	a.success("Published %d pages", len(results))
	return nil
}
